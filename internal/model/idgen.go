package model

import (
	"crypto/rand"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultIDPrefix is prepended to generated block ids.
const DefaultIDPrefix = "blk_"

// IDGenerator produces block ids that are unique for the generator's lifetime.
type IDGenerator interface {
	NewBlockID() BlockID
}

// ULIDGenerator generates prefixed, lexically increasing ids from ULIDs.
// It is safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	prefix  string
	entropy io.Reader
	now     func() time.Time
}

// ULIDOption configures a ULIDGenerator.
type ULIDOption func(*ULIDGenerator)

// WithPrefix sets the id prefix.
func WithPrefix(prefix string) ULIDOption {
	return func(g *ULIDGenerator) {
		g.prefix = prefix
	}
}

// WithClock replaces the time source, mainly for tests.
func WithClock(now func() time.Time) ULIDOption {
	return func(g *ULIDGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewULIDGenerator creates a generator with monotonic entropy.
func NewULIDGenerator(opts ...ULIDOption) *ULIDGenerator {
	g := &ULIDGenerator{
		prefix:  DefaultIDPrefix,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewBlockID returns the next id.
func (g *ULIDGenerator) NewBlockID() BlockID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	return BlockID(g.prefix + id.String())
}

// SequenceGenerator generates prefix + counter ids ("b1", "b2", ...).
// Output is deterministic, which makes it the generator of choice for fixtures.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequenceGenerator creates a generator whose first id is prefix + start.
func NewSequenceGenerator(prefix string, start uint64) *SequenceGenerator {
	g := &SequenceGenerator{prefix: prefix}
	g.next.Store(start)
	return g
}

// NewBlockID returns the next id.
func (g *SequenceGenerator) NewBlockID() BlockID {
	n := g.next.Add(1) - 1
	return BlockID(g.prefix + strconv.FormatUint(n, 10))
}
