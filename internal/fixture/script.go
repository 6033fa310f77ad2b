package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/inkwell/internal/command"
	"github.com/dshills/inkwell/internal/model"
)

// Operation names accepted in scripts.
const (
	OpInsertText     = "insert_text"
	OpDeleteText     = "delete_text"
	OpAddMark        = "add_mark"
	OpRemoveMark     = "remove_mark"
	OpSplitBlock     = "split_block"
	OpSetCursor      = "set_cursor"
	OpUndo           = "undo"
	OpRedo           = "redo"
	OpToggleMark     = "toggle_mark"
	OpDeleteBackward = "delete_backward"
	OpSetBlockType   = "set_block_type"
)

var knownOps = map[string]bool{
	OpInsertText: true, OpDeleteText: true, OpAddMark: true, OpRemoveMark: true,
	OpSplitBlock: true, OpSetCursor: true, OpUndo: true, OpRedo: true,
	OpToggleMark: true, OpDeleteBackward: true, OpSetBlockType: true,
}

// Script is a decoded script file.
type Script struct {
	Ops []Op `yaml:"ops"`
}

// Op is one script operation. Which fields apply depends on Op.
type Op struct {
	Op     string         `yaml:"op"`
	Block  string         `yaml:"block,omitempty"`
	Offset int            `yaml:"offset,omitempty"`
	From   int            `yaml:"from,omitempty"`
	To     int            `yaml:"to,omitempty"`
	Text   string         `yaml:"text,omitempty"`
	Mark   string         `yaml:"mark,omitempty"`
	Type   string         `yaml:"type,omitempty"`
	Attrs  map[string]any `yaml:"attrs,omitempty"`
	NewID  string         `yaml:"new_id,omitempty"`
}

// Host is the editor a script drives. *view.View satisfies it.
type Host interface {
	command.Target
	Undo() bool
	Redo() bool
}

// DecodeScript reads a script file and checks every operation name.
func DecodeScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	for i, op := range s.Ops {
		if !knownOps[op.Op] {
			return nil, &OpError{Index: i, Op: op.Op, Err: ErrUnknownOp}
		}
	}
	return &s, nil
}

// ReadScript reads and decodes the script file at path.
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := DecodeScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Run applies the operations to h in order and stops at the first one
// that fails. split_block takes its new id from NewID, else from gen.
func (s *Script) Run(h Host, gen model.IDGenerator) error {
	for i, op := range s.Ops {
		if err := op.apply(h, gen); err != nil {
			return &OpError{Index: i, Op: op.Op, Err: err}
		}
	}
	return nil
}

func (op Op) apply(h Host, gen model.IDGenerator) error {
	id := model.BlockID(op.Block)
	attrs := model.Attrs(op.Attrs)
	switch op.Op {
	case OpInsertText:
		return command.Apply(h, command.InsertTextAt(id, op.Offset, op.Text))
	case OpDeleteText:
		return command.Apply(h, command.DeleteTextAt(id, op.From, op.To))
	case OpAddMark:
		return command.Apply(h, command.AddMarkAt(id, op.From, op.To, model.MarkType(op.Mark), attrs))
	case OpRemoveMark:
		return command.Apply(h, command.RemoveMarkAt(id, op.From, op.To, model.MarkType(op.Mark)))
	case OpSplitBlock:
		newID := model.BlockID(op.NewID)
		if newID == "" {
			if gen == nil {
				return ErrMissingID
			}
			newID = gen.NewBlockID()
		}
		return command.Apply(h, command.SplitBlockAt(id, op.Offset, newID))
	case OpSetCursor:
		return command.Apply(h, command.SetCursor(id, op.Offset))
	case OpUndo:
		return applied(h.Undo())
	case OpRedo:
		return applied(h.Redo())
	case OpToggleMark:
		return applied(command.ToggleMark(model.MarkType(op.Mark), attrs)(h.State(), h.Dispatch))
	case OpDeleteBackward:
		return applied(command.DeleteBackward(h.State(), h.Dispatch))
	case OpSetBlockType:
		return applied(command.SetBlockType(model.NodeType(op.Type), attrs)(h.State(), h.Dispatch))
	}
	return ErrUnknownOp
}

func applied(ok bool) error {
	if !ok {
		return ErrNotApplicable
	}
	return nil
}
