package model

import (
	"fmt"
	"strings"
	"unicode"
)

// BlockID identifies a block for its whole lifetime.
type BlockID string

// NodeType names a block type registered in the schema (e.g. "paragraph").
type NodeType string

// MarkType names an inline formatting mark (e.g. "bold").
type MarkType string

// InlineType names an atomic inline node type (e.g. "image").
type InlineType string

// Built-in type names used by the core itself.
const (
	Paragraph NodeType = "paragraph"

	Bold      MarkType = "bold"
	Italic    MarkType = "italic"
	Underline MarkType = "underline"
)

func checkIdentifier(kind, s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidIdentifier, kind)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %s %q contains whitespace", ErrInvalidIdentifier, kind, s)
	}
	return nil
}

// ParseBlockID validates s and returns it as a BlockID.
func ParseBlockID(s string) (BlockID, error) {
	if err := checkIdentifier("block id", s); err != nil {
		return "", err
	}
	return BlockID(s), nil
}

// ParseNodeType validates s and returns it as a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	if err := checkIdentifier("node type", s); err != nil {
		return "", err
	}
	return NodeType(s), nil
}

// ParseMarkType validates s and returns it as a MarkType.
func ParseMarkType(s string) (MarkType, error) {
	if err := checkIdentifier("mark type", s); err != nil {
		return "", err
	}
	return MarkType(s), nil
}

// ParseInlineType validates s and returns it as an InlineType.
func ParseInlineType(s string) (InlineType, error) {
	if err := checkIdentifier("inline type", s); err != nil {
		return "", err
	}
	return InlineType(s), nil
}

// MustBlockID is like ParseBlockID but panics on invalid input.
// It is intended for literals in tests and static tables.
func MustBlockID(s string) BlockID {
	id, err := ParseBlockID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// MustNodeType is like ParseNodeType but panics on invalid input.
func MustNodeType(s string) NodeType {
	t, err := ParseNodeType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// MustMarkType is like ParseMarkType but panics on invalid input.
func MustMarkType(s string) MarkType {
	t, err := ParseMarkType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// MustInlineType is like ParseInlineType but panics on invalid input.
func MustInlineType(s string) InlineType {
	t, err := ParseInlineType(s)
	if err != nil {
		panic(err)
	}
	return t
}
