package state

import (
	"fmt"
	"sync"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/transaction"
)

// Config is the input to Create.
type Config struct {
	Doc         *model.Document
	Selection   selection.Selection
	StoredMarks []model.Mark
	Schema      *schema.Registry
	// IDGenerator names the placeholder paragraph when Doc is nil.
	IDGenerator model.IDGenerator
}

// EditorState is an immutable snapshot of the editor.
type EditorState struct {
	doc         *model.Document
	sel         selection.Selection
	storedMarks []model.Mark
	schema      *schema.Registry

	indexOnce sync.Once
	index     map[model.BlockID]*model.BlockNode
}

// Create builds a state. A nil document becomes a single empty paragraph and
// a nil selection becomes a cursor at the start of the first leaf block.
// Nothing is validated; the schema is advisory.
func Create(cfg Config) *EditorState {
	doc := cfg.Doc
	switch {
	case doc != nil:
	case cfg.IDGenerator != nil:
		doc = model.NewDocumentWithGenerator(cfg.IDGenerator)
	default:
		doc = model.NewDocument()
	}
	sel := cfg.Selection
	if sel == nil {
		sel = selection.AtStart(doc)
	}
	return &EditorState{doc: doc, sel: sel, storedMarks: cfg.StoredMarks, schema: cfg.Schema}
}

// Doc returns the document.
func (s *EditorState) Doc() *model.Document { return s.doc }

// Selection returns the selection.
func (s *EditorState) Selection() selection.Selection { return s.sel }

// StoredMarks returns the marks queued for the next typed text.
func (s *EditorState) StoredMarks() []model.Mark { return s.storedMarks }

// Schema returns the schema registry, which may be nil.
func (s *EditorState) Schema() *schema.Registry { return s.schema }

// Apply folds the steps of tr over the document and returns the resulting
// state with tr's selection and stored marks after. A selection that no
// longer addresses the document is clamped. s is unchanged.
func (s *EditorState) Apply(tr *transaction.Transaction) (*EditorState, error) {
	doc, err := tr.Apply(s.doc)
	if err != nil {
		return nil, fmt.Errorf("apply transaction %s: %w", tr.ID, err)
	}
	sel := tr.SelectionAfter
	if sel == nil {
		sel = s.sel
	}
	if !selection.Validate(doc, sel) {
		sel = selection.Clamp(doc, sel)
	}
	return &EditorState{doc: doc, sel: sel, storedMarks: tr.StoredMarksAfter, schema: s.schema}, nil
}

// WithSelection returns a copy of s with another selection.
func (s *EditorState) WithSelection(sel selection.Selection) *EditorState {
	return &EditorState{doc: s.doc, sel: sel, storedMarks: s.storedMarks, schema: s.schema}
}

// Tr starts a transaction against this state.
func (s *EditorState) Tr(origin transaction.Origin) *transaction.Builder {
	return transaction.NewBuilder(s.sel, s.storedMarks, origin, s.doc)
}

// BlockByID returns the block with the given id.
func (s *EditorState) BlockByID(id model.BlockID) (*model.BlockNode, bool) {
	s.indexOnce.Do(s.buildIndex)
	b, ok := s.index[id]
	return b, ok
}

// NodePath returns the ids from the root down to id, or nil.
func (s *EditorState) NodePath(id model.BlockID) []model.BlockID {
	if _, ok := s.BlockByID(id); !ok {
		return nil
	}
	return model.BlockPath(s.doc, id)
}

// MarksAtCursor returns the stored marks, or the marks of the content just
// before the selection head when none are stored.
func (s *EditorState) MarksAtCursor() []model.Mark {
	if s.storedMarks != nil {
		return s.storedMarks
	}
	ts, ok := s.sel.(selection.TextSelection)
	if !ok {
		return nil
	}
	b, ok := s.BlockByID(ts.Head.BlockID)
	if !ok {
		return nil
	}
	off := ts.Head.Offset
	if off > 0 {
		off--
	}
	return model.MarksAtOffset(b, off)
}

func (s *EditorState) buildIndex() {
	blocks := model.AllBlocks(s.doc)
	s.index = make(map[model.BlockID]*model.BlockNode, len(blocks))
	for _, b := range blocks {
		s.index[b.ID] = b
	}
}
