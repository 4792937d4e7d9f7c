// Package workspace implements the in-memory model behind the note board: an
// ordered set of columns, each holding notes addressable by id and ordered by
// an independent display sequence.
package workspace

import (
	"errors"
	"fmt"

	"github.com/yellow-notes/yellow/pkg/notes"
)

var (
	ErrSpaceIndexOutOfRange = errors.New("space index out of range")
	ErrNoteIndexOutOfRange  = errors.New("note index out of range")
	ErrDuplicateNoteID      = errors.New("duplicate note id")
)

// Column is a named group of notes. Notes holds the payloads keyed by id for
// O(1) lookup; Order holds the ids in display order and is manipulable
// without relocating payloads. Order is always a permutation of the key set
// of Notes.
type Column struct {
	Title string
	Notes map[string]*notes.Note
	Order []string
}

// NewColumn returns an empty column with the given title.
func NewColumn(title string) *Column {
	return &Column{
		Title: title,
		Notes: make(map[string]*notes.Note),
		Order: []string{},
	}
}

// Workspace owns the author registry and the ordered columns. Column indices
// are positional: they shift whenever a column is inserted or deleted, so
// callers must re-resolve indices after any structural mutation.
//
// Every mutating operation returns the next value of a monotonically
// increasing action counter. The counter is a change-notification token only;
// it never identifies or orders entities.
type Workspace struct {
	actionID uint64

	Authors map[string]*notes.Author
	Columns []*Column
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{
		Authors: make(map[string]*notes.Author),
		Columns: []*Column{},
	}
}

func (w *Workspace) next() uint64 {
	w.actionID++
	return w.actionID
}

// AddAuthor upserts the author into the registry, last write wins.
func (w *Workspace) AddAuthor(a *notes.Author) uint64 {
	w.Authors[a.ID] = a
	return w.next()
}

// GetAuthor looks up an author by id.
func (w *Workspace) GetAuthor(id string) (*notes.Author, bool) {
	a, ok := w.Authors[id]
	return a, ok
}

// AddSpace inserts a new empty column at the front, so the new column is
// always at index 0. Titles are not deduplicated; repeated calls with the
// same title create multiple columns.
func (w *Workspace) AddSpace(title string) uint64 {
	w.Columns = append([]*Column{NewColumn(title)}, w.Columns...)
	return w.next()
}

// AddNote inserts the note into the column at spaceIdx, appending its id to
// the end of the display order. A note whose id is already present in the
// column is rejected: silently overwriting the map entry while appending the
// id again would leave the order out of sync with the key set.
func (w *Workspace) AddNote(n *notes.Note, spaceIdx int) (uint64, error) {
	if spaceIdx < 0 || spaceIdx >= len(w.Columns) {
		return 0, fmt.Errorf("%w: %d", ErrSpaceIndexOutOfRange, spaceIdx)
	}
	col := w.Columns[spaceIdx]
	if _, ok := col.Notes[n.ID]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateNoteID, n.ID)
	}
	col.Notes[n.ID] = n
	col.Order = append(col.Order, n.ID)
	return w.next(), nil
}

// DeleteNote removes the note at position noteIdx of the column's display
// order, from both the map and the order list.
func (w *Workspace) DeleteNote(spaceIdx, noteIdx int) (uint64, error) {
	if spaceIdx < 0 || spaceIdx >= len(w.Columns) {
		return 0, fmt.Errorf("%w: %d", ErrSpaceIndexOutOfRange, spaceIdx)
	}
	col := w.Columns[spaceIdx]
	if noteIdx < 0 || noteIdx >= len(col.Order) {
		return 0, fmt.Errorf("%w: %d", ErrNoteIndexOutOfRange, noteIdx)
	}
	noteID := col.Order[noteIdx]
	delete(col.Notes, noteID)
	col.Order = append(col.Order[:noteIdx], col.Order[noteIdx+1:]...)
	return w.next(), nil
}

// DeleteSpace removes the column at spaceIdx, discarding its notes. Every
// subsequent column's effective index shifts down by one.
func (w *Workspace) DeleteSpace(spaceIdx int) (uint64, error) {
	if spaceIdx < 0 || spaceIdx >= len(w.Columns) {
		return 0, fmt.Errorf("%w: %d", ErrSpaceIndexOutOfRange, spaceIdx)
	}
	w.Columns = append(w.Columns[:spaceIdx], w.Columns[spaceIdx+1:]...)
	return w.next(), nil
}

// ReorderNote moves the note at srcIdx of the source column's display order
// to destIdx of the destination column's display order. The removal filters
// by id rather than splicing by position, so it stays correct as long as the
// id appears exactly once. A destination index beyond the current length is
// an append; moving a note onto its own position is a permitted no-op.
//
// When source and destination are the same column only the order changes;
// otherwise the payload moves between the column maps under the same id.
func (w *Workspace) ReorderNote(srcSpace, srcIdx, destSpace, destIdx int) (uint64, error) {
	if srcSpace < 0 || srcSpace >= len(w.Columns) {
		return 0, fmt.Errorf("%w: src %d", ErrSpaceIndexOutOfRange, srcSpace)
	}
	if destSpace < 0 || destSpace >= len(w.Columns) {
		return 0, fmt.Errorf("%w: dest %d", ErrSpaceIndexOutOfRange, destSpace)
	}
	src := w.Columns[srcSpace]
	dest := w.Columns[destSpace]
	if srcIdx < 0 || srcIdx >= len(src.Order) {
		return 0, fmt.Errorf("%w: src %d", ErrNoteIndexOutOfRange, srcIdx)
	}
	noteID := src.Order[srcIdx]

	order := make([]string, 0, len(src.Order))
	for _, id := range src.Order {
		if id != noteID {
			order = append(order, id)
		}
	}
	src.Order = order

	if destIdx < 0 {
		destIdx = 0
	}
	if destIdx > len(dest.Order) {
		destIdx = len(dest.Order)
	}
	dest.Order = append(dest.Order, "")
	copy(dest.Order[destIdx+1:], dest.Order[destIdx:])
	dest.Order[destIdx] = noteID

	if src != dest {
		n := src.Notes[noteID]
		delete(src.Notes, noteID)
		dest.Notes[noteID] = n
	}
	return w.next(), nil
}

// SpaceIndexByTitle returns the index of the first column with the given
// title, or -1 when no column matches.
func (w *Workspace) SpaceIndexByTitle(title string) int {
	for i, col := range w.Columns {
		if col.Title == title {
			return i
		}
	}
	return -1
}

// Snapshot returns a shallow copy of the column slice for publishing to
// subscribers. The columns themselves are shared; subscribers must treat
// them as read-only.
func (w *Workspace) Snapshot() []*Column {
	cols := make([]*Column, len(w.Columns))
	copy(cols, w.Columns)
	return cols
}

// CheckInvariants verifies that every column's display order is a permutation
// of its note map's key set: no duplicates, no dangling ids, no omissions.
// Violations are programming errors; tests call this after every operation.
func (w *Workspace) CheckInvariants() error {
	for i, col := range w.Columns {
		if len(col.Order) != len(col.Notes) {
			return fmt.Errorf("column %d (%q): order has %d entries, map has %d",
				i, col.Title, len(col.Order), len(col.Notes))
		}
		seen := make(map[string]bool, len(col.Order))
		for _, id := range col.Order {
			if seen[id] {
				return fmt.Errorf("column %d (%q): duplicate id %q in order", i, col.Title, id)
			}
			seen[id] = true
			if _, ok := col.Notes[id]; !ok {
				return fmt.Errorf("column %d (%q): dangling id %q in order", i, col.Title, id)
			}
		}
	}
	return nil
}
