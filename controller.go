package yellow

import (
	"context"

	"github.com/yellow-notes/yellow/pkg/notes"
	"github.com/yellow-notes/yellow/pkg/stream"
	"github.com/yellow-notes/yellow/pkg/workspace"
)

// Controller mediates between UI state and a backing data source. All
// structural mutations republish the column snapshot, so subscribers never
// observe derived state paired with a stale snapshot.
//
// Login, Search, SaveNote and SetNotePrivacy may perform remote I/O and take
// a context; the rest are synchronous, in-process operations.
type Controller interface {
	// Login attempts to authenticate and publishes the outcome on the
	// logged-in stream. On failure it only publishes false; no error note
	// is inserted since there is no workspace to show it in yet.
	Login(ctx context.Context, username, password string)
	// Logout clears credentials, resets the workspace to empty and
	// publishes empty columns and a false logged-in state.
	Logout()

	// AddSpace inserts a new empty column at the front and returns its
	// index, which is always 0.
	AddSpace(title string) int
	DeleteNote(spaceIndex, noteIndex int)
	DeleteSpace(spaceIndex int)
	ReorderNote(srcSpace, srcNote, destSpace, destNote int)
	OrderNotesByDate(spaceIndex int)
	OrderNotesByScore(spaceIndex int)

	// Search resolves the term to notes and inserts them into the column
	// at spaceIndex. A single republish after all results arrive is
	// sufficient; results from concurrent searches may interleave.
	Search(ctx context.Context, term string, spaceIndex int)
	// SaveNote persists new note content. On failure it returns the error
	// for the caller to display and leaves the workspace untouched.
	SaveNote(ctx context.Context, content string) error
	SetNotePrivacy(ctx context.Context, noteID string, privacy notes.Privacy)

	Spaces() *stream.Stream[[]*workspace.Column]
	LoggedIn() *stream.Stream[bool]
	// UpdateSubscribers force-publishes the current column snapshot. Call
	// it once after subscribing: the streams do not replay.
	UpdateSubscribers()
}
