package workspace_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yellow-notes/yellow/pkg/notes"
	"github.com/yellow-notes/yellow/pkg/workspace"
)

func newNote(id, content string, creationS int64) *notes.Note {
	return notes.New(id, &notes.Author{ID: "1", Name: "Michael Russo"}, content, creationS)
}

func TestAddSpaceInsertsAtFront(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Read")
	ws.AddSpace("Unread")

	require.Len(t, ws.Columns, 2)
	assert.Equal(t, "Unread", ws.Columns[0].Title)
	assert.Equal(t, "Read", ws.Columns[1].Title)
	require.NoError(t, ws.CheckInvariants())
}

func TestAddSpaceAllowsDuplicateTitles(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("TODOs")
	ws.AddSpace("TODOs")

	assert.Len(t, ws.Columns, 2)
}

func TestActionIDIncreasesOnEveryMutation(t *testing.T) {
	ws := workspace.New()
	a1 := ws.AddSpace("Read")
	a2 := ws.AddAuthor(&notes.Author{ID: "1", Name: "Michael Russo"})
	a3, err := ws.AddNote(newNote("11", "Wild win", 0), 0)
	require.NoError(t, err)

	assert.Less(t, a1, a2)
	assert.Less(t, a2, a3)
}

func TestAddAuthorLastWriteWins(t *testing.T) {
	ws := workspace.New()
	ws.AddAuthor(&notes.Author{ID: "1", Name: "First"})
	ws.AddAuthor(&notes.Author{ID: "1", Name: "Second"})

	a, ok := ws.GetAuthor("1")
	require.True(t, ok)
	assert.Equal(t, "Second", a.Name)
}

func TestAddNoteRejectsInvalidSpaceIndex(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Read")

	_, err := ws.AddNote(newNote("11", "Wild win", 0), 1)
	assert.ErrorIs(t, err, workspace.ErrSpaceIndexOutOfRange)

	_, err = ws.AddNote(newNote("11", "Wild win", 0), -1)
	assert.ErrorIs(t, err, workspace.ErrSpaceIndexOutOfRange)
}

func TestAddNoteRejectsDuplicateID(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Errors")
	_, err := ws.AddNote(newNote("11", "first", 0), 0)
	require.NoError(t, err)

	_, err = ws.AddNote(newNote("11", "second", 0), 0)
	assert.ErrorIs(t, err, workspace.ErrDuplicateNoteID)

	// The rejected add must leave the column untouched.
	assert.Equal(t, []string{"11"}, ws.Columns[0].Order)
	assert.Equal(t, "first", ws.Columns[0].Notes["11"].Content)
	require.NoError(t, ws.CheckInvariants())
}

func TestBackToBackErrorNotesKeepInvariant(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Errors")

	for i := 0; i < 5; i++ {
		_, err := ws.AddNote(notes.NewErrorNote("Search Error", errors.New("status: 404")), 0)
		require.NoError(t, err)
	}

	require.Len(t, ws.Columns[0].Order, 5)
	require.NoError(t, ws.CheckInvariants())
}

func TestMovesNoteAcrossColumns(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Read")
	ws.AddSpace("Unread")
	ws.AddAuthor(&notes.Author{ID: "1", Name: "Michael Russo"})

	_, err := ws.AddNote(newNote("11", "Wild win", 0), 0)
	require.NoError(t, err)
	_, err = ws.ReorderNote(0, 0, 1, 0)
	require.NoError(t, err)

	require.Len(t, ws.Columns, 2)
	assert.Empty(t, ws.Columns[0].Order)
	assert.Empty(t, ws.Columns[0].Notes)
	assert.Len(t, ws.Columns[1].Order, 1)
	assert.Len(t, ws.Columns[1].Notes, 1)
	require.NoError(t, ws.CheckInvariants())
}

func TestReordersNotesWithinColumn(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Unread")
	ws.AddAuthor(&notes.Author{ID: "1", Name: "Michael Russo"})

	_, err := ws.AddNote(newNote("11", "Wild win", 0), 0)
	require.NoError(t, err)
	_, err = ws.AddNote(newNote("12", "Wild win again", 0), 0)
	require.NoError(t, err)

	// Adds append, so the order is insertion order.
	assert.Equal(t, []string{"11", "12"}, ws.Columns[0].Order)

	_, err = ws.ReorderNote(0, 0, 0, 1)
	require.NoError(t, err)

	require.Len(t, ws.Columns, 1)
	assert.Equal(t, []string{"12", "11"}, ws.Columns[0].Order)
	assert.Len(t, ws.Columns[0].Notes, 2)
	require.NoError(t, ws.CheckInvariants())
}

func TestReorderSamePositionIsIdempotent(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Unread")
	_, err := ws.AddNote(newNote("11", "a", 0), 0)
	require.NoError(t, err)
	_, err = ws.AddNote(newNote("12", "b", 0), 0)
	require.NoError(t, err)

	_, err = ws.ReorderNote(0, 0, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"11", "12"}, ws.Columns[0].Order)
	require.NoError(t, ws.CheckInvariants())
}

func TestReorderClampsDestinationIndex(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Read")
	ws.AddSpace("Unread")
	_, err := ws.AddNote(newNote("11", "a", 0), 0)
	require.NoError(t, err)
	_, err = ws.AddNote(newNote("12", "b", 1), 1)
	require.NoError(t, err)

	t.Run("beyond length appends", func(t *testing.T) {
		_, err := ws.ReorderNote(0, 0, 1, 99)
		require.NoError(t, err)
		assert.Equal(t, []string{"12", "11"}, ws.Columns[1].Order)
		require.NoError(t, ws.CheckInvariants())
	})

	t.Run("negative prepends", func(t *testing.T) {
		_, err := ws.ReorderNote(1, 1, 1, -5)
		require.NoError(t, err)
		assert.Equal(t, []string{"11", "12"}, ws.Columns[1].Order)
		require.NoError(t, ws.CheckInvariants())
	})
}

func TestReorderRejectsInvalidIndices(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Read")
	_, err := ws.AddNote(newNote("11", "a", 0), 0)
	require.NoError(t, err)

	_, err = ws.ReorderNote(2, 0, 0, 0)
	assert.ErrorIs(t, err, workspace.ErrSpaceIndexOutOfRange)
	_, err = ws.ReorderNote(0, 0, 2, 0)
	assert.ErrorIs(t, err, workspace.ErrSpaceIndexOutOfRange)
	_, err = ws.ReorderNote(0, 1, 0, 0)
	assert.ErrorIs(t, err, workspace.ErrNoteIndexOutOfRange)
}

func TestReorderMovesExactlyOneNote(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Read")
	ws.AddSpace("Unread")
	for i, id := range []string{"11", "12", "13"} {
		_, err := ws.AddNote(newNote(id, "x", int64(i)), 0)
		require.NoError(t, err)
	}
	_, err := ws.AddNote(newNote("21", "y", 0), 1)
	require.NoError(t, err)

	_, err = ws.ReorderNote(0, 1, 1, 1)
	require.NoError(t, err)

	assert.Len(t, ws.Columns[0].Notes, 2)
	assert.Len(t, ws.Columns[1].Notes, 2)
	assert.Equal(t, []string{"11", "13"}, ws.Columns[0].Order)
	assert.Equal(t, []string{"21", "12"}, ws.Columns[1].Order)
	require.NoError(t, ws.CheckInvariants())
}

func TestDeleteNote(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Read")
	_, err := ws.AddNote(newNote("11", "a", 0), 0)
	require.NoError(t, err)
	_, err = ws.AddNote(newNote("12", "b", 0), 0)
	require.NoError(t, err)

	_, err = ws.DeleteNote(0, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"12"}, ws.Columns[0].Order)
	assert.NotContains(t, ws.Columns[0].Notes, "11")
	require.NoError(t, ws.CheckInvariants())

	_, err = ws.DeleteNote(0, 5)
	assert.ErrorIs(t, err, workspace.ErrNoteIndexOutOfRange)
}

func TestDeleteSpaceShiftsIndices(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("C")
	ws.AddSpace("B")
	ws.AddSpace("A")
	_, err := ws.AddNote(newNote("11", "gone", 0), 1)
	require.NoError(t, err)

	_, err = ws.DeleteSpace(1)
	require.NoError(t, err)

	require.Len(t, ws.Columns, 2)
	assert.Equal(t, "A", ws.Columns[0].Title)
	assert.Equal(t, "C", ws.Columns[1].Title)
	for _, col := range ws.Columns {
		assert.NotContains(t, col.Notes, "11")
	}
	require.NoError(t, ws.CheckInvariants())
}

func TestSpaceIndexByTitle(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Errors")
	ws.AddSpace("Recent notes")

	assert.Equal(t, 0, ws.SpaceIndexByTitle("Recent notes"))
	assert.Equal(t, 1, ws.SpaceIndexByTitle("Errors"))
	assert.Equal(t, -1, ws.SpaceIndexByTitle("nope"))
}

func TestSnapshotIsShallowCopy(t *testing.T) {
	ws := workspace.New()
	ws.AddSpace("Read")

	snapshot := ws.Snapshot()
	ws.AddSpace("Unread")

	require.Len(t, snapshot, 1)
	assert.Equal(t, "Read", snapshot[0].Title)
	assert.Len(t, ws.Columns, 2)
}
