package yellow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yellow-notes/yellow/pkg/logger"
	"github.com/yellow-notes/yellow/pkg/notes"
	"github.com/yellow-notes/yellow/pkg/stream"
	"github.com/yellow-notes/yellow/pkg/workspace"
)

// DemoController is the in-memory Controller used for local development and
// as the reference test fixture. It is pre-seeded with demo data and never
// performs I/O.
type DemoController struct {
	mu    sync.Mutex
	state *workspace.Workspace

	columns  *stream.Stream[[]*workspace.Column]
	loggedIn *stream.Stream[bool]
	log      logger.Logger
}

var _ Controller = (*DemoController)(nil)

// NewDemoController builds the demo source and seeds the fixture: one
// author, a "TODOs" space and two notes. A nil log disables logging.
func NewDemoController(log logger.Logger) *DemoController {
	if log == nil {
		log = logger.Noop{}
	}
	c := &DemoController{
		state:    workspace.New(),
		columns:  stream.New[[]*workspace.Column](),
		loggedIn: stream.New[bool](),
		log:      log,
	}

	c.state.AddAuthor(&notes.Author{ID: "1", Name: "Jonathan"})
	author, _ := c.state.GetAuthor("1")
	c.state.AddSpace("TODOs")
	_, _ = c.state.AddNote(notes.New("11", author, "- Do something new\n- It's π Day", 1678808892), 0)
	_, _ = c.state.AddNote(notes.New("12", author, "\U0001F4A9", 1678809892), 0)

	c.UpdateSubscribers()
	c.loggedIn.Publish(true)
	return c
}

func (c *DemoController) Login(_ context.Context, username, _ string) {
	c.log.Debug("login", "user", username)
	c.loggedIn.Publish(true)
}

func (c *DemoController) Logout() {
	c.loggedIn.Publish(false)
}

func (c *DemoController) AddSpace(title string) int {
	c.mu.Lock()
	c.state.AddSpace(title)
	c.mu.Unlock()
	c.UpdateSubscribers()
	return 0
}

func (c *DemoController) DeleteNote(spaceIndex, noteIndex int) {
	c.mu.Lock()
	if _, err := c.state.DeleteNote(spaceIndex, noteIndex); err != nil {
		c.log.Error("delete note", "error", err)
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *DemoController) DeleteSpace(spaceIndex int) {
	c.mu.Lock()
	if _, err := c.state.DeleteSpace(spaceIndex); err != nil {
		c.log.Error("delete space", "error", err)
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *DemoController) ReorderNote(srcSpace, srcNote, destSpace, destNote int) {
	c.mu.Lock()
	if _, err := c.state.ReorderNote(srcSpace, srcNote, destSpace, destNote); err != nil {
		c.log.Error("reorder note", "error", err)
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *DemoController) OrderNotesByDate(spaceIndex int) {
	c.mu.Lock()
	if spaceIndex >= 0 && spaceIndex < len(c.state.Columns) {
		workspace.OrderNotesByDate(c.state.Columns[spaceIndex])
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *DemoController) OrderNotesByScore(spaceIndex int) {
	c.mu.Lock()
	if spaceIndex >= 0 && spaceIndex < len(c.state.Columns) {
		workspace.OrderNotesByScore(c.state.Columns[spaceIndex])
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

// Search synthesizes a single note from the term instead of asking a server.
func (c *DemoController) Search(_ context.Context, term string, spaceIndex int) {
	c.mu.Lock()
	if _, err := c.state.AddNote(c.newDemoNote(term), spaceIndex); err != nil {
		c.log.Error("search", "error", err)
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

// SaveNote appends the content locally under a generated id.
func (c *DemoController) SaveNote(_ context.Context, content string) error {
	c.mu.Lock()
	_, err := c.state.AddNote(c.newDemoNote(content), 0)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.UpdateSubscribers()
	return nil
}

// SetNotePrivacy is a placeholder; the demo source has no privacy backend.
func (c *DemoController) SetNotePrivacy(context.Context, string, notes.Privacy) {}

func (c *DemoController) Spaces() *stream.Stream[[]*workspace.Column] {
	return c.columns
}

func (c *DemoController) LoggedIn() *stream.Stream[bool] {
	return c.loggedIn
}

func (c *DemoController) UpdateSubscribers() {
	c.mu.Lock()
	snapshot := c.state.Snapshot()
	c.mu.Unlock()
	c.columns.Publish(snapshot)
}

// newDemoNote must be called with c.mu held.
func (c *DemoController) newDemoNote(content string) *notes.Note {
	author, _ := c.state.GetAuthor("1")
	return notes.New(uuid.NewString(), author, content, time.Now().Unix())
}
