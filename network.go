package yellow

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yellow-notes/yellow/notesapi"
	"github.com/yellow-notes/yellow/pkg/logger"
	"github.com/yellow-notes/yellow/pkg/notes"
	"github.com/yellow-notes/yellow/pkg/recent"
	"github.com/yellow-notes/yellow/pkg/stream"
	"github.com/yellow-notes/yellow/pkg/workspace"
)

const (
	// RecentTitle is the column the default view and saved notes land in.
	RecentTitle = "Recent notes"
	// ErrorsTitle is the column privacy-update failures are reported in,
	// created on demand.
	ErrorsTitle = "Errors"
)

// NetworkController implements Controller against a remote notes service.
//
// Failure policy: every remote call site converts transport failures and
// non-200 statuses into a synthetic system note inserted into the workspace,
// so the UI always has something renderable under partial backend failure.
// The two exceptions are Login, which only publishes false on the logged-in
// stream (there is no workspace to show an error in yet), and SaveNote,
// which returns the error to the caller without mutating the workspace.
//
// In-flight requests are not cancelled by Logout. Each asynchronous
// completion writes into the workspace instance it captured when the
// operation started; after logout that instance is orphaned, so late
// completions cannot resurface notes in the fresh workspace.
type NetworkController struct {
	cfg Config
	api *notesapi.Client
	log logger.Logger

	mu     sync.Mutex
	recent *recent.Store
	state  *workspace.Workspace
	author *notes.Author
	userID int64

	columns  *stream.Stream[[]*workspace.Column]
	loggedIn *stream.Stream[bool]
}

var _ Controller = (*NetworkController)(nil)

// NewNetworkController builds a controller for the service configured in
// cfg. A nil log disables logging.
func NewNetworkController(cfg Config, log logger.Logger) *NetworkController {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.Noop{}
	}
	return &NetworkController{
		cfg:      cfg,
		api:      notesapi.New(cfg.ServerURL, &http.Client{Timeout: cfg.HTTPTimeout}),
		log:      log,
		state:    workspace.New(),
		columns:  stream.New[[]*workspace.Column](),
		loggedIn: stream.New[bool](),
	}
}

// SetRecentStore attaches a persistent recent-search store. Search terms are
// recorded into it; a nil store disables recording.
func (c *NetworkController) SetRecentStore(s *recent.Store) {
	c.mu.Lock()
	c.recent = s
	c.mu.Unlock()
}

// Login authenticates against the server. On success it publishes true,
// builds the default view from the most recent notes and loads the user's
// own author record; on any failure it publishes false.
func (c *NetworkController) Login(ctx context.Context, username, password string) {
	c.log.Debug("login", "user", username)

	creds, err := c.api.Login(ctx, username, password)
	if err != nil || creds.Token == "" {
		if err != nil {
			c.log.Warn("login failed", "error", err)
		}
		c.loggedIn.Publish(false)
		return
	}

	c.api.SetToken(creds.Token)
	c.mu.Lock()
	c.userID = creds.ID
	c.mu.Unlock()

	c.loggedIn.Publish(true)
	c.createDefaultView(ctx)

	author, err := c.loadAuthor(ctx, strconv.FormatInt(creds.ID, 10))
	if err != nil {
		c.log.Warn("load own author", "error", err)
		return
	}
	c.mu.Lock()
	c.author = author
	c.mu.Unlock()
}

// Logout clears credentials and replaces the workspace wholesale. Any late
// async completion keeps writing into the old, orphaned instance.
func (c *NetworkController) Logout() {
	c.api.SetToken("")
	c.mu.Lock()
	c.userID = 0
	c.author = nil
	c.state = workspace.New()
	c.mu.Unlock()

	c.columns.Publish([]*workspace.Column{})
	c.loggedIn.Publish(false)
}

// createDefaultView fills a front "Recent notes" column. The column must be
// published before any notes land in it so drag state on the UI side starts
// from a consistent snapshot.
func (c *NetworkController) createDefaultView(ctx context.Context) {
	c.AddSpace(RecentTitle)
	ws := c.currentState()

	displayError := func(err error) {
		c.log.Debug("recent error", "error", err)
		n := notes.NewErrorNote("Search Error\n\n**Failed to retrieve recent notes:**", err)
		c.addNoteByTitle(ws, RecentTitle, n)
	}

	ids, err := c.api.RecentNotes(ctx, c.cfg.RecentNotes)
	if err != nil {
		displayError(err)
		c.UpdateSubscribers()
		return
	}

	scores := make([]notesapi.SearchScore, 0, len(ids))
	for _, id := range ids {
		scores = append(scores, notesapi.SearchScore{ID: id, Score: 1})
	}
	c.fetchInto(ctx, ws, scores, func(n *notes.Note) {
		c.addNoteByTitle(ws, RecentTitle, n)
	}, displayError)
	c.UpdateSubscribers()
}

// Search asks the server for matching notes and inserts the resolved bodies
// into the column at spaceIndex. Per-note fetches fan out concurrently; all
// results eventually appear exactly once, in unspecified order when searches
// overlap. A single republish happens after all results arrived.
func (c *NetworkController) Search(ctx context.Context, term string, spaceIndex int) {
	c.log.Debug("search", "term", term)
	c.mu.Lock()
	store := c.recent
	c.mu.Unlock()
	if store != nil {
		if err := store.Record(term); err != nil {
			c.log.Warn("record recent search", "error", err)
		}
	}

	ws := c.currentState()
	displayError := func(err error) {
		c.log.Debug("search error", "error", err)
		n := notes.NewErrorNote(fmt.Sprintf("Search Error\n\n**Failed search:** `%s`", term), err)
		c.addNote(ws, spaceIndex, n)
	}

	scores, err := c.api.Search(ctx, term)
	if err != nil {
		displayError(err)
	} else {
		c.fetchInto(ctx, ws, scores, func(n *notes.Note) {
			c.addNote(ws, spaceIndex, n)
		}, displayError)
	}
	c.UpdateSubscribers()
}

// SaveNote posts the content and, on success, appends a note carrying the
// server-issued id to the "Recent notes" column. On failure the error is
// returned and the workspace is left untouched.
func (c *NetworkController) SaveNote(ctx context.Context, content string) error {
	c.log.Debug("save note")
	id, err := c.api.CreateNote(ctx, content)
	if err != nil {
		return err
	}

	ws := c.currentState()
	score := 1.0

	c.mu.Lock()
	author := c.author
	c.mu.Unlock()
	if author == nil {
		author = &notes.Author{ID: "0", Name: "me"}
	}

	n := notes.New(id, author, content, time.Now().Unix())
	n.Score = &score
	c.addNoteByTitle(ws, RecentTitle, n)
	c.UpdateSubscribers()
	return nil
}

// SetNotePrivacy updates the privacy level remotely. Failures are reported
// as a system note in the "Errors" column, created on demand.
func (c *NetworkController) SetNotePrivacy(ctx context.Context, noteID string, privacy notes.Privacy) {
	err := c.api.SetNotePrivacy(ctx, noteID, int(privacy))
	if err == nil {
		return
	}
	c.log.Debug("privacy error", "error", err)
	ws := c.currentState()
	c.addNoteByTitle(ws, ErrorsTitle, notes.NewErrorNote("Update Privacy Error:", err))
	c.UpdateSubscribers()
}

// AddSpace adds a message space and publishes immediately: subscribers must
// see the empty column before notes start landing in it.
func (c *NetworkController) AddSpace(title string) int {
	c.mu.Lock()
	c.state.AddSpace(title)
	c.mu.Unlock()
	c.UpdateSubscribers()
	return 0
}

func (c *NetworkController) DeleteNote(spaceIndex, noteIndex int) {
	c.mu.Lock()
	if _, err := c.state.DeleteNote(spaceIndex, noteIndex); err != nil {
		c.log.Error("delete note", "error", err)
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *NetworkController) DeleteSpace(spaceIndex int) {
	c.mu.Lock()
	if _, err := c.state.DeleteSpace(spaceIndex); err != nil {
		c.log.Error("delete space", "error", err)
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *NetworkController) ReorderNote(srcSpace, srcNote, destSpace, destNote int) {
	c.mu.Lock()
	if _, err := c.state.ReorderNote(srcSpace, srcNote, destSpace, destNote); err != nil {
		c.log.Error("reorder note", "error", err)
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *NetworkController) OrderNotesByDate(spaceIndex int) {
	c.mu.Lock()
	if spaceIndex >= 0 && spaceIndex < len(c.state.Columns) {
		workspace.OrderNotesByDate(c.state.Columns[spaceIndex])
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *NetworkController) OrderNotesByScore(spaceIndex int) {
	c.mu.Lock()
	if spaceIndex >= 0 && spaceIndex < len(c.state.Columns) {
		workspace.OrderNotesByScore(c.state.Columns[spaceIndex])
	}
	c.mu.Unlock()
	c.UpdateSubscribers()
}

func (c *NetworkController) Spaces() *stream.Stream[[]*workspace.Column] {
	return c.columns
}

func (c *NetworkController) LoggedIn() *stream.Stream[bool] {
	return c.loggedIn
}

// UpdateSubscribers publishes a snapshot of the current workspace, which may
// be newer than the one an in-flight operation is writing to.
func (c *NetworkController) UpdateSubscribers() {
	c.mu.Lock()
	snapshot := c.state.Snapshot()
	c.mu.Unlock()
	c.columns.Publish(snapshot)
}

// fetchInto resolves each id/score tuple to a full note body in parallel and
// hands the prepared notes to insert. Fetch failures turn into displayError
// calls; successful notes are inserted exactly once each.
func (c *NetworkController) fetchInto(
	ctx context.Context,
	ws *workspace.Workspace,
	scores []notesapi.SearchScore,
	insert func(*notes.Note),
	displayError func(error),
) {
	var wg sync.WaitGroup
	for _, ss := range scores {
		wg.Add(1)
		go func(ss notesapi.SearchScore) {
			defer wg.Done()
			rec, err := c.api.GetNote(ctx, ss.ID)
			if err != nil {
				displayError(fmt.Errorf("cannot find id=%s: %w", ss.ID, err))
				return
			}
			rec.Score = ss.Score
			insert(c.prepareNote(ctx, ws, rec))
		}(ss)
	}
	wg.Wait()
}

// prepareNote converts a wire record into a model note, resolving its author
// through the workspace registry and loading missing authors from the
// server. Two goroutines may race to load the same author; the registry is
// last-write-wins, so that is benign.
func (c *NetworkController) prepareNote(ctx context.Context, ws *workspace.Workspace, rec *notesapi.NoteRecord) *notes.Note {
	c.mu.Lock()
	author, ok := ws.GetAuthor(rec.Author)
	c.mu.Unlock()

	if !ok {
		loaded, err := c.loadAuthor(ctx, rec.Author)
		if err != nil {
			c.log.Warn("load author", "id", rec.Author, "error", err)
			loaded = &notes.Author{ID: rec.Author}
		}
		author = loaded
		c.mu.Lock()
		ws.AddAuthor(author)
		c.mu.Unlock()
	}

	n := notes.New(rec.ID, author, rec.Content, rec.Created)
	n.Privacy = notes.Privacy(rec.Privacy)
	score := rec.Score
	n.Score = &score
	return n
}

func (c *NetworkController) loadAuthor(ctx context.Context, id string) (*notes.Author, error) {
	rec, err := c.api.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &notes.Author{ID: rec.ID, Name: rec.Name}, nil
}

func (c *NetworkController) currentState() *workspace.Workspace {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// addNote inserts into the column at spaceIdx of the captured workspace.
func (c *NetworkController) addNote(ws *workspace.Workspace, spaceIdx int, n *notes.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := ws.AddNote(n, spaceIdx); err != nil {
		c.log.Error("add note", "error", err)
	}
}

// addNoteByTitle inserts into the first column with the given title,
// creating it at the front when absent.
func (c *NetworkController) addNoteByTitle(ws *workspace.Workspace, title string, n *notes.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := ws.SpaceIndexByTitle(title)
	if idx < 0 {
		ws.AddSpace(title)
		idx = 0
	}
	if _, err := ws.AddNote(n, idx); err != nil {
		c.log.Error("add note", "title", title, "error", err)
	}
}
