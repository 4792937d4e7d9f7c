// Package notesapi is a thin HTTP client for the remote notes service. Every
// request except login carries the bearer token obtained at login; transport
// failures and non-200 statuses are both normalized to *APIError so callers
// have a single failure shape to convert into visible state.
package notesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 10 * time.Second

// APIError is the single failure shape for remote calls. Status is zero for
// transport failures; Err carries the underlying cause when there is one.
type APIError struct {
	Op     string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status: %d (%s)", e.Op, e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error { return e.Err }

// Credentials is the login response.
type Credentials struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
}

// NoteRecord is the body of GET /note/get/{id}. Author is the author's user
// id; ID and Score are filled in by the caller from the search tuple since
// the server omits them from the body.
type NoteRecord struct {
	Author  string  `json:"Author"`
	Content string  `json:"Content"`
	Created int64   `json:"Created"`
	Privacy int     `json:"Privacy"`
	ID      string  `json:"Id"`
	Score   float64 `json:"Score"`
}

// SearchScore is one element of a search response.
type SearchScore struct {
	ID    string  `json:"Id"`
	Score float64 `json:"Score"`
}

// UserRecord is the body of GET /user/get/{id}.
type UserRecord struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Client calls the remote notes service. It is safe for concurrent use; the
// token may be replaced while requests are in flight.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the service at baseURL. A nil httpClient gets a
// default with a timeout, to avoid hanging requests.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken replaces the bearer token sent on authenticated requests. An
// empty token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login posts the form credentials and returns the issued token and user id.
// No bearer token is sent; there is none yet.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	form := url.Values{}
	form.Set("user", username)
	form.Set("pass", password)

	var creds Credentials
	if err := c.do(ctx, "login", http.MethodPost, "/login", form, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// RecentNotes returns the ids of the count most recent notes.
func (c *Client) RecentNotes(ctx context.Context, count int) ([]string, error) {
	var ids []string
	err := c.do(ctx, "recent notes", http.MethodGet, fmt.Sprintf("/note/recent/%d", count), nil, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetNote retrieves a single note body. The returned record carries the
// requested id, since the server body does not repeat it.
func (c *Client) GetNote(ctx context.Context, id string) (*NoteRecord, error) {
	var rec NoteRecord
	err := c.do(ctx, fmt.Sprintf("get note %s", id), http.MethodGet, "/note/get/"+url.PathEscape(id), nil, &rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	return &rec, nil
}

// Search returns id/score tuples matching the term. Ranking is entirely the
// server's business.
func (c *Client) Search(ctx context.Context, term string) ([]SearchScore, error) {
	var scores []SearchScore
	err := c.do(ctx, "search", http.MethodGet, "/note/search/"+url.PathEscape(term), nil, &scores)
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// SetNotePrivacy updates the privacy level of a note.
func (c *Client) SetNotePrivacy(ctx context.Context, id string, level int) error {
	path := fmt.Sprintf("/note/privacy/%s/%d", url.PathEscape(id), level)
	return c.do(ctx, "set privacy", http.MethodGet, path, nil, nil)
}

// CreateNote posts new note content and returns the server-issued id.
func (c *Client) CreateNote(ctx context.Context, content string) (string, error) {
	form := url.Values{}
	form.Set("content", content)

	body, err := c.raw(ctx, "create note", http.MethodPost, "/note/create", form)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// GetUser retrieves a user record by id.
func (c *Client) GetUser(ctx context.Context, id string) (*UserRecord, error) {
	var rec UserRecord
	err := c.do(ctx, fmt.Sprintf("get user %s", id), http.MethodGet, "/user/get/"+url.PathEscape(id), nil, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// do performs a request and decodes the JSON response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, form url.Values, out any) error {
	body, err := c.raw(ctx, op, method, path, form)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (c *Client) raw(ctx context.Context, op, method, path string, form url.Values) ([]byte, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: op, Status: resp.StatusCode}
	}
	return body, nil
}
