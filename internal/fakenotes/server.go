// Package fakenotes provides an in-process fake notes server for testing the
// HTTP client and the network controller. It speaks the remote contract over
// plain HTTP and supports per-operation failure injection via forced status
// codes.
package fakenotes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
)

// Operation names accepted by ForceStatus.
const (
	OpRecent  = "recent"
	OpGet     = "get"
	OpSearch  = "search"
	OpPrivacy = "privacy"
	OpCreate  = "create"
	OpUser    = "user"
)

// Note is a stored note stub, serialized in the shape of GET /note/get/{id}.
type Note struct {
	Author  string `json:"Author"`
	Content string `json:"Content"`
	Created int64  `json:"Created"`
	Privacy int    `json:"Privacy"`
}

// Score is one search result tuple.
type Score struct {
	ID    string  `json:"Id"`
	Score float64 `json:"Score"`
}

// PrivacyCall records one privacy update the server received.
type PrivacyCall struct {
	NoteID string
	Level  int
}

// Server is a configurable fake notes service backed by httptest.
type Server struct {
	srv *httptest.Server

	// Credentials accepted by POST /login and the token it issues.
	LoginUser string
	LoginPass string
	Token     string
	UserID    int64

	mu           sync.Mutex
	users        map[string]string
	notes        map[string]Note
	recent       []string
	searches     map[string][]Score
	forced       map[string]int
	privacyCalls []PrivacyCall
	created      []string
	nextID       int
}

// NewServer starts the fake service on a loopback listener with default
// credentials root/root.
func NewServer() *Server {
	s := &Server{
		LoginUser: "root",
		LoginPass: "root",
		Token:     "fake-token",
		UserID:    1,
		users:     make(map[string]string),
		notes:     make(map[string]Note),
		searches:  make(map[string][]Score),
		forced:    make(map[string]int),
		nextID:    1,
	}

	r := mux.NewRouter()
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/note/recent/{count}", s.authed(OpRecent, s.handleRecent)).Methods(http.MethodGet)
	r.HandleFunc("/note/get/{id}", s.authed(OpGet, s.handleGet)).Methods(http.MethodGet)
	r.HandleFunc("/note/search/{term}", s.authed(OpSearch, s.handleSearch)).Methods(http.MethodGet)
	r.HandleFunc("/note/privacy/{id}/{level}", s.authed(OpPrivacy, s.handlePrivacy)).Methods(http.MethodGet)
	r.HandleFunc("/note/create", s.authed(OpCreate, s.handleCreate)).Methods(http.MethodPost)
	r.HandleFunc("/user/get/{id}", s.authed(OpUser, s.handleUser)).Methods(http.MethodGet)

	s.srv = httptest.NewServer(r)
	return s
}

// URL returns the base URL of the running server.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// AddUser registers a user record served by /user/get/{id}.
func (s *Server) AddUser(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = name
}

// AddNote registers a note served by /note/get/{id}.
func (s *Server) AddNote(id string, n Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[id] = n
}

// SetRecent sets the ids returned by /note/recent.
func (s *Server) SetRecent(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = ids
}

// SetSearchResults sets the tuples returned for the given term.
func (s *Server) SetSearchResults(term string, scores []Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches[term] = scores
}

// ForceStatus makes every request for the operation fail with the status
// until cleared with status 0.
func (s *Server) ForceStatus(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.forced, op)
		return
	}
	s.forced[op] = status
}

// PrivacyCalls returns the privacy updates received so far.
func (s *Server) PrivacyCalls() []PrivacyCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([]PrivacyCall, len(s.privacyCalls))
	copy(calls, s.privacyCalls)
	return calls
}

// CreatedNotes returns the ids issued by /note/create so far.
func (s *Server) CreatedNotes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.created))
	copy(ids, s.created)
	return ids
}

func (s *Server) authed(op string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		forced, hasForced := s.forced[op]
		token := s.Token
		s.mu.Unlock()

		if hasForced {
			http.Error(w, "injected failure", forced)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if r.PostFormValue("user") != s.LoginUser || r.PostFormValue("pass") != s.LoginPass {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]any{"token": s.Token, "id": s.UserID})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(mux.Vars(r)["count"])
	if err != nil || count < 0 {
		http.Error(w, "bad count", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	ids := s.recent
	if len(ids) > count {
		ids = ids[:count]
	}
	out := make([]string, len(ids))
	copy(out, ids)
	s.mu.Unlock()
	writeJSON(w, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n, ok := s.notes[mux.Vars(r)["id"]]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no such note", http.StatusNotFound)
		return
	}
	writeJSON(w, n)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	scores := s.searches[mux.Vars(r)["term"]]
	s.mu.Unlock()
	if scores == nil {
		scores = []Score{}
	}
	writeJSON(w, scores)
}

func (s *Server) handlePrivacy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	level, err := strconv.Atoi(vars["level"])
	if err != nil {
		http.Error(w, "bad level", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.privacyCalls = append(s.privacyCalls, PrivacyCall{NoteID: vars["id"], Level: level})
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if r.PostFormValue("content") == "" {
		http.Error(w, "empty content", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	id := fmt.Sprintf("srv-%d", s.nextID)
	s.nextID++
	s.created = append(s.created, id)
	s.mu.Unlock()
	fmt.Fprint(w, id)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	name, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no such user", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"Id": id, "Name": name})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
