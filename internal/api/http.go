package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/heysubinoy/pyazdict/internal/session"
	"github.com/heysubinoy/pyazdict/internal/store"
	"github.com/heysubinoy/pyazdict/pkg/kv"
)

const defaultPageSize = 5

// Server wraps a session and exposes HTTP endpoints for dictionary operations.
type Server struct {
	Session *session.Session
}

// NewServer creates a new HTTP server with the given session.
func NewServer(sess *session.Session) *Server {
	return &Server{
		Session: sess,
	}
}

// RegisterRoutes registers all HTTP handlers on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/get", s.handleGet)
	mux.HandleFunc("/set", s.handleSet)
	mux.HandleFunc("/delete", s.handleDelete)
	mux.HandleFunc("/page", s.handlePage)
	mux.HandleFunc("/export", s.handleExport)
}

// writeError maps dictionary error kinds to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, kv.ErrInvalidArgument):
		http.Error(w, kv.Message(err), http.StatusBadRequest)
	case errors.Is(err, kv.ErrNotFound):
		http.Error(w, kv.Message(err), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) dictionary(w http.ResponseWriter, name string) (kv.Dictionary, bool) {
	d, err := s.Session.Dictionary(name)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return d, true
}

// handleGet handles GET /get?dict=first&key=abcd requests.
// Returns the value as plain text or appropriate error codes.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	d, ok := s.dictionary(w, q.Get("dict"))
	if !ok {
		return
	}

	if !q.Has("key") {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	value, ok := d.Search(q.Get("key"))
	if !ok {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(value))
}

type entryRequest struct {
	Dict  string `json:"dict"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// handleSet handles POST /set requests with JSON body.
// Expects: {"dict": "first", "key": "abcd", "value": "bar"}
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	d, ok := s.dictionary(w, req.Dict)
	if !ok {
		return
	}

	if err := d.Add(req.Key, req.Value); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDelete handles POST /delete requests with JSON body.
// Expects: {"dict": "first", "key": "abcd"}. Removing an absent key,
// including the empty key, succeeds.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	d, ok := s.dictionary(w, req.Dict)
	if !ok {
		return
	}

	if err := d.Remove(req.Key); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handlePage handles GET /page?dict=first&page=1&size=5 requests.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	d, ok := s.dictionary(w, q.Get("dict"))
	if !ok {
		return
	}

	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		http.Error(w, "Invalid page parameter", http.StatusBadRequest)
		return
	}
	size, err := intParam(q.Get("size"), defaultPageSize)
	if err != nil {
		http.Error(w, "Invalid size parameter", http.StatusBadRequest)
		return
	}

	p, err := d.Page(page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// handleExport handles GET /export?dict=first and returns the dictionary as XML.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	d, ok := s.dictionary(w, r.URL.Query().Get("dict"))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := store.ExportXML(w, d.Entries()); err != nil {
		log.Printf("Failed to export dictionary %s as XML: %v", r.URL.Query().Get("dict"), err)
	}
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
