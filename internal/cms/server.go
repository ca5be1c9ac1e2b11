// Package cms is a small Strapi-compatible content API for local
// development. It serves the collections the blog reads and enforces the
// moderation and anti-spam rules of the comment and like endpoints.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/aniekan-akpan/theblog/internal/strapi"
)

// Server is an http.Handler exposing the content API under /api.
type Server struct {
	store  *Store
	log    *log.Logger
	router *mux.Router

	mu    sync.RWMutex
	token string
}

// NewServer builds the API. Requests bearing token act as an administrator;
// with an empty token administrative actions are refused.
func NewServer(store *Store, token string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{store: store, token: token, log: logger, router: mux.NewRouter()}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/{collection}", s.find).Methods(http.MethodGet)
	api.HandleFunc("/{collection}", s.create).Methods(http.MethodPost)
	api.HandleFunc("/{collection}/{id}", s.findOne).Methods(http.MethodGet)
	api.HandleFunc("/{collection}/{id}", s.update).Methods(http.MethodPut)
	api.HandleFunc("/{collection}/{id}", s.delete).Methods(http.MethodDelete)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	s.router.Use(withRecover(logger), logRequests(logger))
	return s
}

// Store exposes the underlying storage, for moderation tooling and tests.
func (s *Server) Store() *Store {
	return s.store
}

// SetToken replaces the administrator token.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) isAdmin(r *http.Request) bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return false
	}
	auth, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && auth == token
}

// collectionFor resolves the collection and checks the caller may perform
// action on it. Reads are always public.
func (s *Server) collectionFor(w http.ResponseWriter, r *http.Request, action string) (*collection, bool) {
	c, ok := collections[mux.Vars(r)["collection"]]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return nil, false
	}
	if action != "" && !c.public[action] && !s.isAdmin(r) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return c, true
}

func (s *Server) find(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collectionFor(w, r, "")
	if !ok {
		return
	}
	params, err := parseFind(c, r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Unmoderated comments stay invisible to the public whatever the query
	// asked for.
	if c.name == "comments" && !s.isAdmin(r) {
		params.conditions = append(params.conditions, condition{path: []string{"approved"}, op: "$eq", value: "true"})
	}

	entries, err := s.store.List(r.Context(), c.name)
	if err != nil {
		s.serverError(w, err)
		return
	}
	docs := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e.Doc())
	}
	page, pg := params.apply(c, docs)

	out, err := s.renderAll(r.Context(), c, page, params.populate, s.isAdmin(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": out,
		"meta": map[string]any{"pagination": pg},
	})
}

func (s *Server) findOne(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collectionFor(w, r, "")
	if !ok {
		return
	}
	params, err := parseFind(c, r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := s.store.Get(r.Context(), c.name, mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) || (err == nil && c.name == "comments" && !s.isAdmin(r) && e.Fields["approved"] != true) {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeEntry(w, r, c, e, params.populate)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collectionFor(w, r, actionCreate)
	if !ok {
		return
	}
	data, ok := readData(w, r)
	if !ok {
		return
	}
	for k, v := range c.defaults {
		if _, set := data[k]; !set {
			data[k] = v
		}
	}

	switch c.name {
	case "comments":
		// Whatever the client sent, comments start unapproved and carry the
		// submitter's address.
		data["approved"] = false
		data["ipAddress"] = clientIP(r)
	case "likes":
		data["ipAddress"] = clientIP(r)
	}

	if !s.validate(w, r, c, data, "") {
		return
	}

	if c.name == "likes" {
		dup, err := s.existingLike(r.Context(), data["sessionId"], data["blog_post"])
		if err != nil {
			s.serverError(w, err)
			return
		}
		if dup {
			writeError(w, http.StatusBadRequest, "You have already liked this post")
			return
		}
	}

	e, err := s.store.Create(r.Context(), c.name, data)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeEntry(w, r, c, e, nil)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collectionFor(w, r, actionUpdate)
	if !ok {
		return
	}
	data, ok := readData(w, r)
	if !ok {
		return
	}
	ref := mux.Vars(r)["id"]
	current, err := s.store.Get(r.Context(), c.name, ref)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	merged := current.Doc()
	for k, v := range data {
		merged[k] = v
	}
	if !s.validate(w, r, c, merged, current.DocumentID) {
		return
	}
	for name := range c.relations {
		if _, ok := data[name]; ok {
			data[name] = merged[name]
		}
	}
	e, err := s.store.Update(r.Context(), c.name, ref, data)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeEntry(w, r, c, e, nil)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collectionFor(w, r, actionDelete)
	if !ok {
		return
	}
	ref := mux.Vars(r)["id"]

	if c.name == "likes" {
		// The session id is the only ownership proof an anonymous liker has.
		e, err := s.store.Get(r.Context(), c.name, ref)
		if err != nil && !errors.Is(err, ErrNotFound) {
			s.serverError(w, err)
			return
		}
		sessionID := r.URL.Query().Get("sessionId")
		if e == nil || sessionID == "" || e.Fields["sessionId"] != sessionID {
			writeError(w, http.StatusNotFound, "Like not found or you do not have permission to delete it")
			return
		}
	}

	e, err := s.store.Delete(r.Context(), c.name, ref)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeEntry(w, r, c, e, nil)
}

func (s *Server) existingLike(ctx context.Context, sessionID, postID any) (bool, error) {
	likes, err := s.store.List(ctx, "likes")
	if err != nil {
		return false, err
	}
	for _, l := range likes {
		if l.Fields["sessionId"] == sessionID && l.Fields["blog_post"] == postID {
			return true, nil
		}
	}
	return false, nil
}

// validate checks required fields, unique fields and forward relations.
// self is the documentId of the entry being updated, if any.
func (s *Server) validate(w http.ResponseWriter, r *http.Request, c *collection, data map[string]any, self string) bool {
	for _, field := range c.required {
		if v, ok := data[field]; !ok || v == nil || v == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s is a required field", field))
			return false
		}
	}

	for name, rel := range c.relations {
		if rel.reverse {
			continue
		}
		v, ok := data[name]
		if !ok || v == nil || v == "" {
			continue
		}
		ref, isString := v.(string)
		if !isString {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid relation %s", name))
			return false
		}
		target, err := s.store.Get(r.Context(), rel.target, ref)
		if err == nil && unmoderated(rel.target, target.Fields, s.isAdmin(r)) {
			err = ErrNotFound
		}
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid relation %s: %s not found", name, ref))
			return false
		}
		if err != nil {
			s.serverError(w, err)
			return false
		}
		// Relations are always stored by documentId.
		data[name] = target.DocumentID
	}

	if len(c.unique) == 0 {
		return true
	}
	entries, err := s.store.List(r.Context(), c.name)
	if err != nil {
		s.serverError(w, err)
		return false
	}
	for _, field := range c.unique {
		for _, e := range entries {
			if e.DocumentID != self && e.Fields[field] == data[field] {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be unique", field))
				return false
			}
		}
	}
	return true
}

func (s *Server) writeEntry(w http.ResponseWriter, r *http.Request, c *collection, e *Entry, populate map[string]bool) {
	out, err := s.renderAll(r.Context(), c, []map[string]any{e.Doc()}, populate, s.isAdmin(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out[0], "meta": map[string]any{}})
}

// renderAll shapes documents for output: private fields are dropped and
// relations or media are present only when populated, one level deep.
// Unless admin is set, an unapproved comment reached through a relation is
// reduced to its approval flag in lists and to nil as a single target.
func (s *Server) renderAll(ctx context.Context, c *collection, docs []map[string]any, populate map[string]bool, admin bool) ([]map[string]any, error) {
	related := map[string][]*Entry{}
	load := func(name string) ([]*Entry, error) {
		if entries, ok := related[name]; ok {
			return entries, nil
		}
		entries, err := s.store.List(ctx, name)
		if err != nil {
			return nil, err
		}
		related[name] = entries
		return entries, nil
	}

	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		rendered := strip(c, doc)
		for field := range populate {
			if c.isMedia(field) {
				if v, ok := doc[field]; ok {
					rendered[field] = v
				}
				continue
			}
			rel := c.relations[field]
			targetColl := collections[rel.target]
			entries, err := load(rel.target)
			if err != nil {
				return nil, err
			}
			if rel.reverse {
				list := []map[string]any{}
				for _, e := range entries {
					if e.Fields[rel.foreignKey] != doc["documentId"] {
						continue
					}
					if unmoderated(rel.target, e.Fields, admin) {
						list = append(list, map[string]any{"approved": false})
						continue
					}
					list = append(list, strip(targetColl, e.Doc()))
				}
				rendered[field] = list
				continue
			}
			rendered[field] = nil
			for _, e := range entries {
				if e.DocumentID == doc[field] {
					if !unmoderated(rel.target, e.Fields, admin) {
						rendered[field] = strip(targetColl, e.Doc())
					}
					break
				}
			}
		}
		out = append(out, rendered)
	}
	return out, nil
}

// unmoderated reports whether a non-admin caller must not see the entry.
func unmoderated(collection string, fields map[string]any, admin bool) bool {
	return collection == "comments" && !admin && fields["approved"] != true
}

func strip(c *collection, doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if c.isPrivate(k) || c.isMedia(k) {
			continue
		}
		if _, isRel := c.relations[k]; isRel {
			continue
		}
		out[k] = v
	}
	return out
}

func readData(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	if body.Data == nil {
		writeError(w, http.StatusBadRequest, "Missing \"data\" payload in the request body")
		return nil, false
	}
	return body.Data, true
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Printf("Internal error: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

var errorNames = map[int]string{
	http.StatusBadRequest:          "ValidationError",
	http.StatusUnauthorized:        "UnauthorizedError",
	http.StatusForbidden:           "ForbiddenError",
	http.StatusNotFound:            "NotFoundError",
	http.StatusMethodNotAllowed:    "MethodNotAllowedError",
	http.StatusInternalServerError: "ApplicationError",
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, strapi.ErrorEnvelope{
		Error: &strapi.ErrorBody{Status: status, Name: errorNames[status], Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
