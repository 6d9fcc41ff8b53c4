// Package admintest provides an in-memory admin API for tests.
package admintest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.flipt.io/flagseed/pkg/model"
)

type Step string

const (
	StepCreateFeature     Step = "create feature"
	StepCreateStrategy    Step = "create strategy"
	StepEnableEnvironment Step = "enable environment"
)

// Request is a single call received by a Server.
type Request struct {
	Step        Step
	Project     string
	Feature     string
	Environment string
	Strategy    *model.Strategy
}

// Server records every admin API call it receives.
type Server struct {
	*httptest.Server

	// Token is the expected Authorization header.
	Token string
	// Status, when set, decides the response status of each request.
	// Returning 0 falls back to the default success status.
	Status func(Request) int

	mu       sync.Mutex
	requests []Request
	features map[string]model.Feature
}

// NewServer starts a Server expecting token on every request.
func NewServer(token string) *Server {
	s := &Server{Token: token, features: map[string]model.Feature{}}

	r := chi.NewRouter()
	r.Use(s.authorize)
	r.Route("/api/admin/projects/{project}/features", func(r chi.Router) {
		r.Post("/", s.createFeature)
		r.Post("/{feature}/environments/{environment}/strategies", s.createStrategy)
		r.Post("/{feature}/environments/{environment}/on", s.enableEnvironment)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Requests returns the calls received so far in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// Feature returns a feature created on the server.
func (s *Server) Feature(name string) (model.Feature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.features[name]
	return f, ok
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != s.Token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) createFeature(w http.ResponseWriter, r *http.Request) {
	var feature model.Feature
	if err := json.NewDecoder(r.Body).Decode(&feature); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := Request{
		Step:    StepCreateFeature,
		Project: chi.URLParam(r, "project"),
		Feature: feature.Name,
	}

	s.respond(w, req, http.StatusCreated, func() bool {
		if _, ok := s.features[feature.Name]; ok {
			return false
		}

		s.features[feature.Name] = feature
		return true
	})
}

func (s *Server) createStrategy(w http.ResponseWriter, r *http.Request) {
	var strategy model.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strategy); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := Request{
		Step:        StepCreateStrategy,
		Project:     chi.URLParam(r, "project"),
		Feature:     chi.URLParam(r, "feature"),
		Environment: chi.URLParam(r, "environment"),
		Strategy:    &strategy,
	}

	s.respond(w, req, http.StatusOK, func() bool {
		_, ok := s.features[req.Feature]
		return ok
	})
}

func (s *Server) enableEnvironment(w http.ResponseWriter, r *http.Request) {
	req := Request{
		Step:        StepEnableEnvironment,
		Project:     chi.URLParam(r, "project"),
		Feature:     chi.URLParam(r, "feature"),
		Environment: chi.URLParam(r, "environment"),
	}

	s.respond(w, req, http.StatusOK, func() bool {
		_, ok := s.features[req.Feature]
		return ok
	})
}

// respond records req and writes status unless Status overrides it or
// apply reports a conflict with existing state.
func (s *Server) respond(w http.ResponseWriter, req Request, status int, apply func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)

	if s.Status != nil {
		if code := s.Status(req); code != 0 {
			w.WriteHeader(code)
			return
		}
	}

	if !apply() {
		w.WriteHeader(http.StatusConflict)
		return
	}

	w.WriteHeader(status)
}
