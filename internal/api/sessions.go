package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/abhisek/recall/internal/session"
)

var errSessionNotFound = errors.New("session not found")

// liveSession guards one runner. Runners are not safe for concurrent use.
type liveSession struct {
	mu     sync.Mutex
	runner *session.Runner
}

// registry tracks live sessions by id. Each session owns its own composer,
// so correctness history is never shared between sessions.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*liveSession)}
}

func (r *registry) add(run *session.Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[run.ID] = &liveSession{runner: run}
}

func (r *registry) get(id string) (*liveSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ls, ok := r.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	return ls, nil
}

func (r *registry) remove(id string) (*liveSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	delete(r.sessions, id)
	return ls, nil
}

func (r *registry) drain() []*liveSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*liveSession, 0, len(r.sessions))
	for id, ls := range r.sessions {
		out = append(out, ls)
		delete(r.sessions, id)
	}
	return out
}

// sessionView is the client-facing state of a session.
type sessionView struct {
	ID        string           `json:"id"`
	Phase     string           `json:"phase"`
	Remaining int              `json:"remaining"`
	Current   *itemView        `json:"current,omitempty"`
	Results   session.Results  `json:"results"`
	Summary   *session.Summary `json:"summary,omitempty"`
}

func (s *Server) sessionView(run *session.Runner) sessionView {
	v := sessionView{
		ID:        run.ID,
		Phase:     run.Phase().String(),
		Remaining: run.Remaining(),
		Results:   run.Results(),
	}
	if it, ok := run.Current(); ok {
		iv := s.view(it)
		v.Current = &iv
	}
	return v
}

type startSessionRequest struct {
	Target int `json:"target"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	if _, err := s.collections.Get(ctx, id); err != nil {
		s.writeError(w, err)
		return
	}

	req := startSessionRequest{Target: s.defaultTarget}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Target < 0 {
		s.writeError(w, badRequest("target must be >= 0"))
		return
	}

	run, err := session.NewRunner(ctx, s.items, s.events, id, session.RunnerOptions{
		Target:   req.Target,
		Seed:     s.seed,
		Clock:    s.clock,
		Recorder: s.stats,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.sessions.add(run)
	writeJSON(w, http.StatusCreated, s.sessionView(run))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ls, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sessionView(ls.runner))
}

type answerRequest struct {
	Correct *bool `json:"correct"`
	Quality *int  `json:"quality"`
}

// handleAnswer submits an answer for the current item. The session end is
// recorded as soon as the run completes; the session stays readable until
// it is deleted.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ls, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Correct == nil {
		s.writeError(w, badRequest("correct is required"))
		return
	}
	quality := session.QualityUnset
	if req.Quality != nil {
		quality = *req.Quality
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if _, err := ls.runner.Answer(ctx, *req.Correct, quality, 0); err != nil {
		s.writeError(w, err)
		return
	}

	v := s.sessionView(ls.runner)
	if ls.runner.IsComplete() {
		summary, err := ls.runner.Finish(ctx)
		if err != nil {
			s.writeError(w, err)
			return
		}
		v.Summary = summary
	}
	writeJSON(w, http.StatusOK, v)
}

// handleEndSession removes a session, recording it as ended if it was
// abandoned before completion.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	ls, err := s.sessions.remove(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	summary, err := ls.runner.Finish(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// finishAll records every live session as ended. Used on shutdown.
func (s *Server) finishAll(ctx context.Context) {
	for _, ls := range s.sessions.drain() {
		ls.mu.Lock()
		if _, err := ls.runner.Finish(ctx); err != nil {
			s.logger.Printf("finish session %s: %v", ls.runner.ID, err)
		}
		ls.mu.Unlock()
	}
}
