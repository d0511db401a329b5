package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/conorfennell/knoldeck/internal/review"
)

var errNoSession = errors.New("no such session")

// sessionView is the JSON shape of a session. The answer is only included
// once it has been revealed.
type sessionView struct {
	ID      string    `json:"id"`
	TopicID int64     `json:"topic_id"`
	State   string    `json:"state"`
	Card    *cardView `json:"card,omitempty"`
}

type cardView struct {
	ID       int64   `json:"id"`
	Question string  `json:"question"`
	Answer   string  `json:"answer,omitempty"`
	Weight   float64 `json:"weight"`
}

func viewOf(id string, rs *review.Session) sessionView {
	v := sessionView{ID: id, TopicID: rs.TopicID(), State: rs.State().String()}
	if card, ok := rs.Current(); ok {
		v.Card = &cardView{ID: card.ID, Question: card.Question, Weight: card.Weight}
		if rs.Revealed() {
			v.Card.Answer = card.Answer
		}
	}
	return v
}

func (s *Server) lookup(r *http.Request) (string, *liveSession, error) {
	id := r.PathValue("sessionID")
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.sessions[id]
	if !ok {
		return id, nil, errNoSession
	}
	ls.lastUsed = s.opts.Clock()
	return id, ls, nil
}

// sweepSessions drops sessions idle for longer than the TTL. The caller
// must hold s.mu.
func (s *Server) sweepSessions(now time.Time) {
	for id, ls := range s.sessions {
		if now.Sub(ls.lastUsed) > s.opts.SessionTTL {
			delete(s.sessions, id)
			slog.Debug("Review session expired", "session_id", id)
		}
	}
}

// withSession runs fn while holding the session's lock and replies with
// the session's resulting view.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*review.Session) error) {
	id, ls, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if fn != nil {
		if err := fn(ls.session); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, viewOf(id, ls.session))
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID int64 `json:"topic_id" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.db.GetTopic(req.TopicID); err != nil {
		writeError(w, err)
		return
	}

	id, err := gonanoid.New()
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	smp := s.newSampler()
	s.mu.Unlock()

	rs := review.New(s.db, s.stats, smp,
		review.WithParams(s.opts.Params),
		review.WithClock(s.opts.Clock),
	)
	if err := rs.Start(req.TopicID); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	now := s.opts.Clock()
	s.sweepSessions(now)
	s.sessions[id] = &liveSession{session: rs, lastUsed: now}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, viewOf(id, rs))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, nil)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, (*review.Session).RevealAnswer)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, (*review.Session).Next)
}

func (s *Server) handleJudge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Correct *bool `json:"correct" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(rs *review.Session) error {
		return rs.Judge(*req.Correct)
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("sessionID")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, errNoSession)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
