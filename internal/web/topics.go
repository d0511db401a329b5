package web

import (
	"net/http"

	"github.com/conorfennell/knoldeck/internal/domain"
)

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.db.ListTopics()
	if err != nil {
		writeError(w, err)
		return
	}
	if topics == nil {
		topics = []domain.Topic{}
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	topic, err := s.db.CreateTopic(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, topic)
}

// handleDeleteTopic refuses to delete a topic that still owns cards.
func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "topicID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.DeleteTopic(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "topicID")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.db.GetTopic(id); err != nil {
		writeError(w, err)
		return
	}
	cards, err := s.db.ListCards(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topicID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Question string `json:"question" validate:"required"`
		Answer   string `json:"answer" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	card, err := s.db.CreateCard(topicID, req.Question, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "cardID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.DeleteCard(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days, err := s.stats.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if days == nil {
		days = []domain.DailyStat{}
	}
	summary, err := s.stats.Summarize()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":    days,
		"summary": summary,
	})
}

func (s *Server) handleDebugCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.stats.CardsByWeight()
	if err != nil {
		writeError(w, err)
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleResetWeights(w http.ResponseWriter, r *http.Request) {
	if err := s.stats.ResetAllWeights(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSync runs a sync in the foreground so the caller gets the report.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		http.Error(w, "Sync is not configured", http.StatusNotImplemented)
		return
	}
	report, err := s.syncer.RunSync()
	if err != nil {
		writeError(w, err)
		return
	}
	errs := make([]string, 0, len(report.Errors))
	for _, e := range report.Errors {
		errs = append(errs, e.Error())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report": report,
		"errors": errs,
	})
}
