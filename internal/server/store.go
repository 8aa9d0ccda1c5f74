package server

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalgraph/mediq/internal/model"
)

var (
	errMissingProvider = errors.New("provider must not be empty")
	errMissingAPIKey   = errors.New("该提供商需要提供 API Key")
)

// SubmitFeedback records user feedback on an answer.
func (s *Server) SubmitFeedback(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.feedback.Record(c.Request.Context(), req)
	if err != nil {
		s.log.Error("failed to record feedback", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.log.Info("received feedback", "feedback_id", resp.FeedbackID, "query_id", req.QueryID)
	c.JSON(http.StatusOK, resp)
}

// FeedbackStats summarizes stored feedback.
func (s *Server) FeedbackStats(c *gin.Context) {
	stats, err := s.feedback.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type saveSessionRequest struct {
	UserID  string        `json:"user_id"`
	Session model.Session `json:"session"`
}

// SaveSession upserts a session for a user.
func (s *Server) SaveSession(c *gin.Context) {
	var req saveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.UserID == "" || req.Session.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id or session"})
		return
	}

	if err := s.sessions.Save(c.Request.Context(), req.UserID, req.Session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "session_id": req.Session.SessionID})
}

// ListSessions returns a user's sessions without content.
func (s *Server) ListSessions(c *gin.Context) {
	sessions, err := s.sessions.List(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		s.log.Error("failed to list sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSession returns one session with its content.
func (s *Server) GetSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("user_id"), c.Param("session_id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// DeleteSession removes one session.
func (s *Server) DeleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Request.Context(), c.Param("user_id"), c.Param("session_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
