package model

import (
	"fmt"
	"time"
)

// FeedbackType enumerates the kinds of answer feedback users can submit.
type FeedbackType string

const (
	FeedbackHelpful     FeedbackType = "helpful"
	FeedbackNotHelpful  FeedbackType = "not_helpful"
	FeedbackIncorrect   FeedbackType = "incorrect"
	FeedbackMissingInfo FeedbackType = "missing_info"
	FeedbackOther       FeedbackType = "other"
)

// FeedbackRequest annotates a previously returned answer.
type FeedbackRequest struct {
	QueryID         string       `json:"query_id"`
	FeedbackType    FeedbackType `json:"feedback_type"`
	Rating          int          `json:"rating,omitempty"`
	Comment         string       `json:"comment,omitempty"`
	UserID          string       `json:"user_id,omitempty"`
	SuggestedAnswer string       `json:"suggested_answer,omitempty"`
}

func (r *FeedbackRequest) Validate() error {
	if r.QueryID == "" {
		return fmt.Errorf("query_id must not be empty")
	}
	switch r.FeedbackType {
	case FeedbackHelpful, FeedbackNotHelpful, FeedbackIncorrect, FeedbackMissingInfo, FeedbackOther:
	default:
		return fmt.Errorf("unknown feedback_type: %s", r.FeedbackType)
	}
	if r.Rating < 0 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if len(r.Comment) > 1000 {
		return fmt.Errorf("comment exceeds 1000 characters")
	}
	return nil
}

// FeedbackResponse acknowledges a stored feedback record.
type FeedbackResponse struct {
	FeedbackID string    `json:"feedback_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session is an opaque conversation blob persisted per user for
// cross-device synchronization.
type Session struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
	UpdatedAt int64  `json:"updated_at"`
}
