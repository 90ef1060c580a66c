package models

import (
	"time"
)

// SubmissionStatus reflects the outcome of the network attempt for a submission
type SubmissionStatus string

const (
	StatusPending SubmissionStatus = "pending"
	StatusSuccess SubmissionStatus = "success"
	StatusError   SubmissionStatus = "error"
)

// ValidStatuses defines statuses accepted when reading stored history
var ValidStatuses = map[SubmissionStatus]bool{
	StatusPending: true,
	StatusSuccess: true,
	StatusError:   true,
}

// FailedStep names the outbound call that failed
type FailedStep string

const (
	StepDistribute FailedStep = "distribute"
	StepSummarize  FailedStep = "summarize"
)

// Submission sources
const (
	SourceWebApp = "web_app"
	SourceCLI    = "cli"
)

// DefaultHistoryLimit is the number of submissions kept in history
const DefaultHistoryLimit = 10

// Submission is one recorded outcome of a submit attempt.
// Records are never updated after they are written.
type Submission struct {
	ID         string           `json:"id" db:"id"`
	ArticleURL string           `json:"articleUrl" db:"article_url"`
	Timestamp  time.Time        `json:"timestamp" db:"created_at"`
	Status     SubmissionStatus `json:"status" db:"status"`
	FailedStep FailedStep       `json:"failedStep,omitempty" db:"failed_step"`
	Source     string           `json:"source,omitempty" db:"source"`
}

// IsWellFormed reports whether a stored record has the expected shape
func (s *Submission) IsWellFormed() bool {
	return s.ID != "" && s.ArticleURL != "" && !s.Timestamp.IsZero() && ValidStatuses[s.Status]
}

// SubmitRequest is the input of the submission flow
type SubmitRequest struct {
	ArticleURL string `json:"articleUrl" form:"articleUrl"`
	Source     string `json:"-" form:"-"`
}

// Toast variants
const (
	ToastDefault     = "default"
	ToastDestructive = "destructive"
)

// Toast is the transient notification shown after a submission
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

// SubmitResult is returned for every submission that reached the network
type SubmitResult struct {
	Submission *Submission `json:"submission"`
	Toast      Toast       `json:"toast"`
	ClearInput bool        `json:"clearInput"`
}

// HistoryResponse is the API response for the history view
type HistoryResponse struct {
	Submissions    []Submission `json:"submissions"`
	PollIntervalMs int64        `json:"pollIntervalMs"`
}
