package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidStage = errors.New("invalid stage")

// Stage is a recruitment pipeline stage.
type Stage string

const (
	StageApplication Stage = "Application"
	StageScreening   Stage = "Screening"
	StageInterview   Stage = "Interview"
	StageOffer       Stage = "Offer"
	StageHired       Stage = "Hired"
	StageRejected    Stage = "Rejected"
)

// StageOptions is the forward path walked by "move to next stage". Rejected
// is a valid stage but sits outside this path.
var StageOptions = []Stage{StageApplication, StageScreening, StageInterview, StageOffer, StageHired}

var allStages = []Stage{StageApplication, StageScreening, StageInterview, StageOffer, StageHired, StageRejected}

// Frequently used statuses. Status is free-form; these are not enforced.
const (
	StatusNew         = "New"
	StatusScheduled   = "Scheduled"
	StatusInReview    = "In Review"
	StatusNegotiating = "Negotiating"
	StatusAccepted    = "Accepted"
	StatusDeclined    = "Declined"
)

func ParseStage(s string) (Stage, error) {
	s = strings.TrimSpace(s)
	for _, st := range allStages {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
}

func (s Stage) Valid() bool {
	return slices.Contains(allStages, s)
}

// Terminal reports whether no further transition is expected from s.
func (s Stage) Terminal() bool {
	return s == StageHired || s == StageRejected
}

// Next returns the stage following s in StageOptions. ok is false when s is
// the last option or is not on the forward path at all.
func (s Stage) Next() (next Stage, ok bool) {
	i := slices.Index(StageOptions, s)
	if i < 0 || i+1 >= len(StageOptions) {
		return "", false
	}
	return StageOptions[i+1], true
}

// HistoryEntry records one stage or status change. Entries are append-only.
type HistoryEntry struct {
	Date   string `json:"date"`
	Stage  Stage  `json:"stage"`
	Status string `json:"status"`
	Note   string `json:"note"`
}

// Candidate is an applicant moving through the recruitment pipeline. The
// last History entry always matches (Stage, Status).
type Candidate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Position    string         `json:"position"`
	Department  string         `json:"department"`
	Email       string         `json:"email,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Experience  string         `json:"experience,omitempty"`
	AppliedDate string         `json:"appliedDate,omitempty"`
	Stage       Stage          `json:"stage"`
	Status      string         `json:"status"`
	History     []HistoryEntry `json:"history"`
}

// Clone returns a deep copy, so callers cannot reach the stored history.
func (c Candidate) Clone() Candidate {
	c.History = slices.Clone(c.History)
	return c
}

// InSync reports whether the last history entry records the current stage
// and status.
func (c Candidate) InSync() bool {
	if len(c.History) == 0 {
		return false
	}
	last := c.History[len(c.History)-1]
	return last.Stage == c.Stage && last.Status == c.Status
}
