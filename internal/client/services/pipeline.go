package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
	"github.com/dmitrijs2005/erpdesk/internal/client/repositories/candidates"
	"github.com/dmitrijs2005/erpdesk/internal/common"
	"github.com/dmitrijs2005/erpdesk/internal/logging"
)

// PipelineService moves candidates through the recruitment stages.
//
// Every stage or status change appends exactly one history entry, even when
// the value does not change, and the full list is mirrored to the session
// store after each mutation. Stages may move backward or skip ahead;
// MoveToNextStage from the end of the forward path (or from Rejected) leaves
// the candidate unchanged.
//
// Returned candidates are copies; mutating them has no effect on the service.
type PipelineService interface {
	// Load replaces the in-memory list with the one in the session store. A
	// stored record with an invalid stage or a history out of sync with it
	// fails the whole load.
	Load(ctx context.Context) error
	Add(ctx context.Context, c models.Candidate) (models.Candidate, error)
	List(ctx context.Context) []models.Candidate
	Get(ctx context.Context, id string) (models.Candidate, error)

	ChangeStage(ctx context.Context, id string, stage models.Stage) (models.Candidate, error)
	ChangeStatus(ctx context.Context, id string, status string) (models.Candidate, error)
	MoveToNextStage(ctx context.Context, id string) (models.Candidate, error)
}

type pipelineService struct {
	mu         sync.Mutex
	candidates []models.Candidate
	repo       candidates.Repository
	now        func() time.Time
	log        logging.Logger
}

type PipelineOption func(*pipelineService)

func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(s *pipelineService) { s.now = now }
}

func WithPipelineLogger(l logging.Logger) PipelineOption {
	return func(s *pipelineService) { s.log = l }
}

func NewPipelineService(repo candidates.Repository, opts ...PipelineOption) PipelineService {
	s := &pipelineService{
		repo: repo,
		now:  time.Now,
		log:  logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *pipelineService) Load(ctx context.Context) error {
	list, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	for _, c := range list {
		if err := checkStored(c); err != nil {
			return fmt.Errorf("load candidates: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = list
	return nil
}

// Add registers a new applicant. Missing fields get defaults: a fresh id,
// the Application stage, the New status, today's date and an opening
// history entry.
func (s *pipelineService) Add(ctx context.Context, c models.Candidate) (models.Candidate, error) {
	c = c.Clone()
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return models.Candidate{}, fmt.Errorf("%w: name is required", ErrInvalidCandidate)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Stage == "" {
		c.Stage = models.StageApplication
	}
	if !c.Stage.Valid() {
		return models.Candidate{}, fmt.Errorf("%w: %q", models.ErrInvalidStage, c.Stage)
	}
	if strings.TrimSpace(c.Status) == "" {
		c.Status = models.StatusNew
	}
	today := s.today()
	if c.AppliedDate == "" {
		c.AppliedDate = today
	}
	if len(c.History) == 0 {
		c.History = []models.HistoryEntry{{Date: today, Stage: c.Stage, Status: c.Status, Note: "Application received"}}
	}
	if !c.InSync() {
		return models.Candidate{}, fmt.Errorf("%w: history does not end at %s/%s", ErrInvalidCandidate, c.Stage, c.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(c.ID) >= 0 {
		return models.Candidate{}, fmt.Errorf("%w: %s", ErrDuplicateCandidate, c.ID)
	}

	next := append(cloneAll(s.candidates), c)
	if err := s.commit(ctx, next); err != nil {
		return models.Candidate{}, err
	}
	s.log.Info(ctx, "candidate added", "id", c.ID, "name", c.Name)
	return c.Clone(), nil
}

func (s *pipelineService) List(ctx context.Context) []models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.candidates)
}

func (s *pipelineService) Get(ctx context.Context, id string) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Candidate{}, fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
	}
	return s.candidates[i].Clone(), nil
}

func (s *pipelineService) ChangeStage(ctx context.Context, id string, stage models.Stage) (models.Candidate, error) {
	if !stage.Valid() {
		return models.Candidate{}, fmt.Errorf("%w: %q", models.ErrInvalidStage, stage)
	}
	return s.mutate(ctx, id, func(c *models.Candidate) bool {
		c.Stage = stage
		c.History = append(c.History, s.entry(c, "Stage changed to "+string(stage)))
		return true
	})
}

func (s *pipelineService) ChangeStatus(ctx context.Context, id string, status string) (models.Candidate, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return models.Candidate{}, fmt.Errorf("%w: empty", ErrInvalidStatus)
	}
	return s.mutate(ctx, id, func(c *models.Candidate) bool {
		c.Status = status
		c.History = append(c.History, s.entry(c, "Status changed to "+status))
		return true
	})
}

func (s *pipelineService) MoveToNextStage(ctx context.Context, id string) (models.Candidate, error) {
	return s.mutate(ctx, id, func(c *models.Candidate) bool {
		next, ok := c.Stage.Next()
		if !ok {
			s.log.Debug(ctx, "no next stage", "id", c.ID, "stage", c.Stage)
			return false
		}
		c.Stage = next
		c.History = append(c.History, s.entry(c, "Stage changed to "+string(next)))
		return true
	})
}

// mutate applies fn to a copy of the candidate and, when fn reports a
// change, persists the new list before making it visible.
func (s *pipelineService) mutate(ctx context.Context, id string, fn func(c *models.Candidate) bool) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Candidate{}, fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
	}

	updated := s.candidates[i].Clone()
	if !fn(&updated) {
		return updated, nil
	}

	next := cloneAll(s.candidates)
	next[i] = updated
	if err := s.commit(ctx, next); err != nil {
		return models.Candidate{}, err
	}

	s.log.Debug(ctx, "candidate updated", "id", id, "stage", updated.Stage, "status", updated.Status)
	return updated.Clone(), nil
}

// commit must be called with mu held.
func (s *pipelineService) commit(ctx context.Context, next []models.Candidate) error {
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("save candidates: %w", err)
	}
	s.candidates = next
	return nil
}

func (s *pipelineService) entry(c *models.Candidate, note string) models.HistoryEntry {
	return models.HistoryEntry{Date: s.today(), Stage: c.Stage, Status: c.Status, Note: note}
}

func (s *pipelineService) today() string {
	return s.now().Format(common.DateLayout)
}

func (s *pipelineService) indexOf(id string) int {
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			return i
		}
	}
	return -1
}

func checkStored(c models.Candidate) error {
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: record without id", ErrInvalidCandidate)
	case !c.Stage.Valid():
		return fmt.Errorf("%w: %s: %w", ErrInvalidCandidate, c.ID, models.ErrInvalidStage)
	case !c.InSync():
		return fmt.Errorf("%w: %s: history does not end at %s/%s", ErrInvalidCandidate, c.ID, c.Stage, c.Status)
	}
	return nil
}

func cloneAll(list []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}
