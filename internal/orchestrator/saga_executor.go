package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// SagaStep represents a single step in the saga workflow
type SagaStep struct {
	// Name must be unique within a saga.
	Name       string
	Type       domain.OperationType
	Execute    func(ctx context.Context) (rollbackData map[string]any, err error)
	Compensate func(ctx context.Context, rollbackData map[string]any) error
}

// SagaExecutor runs steps in order and compensates the completed ones in
// reverse order when a step fails. Steps are executed once; only
// compensations are retried.
type SagaExecutor struct {
	journal *domain.BumpJournal
	steps   []SagaStep
	logger  *zap.Logger
}

// NewSagaExecutor creates a new saga executor for a run
func NewSagaExecutor(runID string, logger *zap.Logger) *SagaExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SagaExecutor{
		journal: domain.NewBumpJournal(runID),
		steps:   []SagaStep{},
		logger:  logger,
	}
}

// AddStep adds a step to the saga
func (s *SagaExecutor) AddStep(step SagaStep) {
	s.steps = append(s.steps, step)
	s.journal.AddOperation(step.Name, step.Type)
}

// Execute runs the saga workflow with automatic rollback on failure
func (s *SagaExecutor) Execute(ctx context.Context) error {
	s.journal.Status = domain.RunStatusRunning
	for _, step := range s.steps {
		if err := s.executeStep(ctx, step); err != nil {
			s.journal.MarkFailed(step.Name, err)
			s.logger.Warn("step failed, rolling back", zap.String("step", step.Name), zap.Error(err))
			// rollback must finish even if the caller's context is done
			rollbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RollbackTimeout)
			rollbackErr := s.rollback(rollbackCtx)
			cancel()
			if rollbackErr != nil {
				return fmt.Errorf("step '%s' failed: %w, rollback also failed: %v",
					step.Name, err, rollbackErr)
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name, err)
		}
	}
	s.journal.Status = domain.RunStatusCompleted
	return nil
}

func (s *SagaExecutor) executeStep(ctx context.Context, step SagaStep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.journal.MarkStarted(step.Name)
	s.logger.Debug("executing step", zap.String("step", step.Name), zap.String("type", string(step.Type)))
	data, err := step.Execute(ctx)
	if err != nil {
		return err
	}
	s.journal.MarkCompleted(step.Name, data)
	return nil
}

// Rollback executes compensating actions for completed operations
func (s *SagaExecutor) Rollback(ctx context.Context) error {
	return s.rollback(ctx)
}

func (s *SagaExecutor) rollback(ctx context.Context) error {
	completed := s.journal.CompletedOperations()
	if len(completed) == 0 {
		s.logger.Debug("no operations to roll back")
		return nil
	}
	for _, op := range completed {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("rollback canceled: %w", err)
		}
		step := s.findStep(op.Name)
		if step == nil || step.Compensate == nil {
			continue
		}
		s.logger.Info("rolling back", zap.String("step", step.Name))
		if err := s.executeCompensation(ctx, step, op.RollbackData); err != nil {
			s.logger.Error("rollback failed", zap.String("step", step.Name), zap.Error(err))
			return fmt.Errorf("rollback failed for %s: %w", step.Name, err)
		}
		s.journal.MarkRolledBack(op.Name)
	}
	s.journal.Status = domain.RunStatusRolledBack
	s.logger.Info("rollback completed")
	return nil
}

// executeCompensation executes a compensating action with retry
func (s *SagaExecutor) executeCompensation(ctx context.Context, step *SagaStep, rollbackData map[string]any) error {
	retryStrategy := retry.WithMaxRetries(DefaultRetryCount, retry.NewExponential(DefaultRetryDelay))
	return retry.Do(ctx, retryStrategy, func(retryCtx context.Context) error {
		if err := retryCtx.Err(); err != nil {
			return err
		}
		if err := step.Compensate(retryCtx, rollbackData); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *SagaExecutor) findStep(name string) *SagaStep {
	for i := range s.steps {
		if s.steps[i].Name == name {
			return &s.steps[i]
		}
	}
	return nil
}

// Journal returns the run journal
func (s *SagaExecutor) Journal() *domain.BumpJournal {
	return s.journal
}

// SetVersions records the transition in the journal
func (s *SagaExecutor) SetVersions(from, to string) {
	s.journal.FromVersion = from
	s.journal.ToVersion = to
}

// SetBranch records the branch in the journal
func (s *SagaExecutor) SetBranch(branch string) {
	s.journal.Branch = branch
}
