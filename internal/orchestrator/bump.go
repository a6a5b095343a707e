package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/repository"
	"github.com/compozy/bumpver/internal/usecase"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// BumpRequest is one commit message handed to the engine.
type BumpRequest struct {
	Message string
	DryRun  bool
}

// BumpResult describes what a run decided and, unless it was a dry run, did.
type BumpResult struct {
	RunID    string
	Branch   string
	Detached bool
	// Kind is the classification of the message.
	Kind domain.BumpKind
	// Applied is the bump actually performed, BumpNone for a no-op.
	Applied       domain.BumpKind
	AlreadyBumped bool
	From          *domain.Version
	To            *domain.Version
	Files         []string
	DryRun        bool
}

// Changed reports whether the run moved the version.
func (r *BumpResult) Changed() bool {
	return r.Applied != domain.BumpNone && r.To != nil
}

// BumpOrchestrator drives the per-branch bump lifecycle:
// an unbumped branch takes the first semantic bump of its cycle, after which
// the branch is marked and further semantic bumps are suppressed until reset.
type BumpOrchestrator struct {
	fs       afero.Fs
	store    repository.BranchStore
	locker   repository.Locker
	gitRepo  repository.GitRepository
	logger   *zap.Logger
	settings Settings
}

// NewBumpOrchestrator creates a new bump orchestrator
func NewBumpOrchestrator(
	fs afero.Fs,
	store repository.BranchStore,
	locker repository.Locker,
	gitRepo repository.GitRepository,
	logger *zap.Logger,
	settings Settings,
) (*BumpOrchestrator, error) {
	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BumpOrchestrator{
		fs:       fs,
		store:    store,
		locker:   locker,
		gitRepo:  gitRepo,
		logger:   logger,
		settings: settings,
	}, nil
}

// Execute classifies the message and applies the resulting bump, if any.
func (o *BumpOrchestrator) Execute(ctx context.Context, req BumpRequest) (*BumpResult, error) {
	result := &BumpResult{
		RunID:   uuid.NewString(),
		Kind:    domain.Classify(req.Message),
		Applied: domain.BumpNone,
		DryRun:  req.DryRun,
	}
	log := o.logger.With(zap.String("run_id", result.RunID), zap.Stringer("kind", result.Kind))
	if err := o.resolveBranch(ctx, result); err != nil {
		return nil, err
	}
	log = log.With(zap.String("branch", result.Branch))
	if result.Detached {
		log.Warn("HEAD is detached, semantic bumps are skipped")
	}
	unlock, err := o.locker.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil {
			log.Warn("failed to release lock", zap.Error(unlockErr))
		}
	}()
	if err := o.decide(ctx, result); err != nil {
		return nil, err
	}
	if result.Applied == domain.BumpNone {
		log.Info("no version bump", zap.Bool("already_bumped", result.AlreadyBumped))
		return result, nil
	}
	reader := o.settings.reader(o.fs)
	versions, err := reader.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifests: %w", err)
	}
	if err := usecase.CheckConsistency(versions); err != nil {
		return nil, err
	}
	result.From = versions[0].Version
	next, err := result.From.Bump(result.Applied)
	if err != nil {
		return nil, fmt.Errorf("failed to compute next version: %w", err)
	}
	result.To = next
	for _, mv := range versions {
		result.Files = append(result.Files, mv.Manifest.Path)
	}
	log = log.With(zap.Stringer("from", result.From), zap.Stringer("to", result.To))
	if req.DryRun {
		log.Info("dry run, nothing written")
		return result, nil
	}
	saga := o.buildSaga(result, versions, reader, log)
	if err := saga.Execute(ctx); err != nil {
		return nil, fmt.Errorf("version bump failed: %w", err)
	}
	log.Info("version bumped", zap.Stringer("applied", result.Applied))
	return result, nil
}

func (o *BumpOrchestrator) resolveBranch(ctx context.Context, result *BumpResult) error {
	if o.settings.Branch != "" {
		result.Branch = o.settings.Branch
		return nil
	}
	if o.gitRepo == nil {
		result.Detached = true
		return nil
	}
	branch, err := o.gitRepo.CurrentBranch(ctx)
	if errors.Is(err, domain.ErrDetachedHead) {
		result.Detached = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to determine current branch: %w", err)
	}
	result.Branch = branch
	return nil
}

// decide sets result.Applied from the classification and the branch state.
func (o *BumpOrchestrator) decide(ctx context.Context, result *BumpResult) error {
	if result.Kind.IsSemantic() && !result.Detached {
		bumped, err := o.store.HasBumped(ctx, result.Branch)
		if err != nil {
			return fmt.Errorf("failed to read tracker: %w", err)
		}
		if !bumped {
			result.Applied = result.Kind
			return nil
		}
		result.AlreadyBumped = true
	}
	if o.settings.Scheme == domain.SchemeBuild {
		result.Applied = domain.BumpBuild
	}
	return nil
}

func (o *BumpOrchestrator) buildSaga(
	result *BumpResult,
	versions []domain.ManifestVersion,
	reader *usecase.ReadManifestsUseCase,
	log *zap.Logger,
) *SagaExecutor {
	saga := NewSagaExecutor(result.RunID, log)
	saga.SetBranch(result.Branch)
	saga.SetVersions(result.From.String(), result.To.String())
	acts := NewCompensatingActions(o.fs, o.store, log)
	writer := &usecase.WriteManifestUseCase{Fs: o.fs}
	for _, mv := range versions {
		mv := mv
		saga.AddStep(SagaStep{
			Name: "write " + mv.Manifest.Path,
			Type: domain.OperationTypeWriteManifest,
			Execute: func(ctx context.Context) (map[string]any, error) {
				if err := writer.Execute(ctx, mv, result.To); err != nil {
					return nil, err
				}
				return map[string]any{
					rollbackKeyPath:     mv.Manifest.Path,
					rollbackKeyOriginal: mv.Raw,
				}, nil
			},
			Compensate: acts.RestoreManifest,
		})
	}
	verifier := &usecase.VerifyManifestsUseCase{Reader: reader}
	saga.AddStep(SagaStep{
		Name: "verify manifests",
		Type: domain.OperationTypeVerifyManifests,
		Execute: func(ctx context.Context) (map[string]any, error) {
			return nil, verifier.Execute(ctx, result.To)
		},
		Compensate: acts.NoOp,
	})
	if o.settings.Stage && o.gitRepo != nil {
		saga.AddStep(SagaStep{
			Name: "stage manifests",
			Type: domain.OperationTypeStageManifests,
			Execute: func(ctx context.Context) (map[string]any, error) {
				return nil, o.gitRepo.StageFiles(ctx, result.Files...)
			},
			Compensate: acts.NoOp,
		})
	}
	if result.Applied.IsSemantic() {
		saga.AddStep(SagaStep{
			Name: "mark branch",
			Type: domain.OperationTypeMarkBranch,
			Execute: func(ctx context.Context) (map[string]any, error) {
				already, err := o.store.HasBumped(ctx, result.Branch)
				if err != nil {
					return nil, err
				}
				if err := o.store.MarkBumped(ctx, result.Branch); err != nil {
					return nil, err
				}
				return map[string]any{
					rollbackKeyBranch:      result.Branch,
					rollbackKeyNewlyMarked: !already,
				}, nil
			},
			Compensate: acts.UnmarkBranch,
		})
	}
	return saga
}
