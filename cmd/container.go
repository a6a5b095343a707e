package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/compozy/bumpver/internal/config"
	"github.com/compozy/bumpver/internal/logger"
	"github.com/compozy/bumpver/internal/orchestrator"
	"github.com/compozy/bumpver/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.
type container struct {
	cfg      *config.Config
	settings orchestrator.Settings
	logger   *zap.Logger

	osFs    afero.Fs
	fs      afero.Fs
	gitRepo repository.GitRepository
	store   repository.BranchStore
	locker  repository.Locker
}

// newContainer creates a new container with all the dependencies.
func newContainer(dir string, logOut io.Writer) (*container, error) {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	osFs := afero.NewOsFs()
	// manifest and tracker paths are relative to the project root
	fs := afero.NewBasePathFs(osFs, cfg.Root)

	// without a repository only an explicit branch can drive the tracker
	var gitRepo repository.GitRepository
	if repo, repoErr := repository.NewGitRepository(cfg.Root); repoErr == nil {
		gitRepo = repo
	} else if cfg.Branch == "" {
		return nil, repoErr
	} else {
		log.Debug("no git repository, using configured branch", zap.Error(repoErr))
	}

	return &container{
		cfg:      cfg,
		settings: settings,
		logger:   log,
		osFs:     osFs,
		fs:       fs,
		gitRepo:  gitRepo,
		store:    repository.NewFileBranchStore(fs, cfg.TrackerFile, log),
		locker:   repository.NewFileLocker(cfg.LockFile(), cfg.LockTimeout),
	}, nil
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	c, err := newContainer(".", os.Stderr)
	if err != nil {
		return err
	}
	bump, err := orchestrator.NewBumpOrchestrator(c.fs, c.store, c.locker, c.gitRepo, c.logger, c.settings)
	if err != nil {
		return fmt.Errorf("failed to create bump orchestrator: %w", err)
	}
	tracker, err := orchestrator.NewTrackerOrchestrator(c.fs, c.store, c.locker, c.gitRepo, c.logger, c.settings)
	if err != nil {
		return fmt.Errorf("failed to create tracker orchestrator: %w", err)
	}
	rootCmd = NewRootCmd(bump, tracker, c.osFs)
	return nil
}

