package orchestrator

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/repository"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	tauriPath = "src-tauri/tauri.conf.json"
	cargoPath = "src-tauri/Cargo.toml"
)

var testManifests = []domain.Manifest{
	{Path: tauriPath, Format: domain.ManifestJSON},
	{Path: cargoPath, Format: domain.ManifestTOML},
}

func tauriConf(version string) string {
	return "{\n  \"productName\": \"studio\",\n  \"version\": \"" + version + "\",\n  \"identifier\": \"dev.studio\"\n}\n"
}

func cargoToml(version string) string {
	return "[package]\nname = \"studio\"\nversion = \"" + version + "\"\nedition = \"2021\"\n\n" +
		"[dependencies]\ntauri = { version = \"2\" }\n"
}

func seedManifests(t *testing.T, fs afero.Fs, jsonVersion, tomlVersion string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, tauriPath, []byte(tauriConf(jsonVersion)), 0644))
	require.NoError(t, afero.WriteFile(fs, cargoPath, []byte(cargoToml(tomlVersion)), 0644))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func branchRepo(branch string) *mockGitRepository {
	gitRepo := new(mockGitRepository)
	gitRepo.On("CurrentBranch", mock.Anything).Return(branch, nil)
	return gitRepo
}

func newBump(
	t *testing.T,
	fs afero.Fs,
	store repository.BranchStore,
	gitRepo repository.GitRepository,
	settings Settings,
) *BumpOrchestrator {
	t.Helper()
	if settings.Scheme == "" {
		settings.Scheme = domain.SchemeSemver
	}
	if settings.Manifests == nil {
		settings.Manifests = testManifests
	}
	orch, err := NewBumpOrchestrator(fs, store, repository.NewMutexLocker(), gitRepo, nil, settings)
	require.NoError(t, err)
	return orch
}

// failingRenameFs fails renames onto one target path.
type failingRenameFs struct {
	afero.Fs
	target string
}

func (f *failingRenameFs) Rename(oldname, newname string) error {
	if newname == f.target {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errors.New("device busy")}
	}
	return f.Fs.Rename(oldname, newname)
}

func TestBumpOrchestrator_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Should bump minor once per branch and ignore later semantic commits", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		store := repository.NewMemoryBranchStore()
		orch := newBump(t, fs, store, branchRepo("feature/x"), Settings{})

		result, err := orch.Execute(ctx, BumpRequest{Message: "feature(export): add mp4"})

		require.NoError(t, err)
		assert.True(t, result.Changed())
		assert.Equal(t, domain.BumpMinor, result.Applied)
		assert.Equal(t, "0.1.0", result.From.String())
		assert.Equal(t, "0.2.0", result.To.String())
		assert.Equal(t, []string{tauriPath, cargoPath}, result.Files)
		assert.NotEmpty(t, result.RunID)
		assert.Contains(t, readFile(t, fs, tauriPath), `"version": "0.2.0"`)
		assert.Contains(t, readFile(t, fs, cargoPath), `version = "0.2.0"`)
		assert.Contains(t, readFile(t, fs, cargoPath), `tauri = { version = "2" }`)
		bumped, err := store.HasBumped(ctx, "feature/x")
		require.NoError(t, err)
		assert.True(t, bumped)

		result, err = orch.Execute(ctx, BumpRequest{Message: "fix(ui): spacing"})

		require.NoError(t, err)
		assert.False(t, result.Changed())
		assert.True(t, result.AlreadyBumped)
		assert.Equal(t, domain.BumpPatch, result.Kind)
		assert.Equal(t, domain.BumpNone, result.Applied)
		assert.Contains(t, readFile(t, fs, tauriPath), `"version": "0.2.0"`)
	})

	t.Run("Should apply patch and major bumps from the right prefixes", func(t *testing.T) {
		cases := []struct {
			message string
			from    string
			want    string
		}{
			{"fix(core): null check", "0.1.0", "0.1.1"},
			{"feature(ui): dark mode", "0.1.1", "0.2.0"},
			{"release(app): 1.0", "0.2.0", "1.0.0"},
		}
		for _, tc := range cases {
			tc := tc
			t.Run(tc.message, func(t *testing.T) {
				fs := afero.NewMemMapFs()
				seedManifests(t, fs, tc.from, tc.from)
				orch := newBump(t, fs, repository.NewMemoryBranchStore(), branchRepo("main"), Settings{})
				result, err := orch.Execute(ctx, BumpRequest{Message: tc.message})
				require.NoError(t, err)
				assert.Equal(t, tc.want, result.To.String())
			})
		}
	})

	t.Run("Should do nothing for unclassified messages without reading manifests", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := repository.NewMemoryBranchStore()
		orch := newBump(t, fs, store, branchRepo("main"), Settings{})

		result, err := orch.Execute(ctx, BumpRequest{Message: "docs: typo"})

		require.NoError(t, err)
		assert.False(t, result.Changed())
		assert.Equal(t, domain.BumpNone, result.Kind)
		branches, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, branches)
	})

	t.Run("Should refuse to write when manifests diverge", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.1")
		store := repository.NewMemoryBranchStore()
		orch := newBump(t, fs, store, branchRepo("feature/x"), Settings{})

		_, err := orch.Execute(ctx, BumpRequest{Message: "feature(export): add mp4"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrManifestDivergence)
		assert.Contains(t, err.Error(), tauriPath)
		assert.Contains(t, err.Error(), cargoPath)
		assert.Equal(t, tauriConf("0.1.0"), readFile(t, fs, tauriPath))
		assert.Equal(t, cargoToml("0.1.1"), readFile(t, fs, cargoPath))
		bumped, err := store.HasBumped(ctx, "feature/x")
		require.NoError(t, err)
		assert.False(t, bumped)
	})

	t.Run("Should restore every manifest when a later write fails", func(t *testing.T) {
		base := afero.NewMemMapFs()
		seedManifests(t, base, "0.1.0", "0.1.0")
		fs := &failingRenameFs{Fs: base, target: cargoPath}
		store := repository.NewMemoryBranchStore()
		orch := newBump(t, fs, store, branchRepo("feature/x"), Settings{})

		_, err := orch.Execute(ctx, BumpRequest{Message: "feature(export): add mp4"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrIOFailure)
		assert.Equal(t, tauriConf("0.1.0"), readFile(t, base, tauriPath))
		assert.Equal(t, cargoToml("0.1.0"), readFile(t, base, cargoPath))
		bumped, err := store.HasBumped(ctx, "feature/x")
		require.NoError(t, err)
		assert.False(t, bumped)
	})

	t.Run("Should restore manifests when marking the branch fails", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		store := new(mockBranchStore)
		store.On("HasBumped", mock.Anything, "feature/x").Return(false, nil)
		store.On("MarkBumped", mock.Anything, "feature/x").Return(errors.New("read-only tracker"))
		orch := newBump(t, fs, store, branchRepo("feature/x"), Settings{})

		_, err := orch.Execute(ctx, BumpRequest{Message: "feature(export): add mp4"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "read-only tracker")
		assert.Equal(t, tauriConf("0.1.0"), readFile(t, fs, tauriPath))
		assert.Equal(t, cargoToml("0.1.0"), readFile(t, fs, cargoPath))
		store.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	})

	t.Run("Should report without writing on dry run", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		store := repository.NewMemoryBranchStore()
		orch := newBump(t, fs, store, branchRepo("feature/x"), Settings{})

		result, err := orch.Execute(ctx, BumpRequest{Message: "release(app): ga", DryRun: true})

		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, "1.0.0", result.To.String())
		assert.Equal(t, tauriConf("0.1.0"), readFile(t, fs, tauriPath))
		bumped, err := store.HasBumped(ctx, "feature/x")
		require.NoError(t, err)
		assert.False(t, bumped)
	})

	t.Run("Should skip semantic bumps on a detached HEAD", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		gitRepo := new(mockGitRepository)
		gitRepo.On("CurrentBranch", mock.Anything).Return("", domain.ErrDetachedHead)
		orch := newBump(t, fs, repository.NewMemoryBranchStore(), gitRepo, Settings{})

		result, err := orch.Execute(ctx, BumpRequest{Message: "fix(ui): spacing"})

		require.NoError(t, err)
		assert.True(t, result.Detached)
		assert.False(t, result.Changed())
		assert.Equal(t, tauriConf("0.1.0"), readFile(t, fs, tauriPath))
	})

	t.Run("Should use the configured branch instead of git", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		store := repository.NewMemoryBranchStore()
		orch := newBump(t, fs, store, nil, Settings{Branch: "ci/build"})

		result, err := orch.Execute(ctx, BumpRequest{Message: "fix(ci): cache"})

		require.NoError(t, err)
		assert.Equal(t, "ci/build", result.Branch)
		bumped, err := store.HasBumped(ctx, "ci/build")
		require.NoError(t, err)
		assert.True(t, bumped)
	})

	t.Run("Should fail when the branch cannot be determined", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		gitRepo.On("CurrentBranch", mock.Anything).Return("", errors.New("not a repository"))
		orch := newBump(t, afero.NewMemMapFs(), repository.NewMemoryBranchStore(), gitRepo, Settings{})

		_, err := orch.Execute(ctx, BumpRequest{Message: "fix(ui): spacing"})

		assert.Error(t, err)
	})

	t.Run("Should fail when the lock cannot be acquired", func(t *testing.T) {
		locker := new(mockLocker)
		locker.On("Lock", mock.Anything).Return(nil, domain.NewIOError("lock", "tracker.lock", errors.New("timeout")))
		orch, err := NewBumpOrchestrator(afero.NewMemMapFs(), repository.NewMemoryBranchStore(), locker,
			branchRepo("main"), nil, Settings{Scheme: domain.SchemeSemver, Manifests: testManifests})
		require.NoError(t, err)

		_, err = orch.Execute(ctx, BumpRequest{Message: "fix(ui): spacing"})

		assert.ErrorIs(t, err, domain.ErrIOFailure)
	})

	t.Run("Should release the lock after the run", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		released := false
		locker := new(mockLocker)
		locker.On("Lock", mock.Anything).Return(func() error {
			released = true
			return nil
		}, nil)
		orch, err := NewBumpOrchestrator(fs, repository.NewMemoryBranchStore(), locker,
			branchRepo("main"), nil, Settings{Scheme: domain.SchemeSemver, Manifests: testManifests})
		require.NoError(t, err)

		_, err = orch.Execute(ctx, BumpRequest{Message: "fix(ui): spacing"})

		require.NoError(t, err)
		assert.True(t, released)
	})

	t.Run("Should stage rewritten manifests when enabled", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		gitRepo := branchRepo("main")
		gitRepo.On("StageFiles", mock.Anything, []string{tauriPath, cargoPath}).Return(nil)
		orch := newBump(t, fs, repository.NewMemoryBranchStore(), gitRepo, Settings{Stage: true})

		_, err := orch.Execute(ctx, BumpRequest{Message: "fix(ui): spacing"})

		require.NoError(t, err)
		gitRepo.AssertExpectations(t)
	})

	t.Run("Should roll back when staging fails", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		gitRepo := branchRepo("main")
		gitRepo.On("StageFiles", mock.Anything, mock.Anything).Return(errors.New("index locked"))
		store := repository.NewMemoryBranchStore()
		orch := newBump(t, fs, store, gitRepo, Settings{Stage: true})

		_, err := orch.Execute(ctx, BumpRequest{Message: "fix(ui): spacing"})

		require.Error(t, err)
		assert.Equal(t, tauriConf("0.1.0"), readFile(t, fs, tauriPath))
		bumped, err := store.HasBumped(ctx, "main")
		require.NoError(t, err)
		assert.False(t, bumped)
	})
}

func TestBumpOrchestrator_BuildScheme(t *testing.T) {
	ctx := context.Background()
	settings := Settings{Scheme: domain.SchemeBuild}

	t.Run("Should bump the build counter for unclassified messages", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0", "0.1.0")
		store := repository.NewMemoryBranchStore()
		orch := newBump(t, fs, store, branchRepo("main"), settings)

		result, err := orch.Execute(ctx, BumpRequest{Message: "chore: deps"})

		require.NoError(t, err)
		assert.Equal(t, domain.BumpBuild, result.Applied)
		assert.Equal(t, "0.1.0.1", result.To.String())
		assert.Contains(t, readFile(t, fs, tauriPath), `"version": "0.1.0.1"`)
		assert.Contains(t, readFile(t, fs, cargoPath), `version = "0.1.0.1"`)
		bumped, err := store.HasBumped(ctx, "main")
		require.NoError(t, err)
		assert.False(t, bumped)
	})

	t.Run("Should reset the build counter on a semantic bump", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.1.0.7", "0.1.0.7")
		orch := newBump(t, fs, repository.NewMemoryBranchStore(), branchRepo("main"), settings)

		result, err := orch.Execute(ctx, BumpRequest{Message: "fix(ui): spacing"})

		require.NoError(t, err)
		assert.Equal(t, "0.1.1.0", result.To.String())
	})

	t.Run("Should fall back to a build bump on an already bumped branch", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.2.0.0", "0.2.0.0")
		orch := newBump(t, fs, repository.NewMemoryBranchStore("feature/x"), branchRepo("feature/x"), settings)

		result, err := orch.Execute(ctx, BumpRequest{Message: "feature(export): webm"})

		require.NoError(t, err)
		assert.True(t, result.AlreadyBumped)
		assert.Equal(t, domain.BumpBuild, result.Applied)
		assert.Equal(t, "0.2.0.1", result.To.String())
	})

	t.Run("Should still bump the build counter on a detached HEAD", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		seedManifests(t, fs, "0.2.0.3", "0.2.0.3")
		gitRepo := new(mockGitRepository)
		gitRepo.On("CurrentBranch", mock.Anything).Return("", domain.ErrDetachedHead)
		orch := newBump(t, fs, repository.NewMemoryBranchStore(), gitRepo, settings)

		result, err := orch.Execute(ctx, BumpRequest{Message: "release(app): 1.0"})

		require.NoError(t, err)
		assert.True(t, result.Detached)
		assert.Equal(t, "0.2.0.4", result.To.String())
	})
}

func TestNewBumpOrchestrator(t *testing.T) {
	t.Run("Should reject invalid settings", func(t *testing.T) {
		cases := map[string]Settings{
			"unknown scheme": {Scheme: "calver", Manifests: testManifests},
			"no manifests":   {Scheme: domain.SchemeSemver},
			"bad branch":     {Scheme: domain.SchemeSemver, Manifests: testManifests, Branch: "feature..x"},
		}
		for name, settings := range cases {
			settings := settings
			t.Run(name, func(t *testing.T) {
				_, err := NewBumpOrchestrator(afero.NewMemMapFs(), repository.NewMemoryBranchStore(),
					repository.NewMutexLocker(), nil, nil, settings)
				assert.Error(t, err)
			})
		}
	})
}
