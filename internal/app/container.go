// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/SwapLabsInc/ChadGI-sub001/internal/domain"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/agent"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/approval"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/config"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/executor"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/history"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/logging"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/notify"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/repo"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/infra/tracker"
	"github.com/SwapLabsInc/ChadGI-sub001/internal/usecase"
)

// Paths holds the resolved filesystem locations of the application.
type Paths struct {
	RepoRoot string // Root directory of the git repository
	GitDir   string // Path to .git directory
	StateDir string // Path to .git/chadgi directory
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for
// use cases.
type Container struct {
	Tracker   domain.Tracker
	Agent     domain.AgentRunner
	Sessions  domain.SessionStore
	Metrics   domain.MetricsStore
	Approvals domain.ApprovalStore
	Notifier  domain.Notifier
	Repo      domain.Repo
	Waiter    domain.Waiter
	Clock     domain.Clock
	Logger    domain.Logger

	ConfigLoader *config.Loader
	Config       *domain.Config
	Out          io.Writer
	Paths        Paths

	closer io.Closer
}

// New creates a Container by detecting the git repository from dir and
// loading the merged configuration. Configuration errors are fatal here,
// before any loop starts.
func New(dir string) (*Container, error) {
	gitRepo, err := repo.Detect(dir)
	if err != nil {
		return nil, err
	}

	paths := Paths{
		RepoRoot: gitRepo.Root(),
		GitDir:   gitRepo.GitDir(),
		StateDir: domain.RepoStateDir(gitRepo.GitDir()),
	}

	loader := config.NewLoader(paths.StateDir)
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := domain.ParseLogLevel(cfg.Log.Level)
	logger := logging.New(paths.StateDir, level)
	clock := domain.RealClock{}
	exec := executor.NewClient()

	return &Container{
		Tracker:      tracker.New(exec, logger, cfg.Tracker, paths.RepoRoot),
		Agent:        agent.New(logger, cfg.Agent),
		Sessions:     history.NewSessionStore(domain.SessionStorePath(paths.StateDir)),
		Metrics:      history.NewMetricsStore(domain.MetricsStorePath(paths.StateDir)),
		Approvals:    approval.New(paths.StateDir, clock),
		Notifier:     notify.New(exec, logger, cfg.Notify),
		Repo:         gitRepo,
		Waiter:       domain.RealWaiter{},
		Clock:        clock,
		Logger:       logger,
		ConfigLoader: loader,
		Config:       cfg,
		Out:          os.Stdout,
		Paths:        paths,
		closer:       logger,
	}, nil
}

// Close releases resources held by the container, such as open log files.
func (c *Container) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// UseCase factory methods

// RunBacklogUseCase returns a new RunBacklog use case.
func (c *Container) RunBacklogUseCase() *usecase.RunBacklog {
	return usecase.NewRunBacklog(
		c.Tracker, c.Agent, c.Sessions, c.Metrics, c.Approvals,
		c.Notifier, c.Repo, c.Waiter, c.Clock, c.Logger, c.Config, c.Out,
	)
}

// ListQueueUseCase returns a new ListQueue use case.
func (c *Container) ListQueueUseCase() *usecase.ListQueue {
	return usecase.NewListQueue(c.Tracker, c.Clock, c.Logger, c.Config)
}

// ShowHistoryUseCase returns a new ShowHistory use case.
func (c *Container) ShowHistoryUseCase() *usecase.ShowHistory {
	return usecase.NewShowHistory(c.Sessions)
}

// ShowStatsUseCase returns a new ShowStats use case.
func (c *Container) ShowStatsUseCase() *usecase.ShowStats {
	return usecase.NewShowStats(c.Sessions, c.Metrics)
}

// DecideApprovalUseCase returns a new DecideApproval use case.
func (c *Container) DecideApprovalUseCase() *usecase.DecideApproval {
	return usecase.NewDecideApproval(c.Approvals, c.Clock)
}

// ListPendingApprovalsUseCase returns a new ListPendingApprovals use case.
func (c *Container) ListPendingApprovalsUseCase() *usecase.ListPendingApprovals {
	return usecase.NewListPendingApprovals(c.Approvals)
}

// ExportSnapshotUseCase returns a new ExportSnapshot use case.
func (c *Container) ExportSnapshotUseCase() *usecase.ExportSnapshot {
	return usecase.NewExportSnapshot(c.Sessions, c.Metrics, c.Approvals)
}

// ImportSnapshotUseCase returns a new ImportSnapshot use case.
func (c *Container) ImportSnapshotUseCase() *usecase.ImportSnapshot {
	return usecase.NewImportSnapshot(c.Sessions, c.Metrics, c.Approvals)
}
