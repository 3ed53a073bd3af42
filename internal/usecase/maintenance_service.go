package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/ostvik/league-hub/internal/domain/rosterlock"
	"github.com/ostvik/league-hub/internal/domain/season"
	"github.com/ostvik/league-hub/internal/platform/logging"
)

type maintenanceTaskKind string

const (
	maintenanceStatusSuccess = "success"
	maintenanceStatusFailed  = "failed"
	maintenanceStatusSkipped = "skipped"

	maintenanceTaskExpireStale  maintenanceTaskKind = "expire_stale"
	maintenanceTaskCancelLocked maintenanceTaskKind = "cancel_during_lock"
	maintenanceTaskAuditCurrent maintenanceTaskKind = "audit_current"
)

type ReconcileInput struct {
	MaxWorkers int
}

type ReconcileResult struct {
	TaskCount    int                   `json:"task_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	SkippedCount int                   `json:"skipped_count"`
	WorkerCount  int                   `json:"worker_count"`
	Tasks        []ReconcileTaskResult `json:"tasks"`
}

type ReconcileTaskResult struct {
	Task       string `json:"task"`
	SeasonID   string `json:"season_id,omitempty"`
	Status     string `json:"status"`
	Records    int64  `json:"records"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// MaintenanceService runs the housekeeping pass over the invite and lock
// tables: expiring stale invites, cancelling invites that slipped in
// before a freeze landed, and auditing the one-current-record invariant
// per season.
type MaintenanceService struct {
	seasonRepo season.Repository
	lockRepo   rosterlock.Repository
	inviteRepo inviteMaintenanceRepo
	logger     *logging.Logger
	now        func() time.Time
}

type inviteMaintenanceRepo interface {
	CancelAllPending(ctx context.Context) (int64, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

func NewMaintenanceService(
	seasonRepo season.Repository,
	lockRepo rosterlock.Repository,
	inviteRepo inviteMaintenanceRepo,
	logger *logging.Logger,
) *MaintenanceService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MaintenanceService{
		seasonRepo: seasonRepo,
		lockRepo:   lockRepo,
		inviteRepo: inviteRepo,
		logger:     logger,
		now:        time.Now,
	}
}

type maintenanceTask struct {
	kind     maintenanceTaskKind
	seasonID string
}

func (s *MaintenanceService) Reconcile(ctx context.Context, input ReconcileInput) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.Reconcile")
	defer span.End()

	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list seasons: %w", err)
	}

	tasks := []maintenanceTask{
		{kind: maintenanceTaskExpireStale},
		{kind: maintenanceTaskCancelLocked},
	}
	for _, sn := range seasons {
		tasks = append(tasks, maintenanceTask{kind: maintenanceTaskAuditCurrent, seasonID: sn.ID})
	}

	workerCount := input.MaxWorkers
	if workerCount < 1 {
		workerCount = 4
	}
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ReconcileTaskResult, len(tasks))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.runTask(ctx, task)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case maintenanceStatusSuccess:
				successCount.Add(1)
			case maintenanceStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return ReconcileResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	result := ReconcileResult{
		TaskCount:   len(tasks),
		WorkerCount: workerCount,
	}
	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].Task != result.Tasks[j].Task {
			return result.Tasks[i].Task < result.Tasks[j].Task
		}
		return result.Tasks[i].SeasonID < result.Tasks[j].SeasonID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "invite maintenance finished",
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)

	return result, nil
}

func (s *MaintenanceService) runTask(ctx context.Context, task maintenanceTask) ReconcileTaskResult {
	row := ReconcileTaskResult{Task: string(task.kind), SeasonID: task.seasonID}

	switch task.kind {
	case maintenanceTaskExpireStale:
		count, err := s.inviteRepo.ExpireStale(ctx, s.now().UTC())
		if err != nil {
			row.Status = maintenanceStatusFailed
			row.Message = err.Error()
			return row
		}
		row.Status = maintenanceStatusSuccess
		row.Records = count

	case maintenanceTaskCancelLocked:
		locked, err := s.anySeasonLocked(ctx)
		if err != nil {
			row.Status = maintenanceStatusFailed
			row.Message = err.Error()
			return row
		}
		if !locked {
			row.Status = maintenanceStatusSkipped
			row.Message = "no season is locked"
			return row
		}
		count, err := s.inviteRepo.CancelAllPending(ctx)
		if err != nil {
			row.Status = maintenanceStatusFailed
			row.Message = err.Error()
			return row
		}
		row.Status = maintenanceStatusSuccess
		row.Records = count

	case maintenanceTaskAuditCurrent:
		records, err := s.lockRepo.ListBySeason(ctx, task.seasonID)
		if err != nil {
			row.Status = maintenanceStatusFailed
			row.Message = err.Error()
			return row
		}
		currents := int64(0)
		for _, rec := range records {
			if rec.IsCurrent {
				currents++
			}
		}
		row.Records = currents
		if currents > 1 {
			row.Status = maintenanceStatusFailed
			row.Message = fmt.Sprintf("season has %d current lock records", currents)
			return row
		}
		row.Status = maintenanceStatusSuccess

	default:
		row.Status = maintenanceStatusSkipped
		row.Message = "unknown task"
	}

	return row
}

func (s *MaintenanceService) anySeasonLocked(ctx context.Context) (bool, error) {
	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list seasons: %w", err)
	}

	for _, sn := range seasons {
		current, exists, err := s.lockRepo.GetCurrent(ctx, sn.ID)
		if err != nil {
			return false, fmt.Errorf("get current lock record: %w", err)
		}
		if exists && current.IsLocked {
			return true, nil
		}
	}

	return false, nil
}
