// Package jobs contains implementations of scheduled jobs for the dojo
// manager.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/store"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// FEE AGING JOB
// ══════════════════════════════════════════════════════════════════════════════

// FeeAgingJob sweeps pending fees whose due date has passed and transitions
// them to OVERDUE. The check-in gate only reads fee status; this sweep is
// the single place that computes it. A fee becomes overdue once the academy
// day after its due date starts, so a fee due today is still PENDING all day.
type FeeAgingJob struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewFeeAgingJob creates a new fee aging job.
func NewFeeAgingJob(st *store.Store, logger *slog.Logger) *FeeAgingJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeeAgingJob{
		store:  st,
		logger: logger,
		now:    timeutil.Now,
	}
}

// Name returns the job name.
func (j *FeeAgingJob) Name() string {
	return "fee_aging"
}

// Description returns a human-readable description.
func (j *FeeAgingJob) Description() string {
	return "marks pending fees past their due date as overdue"
}

// Run executes one sweep.
func (j *FeeAgingJob) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fees := j.store.Fees()
	cutoff := timeutil.StartOfDay(j.now())

	aged := 0
	for i := range fees {
		f := &fees[i]
		if f.Status != billing.StatusPending || !f.DueBefore(cutoff) {
			continue
		}
		if err := f.MarkOverdue(); err != nil {
			return fmt.Errorf("age fee %s: %w", f.ID, err)
		}
		aged++
	}

	if aged == 0 {
		return nil
	}

	if err := j.store.SaveFees(fees); err != nil {
		return fmt.Errorf("persist aged fees: %w", err)
	}

	j.logger.Info("fees aged to overdue", "count", aged)
	return nil
}
