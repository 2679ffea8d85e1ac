package jobs

import (
	"context"

	"unilib-backend/internal/logger"
)

// SweepDueReversions fires every persisted reversion whose fire-at has
// passed. In-process timers normally get there first; the sweep exists for
// reversions that came due while the process was down and for timers lost to
// a crash.
func (jr *JobRunner) SweepDueReversions() {
	jr.runWithRecovery("SweepDueReversions", func() {
		ctx := context.Background()

		fired, err := jr.services.Reversions.SweepDue(ctx)
		if err != nil {
			logger.Error("Failed to sweep due reversions", "error", err)
			return
		}
		if fired > 0 {
			logger.Info("Swept due reversions", "fired", fired)
		}
	})
}
