package main

import (
	"context"
	"log"
	"time"

	"cleanlyBack/internal/services"
)

const (
	healthRecalcTimeout = 10 * time.Minute
	healthRecalcBatch   = 200
)

// startHealthRecalc recomputes health for pros flagged dirty by reviews
// and abuse events, once a day.
func startHealthRecalc(ctx context.Context, svc *services.HealthService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, healthRecalcTimeout)
			done, err := svc.RecomputeDirty(runCtx, healthRecalcBatch)
			cancel()
			if err != nil {
				errorLog.Printf("health recalc: %v", err)
			}
			if done > 0 {
				infoLog.Printf("health recalc: recomputed %d pros", done)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
