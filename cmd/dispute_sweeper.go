package main

import (
	"context"
	"log"
	"time"

	"cleanlyBack/internal/disputes"
)

const disputeSweepTimeout = 1 * time.Minute

func startDisputeSweeper(ctx context.Context, sweeper *disputes.Sweeper, infoLog, errorLog *log.Logger) {
	if sweeper == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, disputeSweepTimeout)
			sweeper.Run(runCtx)
			cancel()
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
