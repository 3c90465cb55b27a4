package scheduler

import (
	"log"
	"time"

	"soalklinis_backend/internals/features/auth/guard"
)

// StartAttemptSweeper removes elapsed login-attempt records every hour so
// the in-memory map stays bounded. Blocking decisions never depend on the
// sweeper; it is memory hygiene only.
func StartAttemptSweeper(g *guard.Store) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for now := range ticker.C {
			before := g.Len()
			g.Sweep(now)
			if removed := before - g.Len(); removed > 0 {
				log.Printf("[CLEANUP] %d expired login-attempt records removed", removed)
			}
		}
	}()
}
