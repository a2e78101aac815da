package jobs

import (
	"time"

	"github.com/rs/zerolog/log"
)

type flowSweeper interface {
	Sweep(ttl time.Duration) int
}

type limiterCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// SweepIdleFlows returns the cron job that discards booking flows untouched
// for longer than ttl, together with idle rate limiter buckets.
func SweepIdleFlows(flows flowSweeper, limiter limiterCleaner, ttl time.Duration) func() {
	return func() {
		removed := flows.Sweep(ttl)
		if limiter != nil {
			limiter.Cleanup(ttl)
		}
		if removed > 0 {
			log.Info().Str("job", "sweep_flows").Int("removed", removed).Dur("ttl", ttl).Msg("idle booking flows discarded")
		}
	}
}
