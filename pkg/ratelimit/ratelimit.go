package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces outbound GitHub calls. It is advisory only: yearscope never
// retries on a 403, it just avoids issuing bursts that would earn one.
type Limiter struct {
	github *rate.Limiter
}

func New(githubReqPerMin int) *Limiter {
	return &Limiter{
		github: rate.NewLimiter(rate.Limit(float64(githubReqPerMin)/60.0), githubReqPerMin),
	}
}

func (l *Limiter) WaitGithub(ctx context.Context) error {
	return l.github.Wait(ctx)
}
