package mcp

import (
	"context"
	"time"
)

// DefaultWaitTimeout bounds WaitForRelay when the caller passes zero.
const DefaultWaitTimeout = 5 * time.Minute

// WaitForRelay polls until the relay exists, the timeout elapses or ctx is
// cancelled. It reports whether the relay was found.
func WaitForRelay(ctx context.Context, p Platform, env Env, timeout, interval time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if RelayExists(p, env) {
			return true
		}
		select {
		case <-ctx.Done():
			return RelayExists(p, env)
		case <-ticker.C:
		}
	}
}
