package service

import (
	"context"
	"log"
	"time"
)

type expirySweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// TokenSweeper periodically deletes expired access tokens until its context is cancelled.
type TokenSweeper struct {
	auth     expirySweeper
	interval time.Duration
}

func NewTokenSweeper(auth expirySweeper, interval time.Duration) *TokenSweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &TokenSweeper{auth: auth, interval: interval}
}

func (s *TokenSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("[TokenSweeper] Started (interval=%s)", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("[TokenSweeper] Stopped")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *TokenSweeper) sweepOnce(ctx context.Context) {
	n, err := s.auth.SweepExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[TokenSweeper] Failed to sweep expired tokens: %v", err)
		}
		return
	}
	if n > 0 {
		log.Printf("[TokenSweeper] Removed %d expired tokens", n)
	}
}
