package session

import (
	"context"
	"log"
	"time"
)

// Janitor periodically drops revocation entries whose credential has passed
// its natural expiry. Pure storage reclamation: IsRevoked stays correct no
// matter how long the janitor has not run, entries are only ever additive.
type Janitor struct {
	store    RevocationStore
	interval time.Duration
}

func NewJanitor(store RevocationStore, interval time.Duration) *Janitor {
	return &Janitor{store: store, interval: interval}
}

// Run blocks until ctx is cancelled. Start it with `go janitor.Run(ctx)`.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	n, err := j.store.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("session janitor: purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("session janitor: purged %d expired revocation entries", n)
	}
}
