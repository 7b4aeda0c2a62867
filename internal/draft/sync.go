package draft

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// PersistFunc writes one draft snapshot to durable storage.
type PersistFunc func(ctx context.Context, snap Snapshot) error

// Syncer applies draft snapshots to durable storage in the order the
// mutations were accepted. A single consumer goroutine drains a buffered
// channel, so a later write can never land before an earlier one. When the
// buffer is full the oldest pending snapshot is dropped: every snapshot
// carries the full draft, so last-write-wins loses nothing.
type Syncer struct {
	persist PersistFunc
	logger  *log.Logger
	pending chan Snapshot
}

func NewSyncer(persist PersistFunc, logger *log.Logger) *Syncer {
	return &Syncer{
		persist: persist,
		logger:  logger,
		pending: make(chan Snapshot, 16),
	}
}

// DraftChanged implements Sink. It never blocks the store's mutation path.
func (s *Syncer) DraftChanged(snap Snapshot) {
	for {
		select {
		case s.pending <- snap:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// Run drains snapshots until ctx is cancelled. A failed persist is logged
// and the snapshot dropped; the in-memory draft is already the source of
// truth and the next accepted mutation re-sends the full state.
func (s *Syncer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-s.pending:
			if snap.ExistingID == uuid.Nil {
				// Not linked to a durable schedule yet; sync is
				// deferred until an explicit save creates one.
				continue
			}
			if err := s.persist(ctx, snap); err != nil {
				s.logger.Printf("draft sync error: %v", err)
			}
		}
	}
}
