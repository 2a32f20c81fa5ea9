package billing

import (
	"context"
	"fmt"
	"time"
)

// PendingTracker manages the "offline payment promised" overlay. The overlay
// is active from the promise until the window expires or a valid payment
// clears it.
type PendingTracker struct {
	records    RecordStore
	clock      Clock
	windowDays int
}

func NewPendingTracker(settings *Settings, clock Clock, records RecordStore) *PendingTracker {
	return &PendingTracker{records: records, clock: clock, windowDays: settings.PendingWindowDays()}
}

// Mark starts the pending window now.
func (p *PendingTracker) Mark(ctx context.Context, memberID string) error {
	if err := p.records.Set(ctx, memberID, FieldPendingPaymentTimestamp, p.clock.Now()); err != nil {
		return fmt.Errorf("failed to set pending timestamp: %w", err)
	}
	return nil
}

// Clear ends the pending window.
func (p *PendingTracker) Clear(ctx context.Context, memberID string) error {
	if err := p.records.Set(ctx, memberID, FieldPendingPaymentTimestamp, nil); err != nil {
		return fmt.Errorf("failed to clear pending timestamp: %w", err)
	}
	return nil
}

// Since returns when the current promise was made.
func (p *PendingTracker) Since(ctx context.Context, memberID string) (time.Time, bool, error) {
	v, ok, err := p.records.Get(ctx, memberID, FieldPendingPaymentTimestamp)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, ok := AsTime(v)
	return t, ok, nil
}

// ExpiresAt is the end of a window started at since.
func (p *PendingTracker) ExpiresAt(since time.Time) time.Time {
	return since.AddDate(0, 0, p.windowDays)
}

// Active reports whether a non-expired promise exists.
func (p *PendingTracker) Active(ctx context.Context, memberID string) (bool, error) {
	since, ok, err := p.Since(ctx, memberID)
	if err != nil || !ok {
		return false, err
	}
	return !p.clock.Now().After(p.ExpiresAt(since)), nil
}
