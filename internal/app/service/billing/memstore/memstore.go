// Package memstore holds in-memory implementations of the billing ports,
// used for simulations and tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/tool"
)

// Ledger keeps entries per member in insertion order.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string][]*models.PaymentLogEntry
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string][]*models.PaymentLogEntry)}
}

// Entries returns copies of the member's entries, latest payment date first.
// Entries without a payment date sort last.
func (l *Ledger) Entries(_ context.Context, memberID string) ([]*models.PaymentLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := cloneEntries(l.entries[memberID])
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PaymentDate, out[j].PaymentDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return out, nil
}

// List returns the member's entries in insertion order.
func (l *Ledger) List(_ context.Context, memberID string) ([]*models.PaymentLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneEntries(l.entries[memberID]), nil
}

func (l *Ledger) Append(_ context.Context, entry *models.PaymentLogEntry) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *entry
	if cp.ID == "" {
		cp.ID = tool.GenerateUUIDV7()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	l.entries[cp.MemberID] = append(l.entries[cp.MemberID], &cp)
	entry.ID = cp.ID
	entry.CreatedAt = cp.CreatedAt
	return cp.ID, nil
}

// FindByTransactionID returns nil when no entry carries txnID.
func (l *Ledger) FindByTransactionID(_ context.Context, txnID string) (*models.PaymentLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, list := range l.entries {
		for _, e := range list {
			if e.GetTransactionID() == txnID {
				cp := *e
				return &cp, nil
			}
		}
	}
	return nil, nil
}

// Get returns nil when the entry does not exist.
func (l *Ledger) Get(_ context.Context, entryID string) (*models.PaymentLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, list := range l.entries {
		for _, e := range list {
			if e.ID == entryID {
				cp := *e
				return &cp, nil
			}
		}
	}
	return nil, nil
}

// Delete removes an entry and reports whether it existed.
func (l *Ledger) Delete(_ context.Context, entryID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for member, list := range l.entries {
		for i, e := range list {
			if e.ID == entryID {
				l.entries[member] = append(list[:i:i], list[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

// DeleteMember removes every entry of memberID and returns how many.
func (l *Ledger) DeleteMember(_ context.Context, memberID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.entries[memberID])
	delete(l.entries, memberID)
	return int64(n), nil
}

func cloneEntries(in []*models.PaymentLogEntry) []*models.PaymentLogEntry {
	out := make([]*models.PaymentLogEntry, 0, len(in))
	for _, e := range in {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// Records is a map-backed member record store.
type Records struct {
	mu      sync.RWMutex
	records map[string]billing.Record
}

func NewRecords() *Records {
	return &Records{records: make(map[string]billing.Record)}
}

// Add creates or replaces a member record.
func (r *Records) Add(memberID string, dateRecorded time.Time, fields billing.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := billing.Record{"id": memberID, billing.FieldDateRecorded: dateRecorded}
	for k, v := range fields {
		rec[k] = v
	}
	r.records[memberID] = rec
}

func (r *Records) Get(_ context.Context, memberID, field string) (any, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[memberID]
	if !ok {
		return nil, false, billing.ErrMemberNotFound
	}
	v, ok := rec[field]
	if !ok || v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

// Set stores value; a nil value clears the field.
func (r *Records) Set(_ context.Context, memberID, field string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[memberID]
	if !ok {
		return billing.ErrMemberNotFound
	}
	if value == nil {
		delete(rec, field)
		return nil
	}
	rec[field] = value
	return nil
}

func (r *Records) Record(_ context.Context, memberID string) (billing.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[memberID]
	if !ok {
		return nil, billing.ErrMemberNotFound
	}
	cp := make(billing.Record, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp, nil
}

// MemberIDs returns every member id, sorted.
func (r *Records) MemberIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Events records emitted events in order.
type Events struct {
	mu     sync.Mutex
	events []Event
}

type Event struct {
	Name    string
	Payload any
}

func (e *Events) Emit(_ context.Context, name string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, Event{Name: name, Payload: payload})
}

func (e *Events) All() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Event(nil), e.events...)
}

// Named returns the events with the given name.
func (e *Events) Named(name string) []Event {
	var out []Event
	for _, ev := range e.All() {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}
