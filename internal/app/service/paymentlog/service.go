package paymentlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/app/service/status"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/config"
	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const approvedValue = "yes"

// Payment is a verified payment to be logged against a member.
type Payment struct {
	Portal types.PaymentPortal `json:"payment_portal"`
	// MemberID may be left empty when Custom carries a return code.
	MemberID      string          `json:"member_id"`
	Custom        string          `json:"custom"`
	TransactionID string          `json:"transaction_id"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Currency      string          `json:"currency"`
	// PaymentDate defaults to the engine clock.
	PaymentDate *time.Time `json:"payment_date"`
	// DueDate is stamped from the member's schedule when empty.
	DueDate     *time.Time     `json:"due_date"`
	PayerEmail  string         `json:"payer_email"`
	PeriodCount int            `json:"period_count"`
	Note        string         `json:"note"`
	Data        map[string]any `json:"data"`
	// Overwrite replaces an entry already logged under TransactionID.
	Overwrite bool `json:"overwrite"`
}

type RecordResult struct {
	EntryID   string              `json:"entry_id"`
	MemberID  string              `json:"member_id"`
	Duplicate bool                `json:"duplicate"`
	Status    *status.WriteResult `json:"status,omitempty"`
}

// Service records payments in the ledger and keeps member status current.
type Service struct {
	store         Store
	engine        *billing.Engine
	records       billing.RecordStore
	writer        *status.Writer
	code          ReturnCode
	approve       bool
	approvalField string
	log           *zap.SugaredLogger
}

func NewService(cfg *config.Config, store Store, engine *billing.Engine, writer *status.Writer, log *zap.SugaredLogger) *Service {
	return &Service{
		store:         store,
		engine:        engine,
		records:       engine.Records(),
		writer:        writer,
		code:          NewReturnCode(cfg.Dues.ReturnCodeKey),
		approve:       cfg.Dues.ApproveOnPayment,
		approvalField: cfg.Dues.ApprovalField,
		log:           log,
	}
}

func (s *Service) ReturnCode() ReturnCode { return s.code }

// ResolveMemberID returns the member a payment belongs to.
func (s *Service) ResolveMemberID(p *Payment) (string, error) {
	if p.MemberID != "" {
		return p.MemberID, nil
	}
	return s.code.Decode(p.Custom)
}

// RecordPayment logs p and rewrites the member's status. A payment whose
// transaction id is already logged is not stored again unless Overwrite is
// set; the existing entry is reported with Duplicate set.
func (s *Service) RecordPayment(ctx context.Context, p *Payment) (*RecordResult, error) {
	if p == nil {
		return nil, fmt.Errorf("nil payment")
	}
	res, entry, err := s.record(ctx, p)
	if err != nil || res.Duplicate {
		return res, err
	}
	res.Status, err = s.writer.WritePaymentStatus(ctx, status.WriteRequest{
		MemberID:        res.MemberID,
		InitialStatus:   types.PaymentStatusDue,
		TransactionData: p.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write status after payment: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("payment recorded",
		"entry_id", entry.ID,
		"payment_portal", entry.Portal,
		"gross_amount", entry.GrossAmount.String(),
		"status", res.Status.Status,
	)
	return res, nil
}

func (s *Service) record(ctx context.Context, p *Payment) (*RecordResult, *models.PaymentLogEntry, error) {
	memberID, err := s.ResolveMemberID(p)
	if err != nil {
		return nil, nil, err
	}
	ctx = logctx.WithMemberID(ctx, memberID)
	lg := logctx.FromCtx(ctx, s.log)
	if _, err := s.records.Record(ctx, memberID); err != nil {
		return nil, nil, err
	}

	if p.TransactionID != "" {
		existing, err := s.store.FindByTransactionID(ctx, p.TransactionID)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			if !p.Overwrite {
				lg.Infow("duplicate transaction ignored", "transaction_id", p.TransactionID, "entry_id", existing.ID)
				return &RecordResult{EntryID: existing.ID, MemberID: existing.MemberID, Duplicate: true}, existing, nil
			}
			if _, err := s.store.Delete(ctx, existing.ID); err != nil {
				return nil, nil, err
			}
			lg.Infow("transaction overwritten", "transaction_id", p.TransactionID, "entry_id", existing.ID)
		}
	}

	entry, err := s.newEntry(ctx, memberID, p)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.store.Append(ctx, entry); err != nil {
		return nil, nil, err
	}

	if s.engine.Settings().IsValidEntry(entry) {
		if err := s.engine.Pending().Clear(ctx, memberID); err != nil {
			return nil, nil, err
		}
		if err := s.records.Set(ctx, memberID, billing.FieldLastPaymentType, entry.Portal); err != nil {
			return nil, nil, fmt.Errorf("failed to set last payment type: %w", err)
		}
		if s.approve && entry.Portal.Online() {
			if err := s.records.Set(ctx, memberID, s.approvalField, approvedValue); err != nil {
				return nil, nil, fmt.Errorf("failed to approve member: %w", err)
			}
		}
	}
	return &RecordResult{EntryID: entry.ID, MemberID: memberID}, entry, nil
}

func (s *Service) newEntry(ctx context.Context, memberID string, p *Payment) (*models.PaymentLogEntry, error) {
	paid := s.engine.Clock().Now()
	if p.PaymentDate != nil && !p.PaymentDate.IsZero() {
		paid = *p.PaymentDate
	}
	entry := &models.PaymentLogEntry{
		MemberID:    memberID,
		PaymentDate: lo.ToPtr(paid),
		GrossAmount: p.GrossAmount,
		Currency:    p.Currency,
		Portal:      lo.Ternary(p.Portal == "", types.PaymentPortalManual, p.Portal),
		PayerEmail:  p.PayerEmail,
		PeriodCount: lo.Ternary(p.PeriodCount < 1, 1, p.PeriodCount),
		Note:        p.Note,
		Columns:     p.Data,
	}
	if p.TransactionID != "" {
		entry.TransactionID = lo.ToPtr(p.TransactionID)
	}
	if p.DueDate != nil && !p.DueDate.IsZero() {
		entry.DueDate = lo.ToPtr(*p.DueDate)
		return entry, nil
	}

	sched, err := s.engine.Schedule(ctx, memberID, billing.ScheduleOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule for due date: %w", err)
	}
	due := sched.NextDueDate()
	// the first payment anchors the schedule on the day it was made
	if billing.SameDay(due, sched.DateRecorded()) && s.engine.Settings().IsValidEntry(entry) {
		due = paid
	}
	entry.DueDate = lo.ToPtr(due)
	return entry, nil
}

// RecordOfflinePromise marks the member as having promised an offline
// payment. The member shows as pending until the payment arrives or the
// pending window ends.
func (s *Service) RecordOfflinePromise(ctx context.Context, memberID string) (*status.WriteResult, error) {
	ctx = logctx.WithMemberID(ctx, memberID)
	if err := s.engine.Pending().Mark(ctx, memberID); err != nil {
		return nil, err
	}
	if err := s.records.Set(ctx, memberID, billing.FieldLastPaymentType, types.PaymentPortalOffline); err != nil {
		return nil, fmt.Errorf("failed to set last payment type: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("offline payment promised")
	return s.writer.WritePaymentStatus(ctx, status.WriteRequest{MemberID: memberID, InitialStatus: types.PaymentStatusPayable})
}

// RefreshStatus rewrites the member's status from its current ledger.
func (s *Service) RefreshStatus(ctx context.Context, memberID string) (*status.WriteResult, error) {
	return s.writer.WritePaymentStatus(logctx.WithMemberID(ctx, memberID), status.WriteRequest{MemberID: memberID})
}

// DeleteEntry removes an entry and rewrites the member's status.
func (s *Service) DeleteEntry(ctx context.Context, entryID string) (*status.WriteResult, error) {
	entry, err := s.store.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	ok, err := s.store.Delete(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEntryNotFound
	}
	ctx = logctx.WithMemberID(ctx, entry.MemberID)
	logctx.FromCtx(ctx, s.log).Infow("payment log entry deleted", "entry_id", entryID)
	return s.writer.WritePaymentStatus(ctx, status.WriteRequest{MemberID: entry.MemberID})
}

// ClearMember deletes every entry of the member and rewrites its status.
func (s *Service) ClearMember(ctx context.Context, memberID string) (int64, error) {
	ctx = logctx.WithMemberID(ctx, memberID)
	n, err := s.store.DeleteMember(ctx, memberID)
	if err != nil {
		return 0, err
	}
	logctx.FromCtx(ctx, s.log).Infow("member payment log cleared", "deleted", n)
	if _, err := s.writer.WritePaymentStatus(ctx, status.WriteRequest{MemberID: memberID}); err != nil {
		return n, err
	}
	return n, nil
}

type ImportResult struct {
	Imported   []string            `json:"imported"`
	Duplicates []string            `json:"duplicates"`
	Status     *status.WriteResult `json:"status"`
}

// Import logs historical entries for one member and writes the status once
// at the end. Entries default to the import portal.
func (s *Service) Import(ctx context.Context, memberID string, payments []*Payment) (*ImportResult, error) {
	out := &ImportResult{}
	for i, p := range payments {
		if p == nil {
			continue
		}
		cp := *p
		cp.MemberID = memberID
		if cp.Portal == "" {
			cp.Portal = types.PaymentPortalImport
		}
		res, _, err := s.record(ctx, &cp)
		if err != nil {
			return out, fmt.Errorf("failed to import entry %d: %w", i, err)
		}
		if res.Duplicate {
			out.Duplicates = append(out.Duplicates, res.EntryID)
			continue
		}
		out.Imported = append(out.Imported, res.EntryID)
	}
	st, err := s.writer.WritePaymentStatus(ctx, status.WriteRequest{MemberID: memberID})
	if err != nil {
		return out, err
	}
	out.Status = st
	return out, nil
}

// List returns the member's entries in the order they were logged.
func (s *Service) List(ctx context.Context, memberID string) ([]*models.PaymentLogEntry, error) {
	if _, err := s.records.Record(ctx, memberID); err != nil {
		if errors.Is(err, billing.ErrMemberNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read member record: %w", err)
	}
	return s.store.List(ctx, memberID)
}
