package notification_handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedPortal = errors.New("unsupported payment portal")
	ErrInvalidEvent      = errors.New("invalid payment event")
)

// PaymentEvent is a payment the processor adapter has already verified.
type PaymentEvent struct {
	TransactionID string          `json:"transaction_id"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Currency      string          `json:"currency"`
	PaymentDate   *time.Time      `json:"payment_date"`
	Custom        string          `json:"custom"`
	PayerEmail    string          `json:"payer_email"`
	PeriodCount   int             `json:"period_count"`
	Data          map[string]any  `json:"data"`
}

type rawPaymentEvent struct {
	TransactionID string          `json:"transaction_id"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Currency      string          `json:"currency"`
	PaymentDate   string          `json:"payment_date"`
	Custom        string          `json:"custom"`
	PayerEmail    string          `json:"payer_email"`
	PeriodCount   int             `json:"period_count"`
	Data          map[string]any  `json:"data"`
}

// ParsePaymentEvent decodes a verified payment event. payment_date accepts
// YYYY-MM-DD or RFC 3339 and may be omitted.
func ParsePaymentEvent(body []byte) (*PaymentEvent, error) {
	var raw rawPaymentEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if strings.TrimSpace(raw.TransactionID) == "" {
		return nil, fmt.Errorf("%w: missing transaction_id", ErrInvalidEvent)
	}
	ev := &PaymentEvent{
		TransactionID: strings.TrimSpace(raw.TransactionID),
		GrossAmount:   raw.GrossAmount,
		Currency:      raw.Currency,
		Custom:        raw.Custom,
		PayerEmail:    raw.PayerEmail,
		PeriodCount:   raw.PeriodCount,
		Data:          raw.Data,
	}
	if raw.PaymentDate != "" {
		t, err := parseEventTime(raw.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: payment_date %q", ErrInvalidEvent, raw.PaymentDate)
		}
		ev.PaymentDate = &t
	}
	if ev.Data == nil {
		ev.Data = map[string]any{}
	}
	return ev, nil
}

func parseEventTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// Payment converts the event into a ledger payment for portal. The member is
// resolved from the custom field.
func (e *PaymentEvent) Payment(portal types.PaymentPortal) *paymentlog.Payment {
	return &paymentlog.Payment{
		Portal:        portal,
		Custom:        e.Custom,
		TransactionID: e.TransactionID,
		GrossAmount:   e.GrossAmount,
		Currency:      e.Currency,
		PaymentDate:   e.PaymentDate,
		PayerEmail:    e.PayerEmail,
		PeriodCount:   e.PeriodCount,
		Data:          e.Data,
	}
}
