package notification_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	notificationlog "github.com/fatflowers/duesledger/internal/app/service/notification_log"
	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type NotificationHandler struct {
	notifSvc *notificationlog.Service
	payments *paymentlog.Service
	Logger   *zap.SugaredLogger
}

func NewNotificationHandler(notif *notificationlog.Service, payments *paymentlog.Service, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{notifSvc: notif, payments: payments, Logger: log}
}

// HandleNotification records a verified payment event from portal. Every
// event is logged as received, then as handled, duplicate or handle_failed.
func (h *NotificationHandler) HandleNotification(ctx context.Context, portal types.PaymentPortal, body []byte) (res *paymentlog.RecordResult, resErr error) {
	if !portal.Online() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPortal, portal)
	}
	lg := logctx.FromCtx(ctx, h.Logger)

	ev, err := ParsePaymentEvent(body)
	if err != nil {
		lg.Warnw("rejected payment event", "payment_portal", portal, "error", err)
		return nil, err
	}
	payment := ev.Payment(portal)

	var memberID *string
	if id, err := h.payments.ResolveMemberID(payment); err == nil {
		memberID = lo.ToPtr(id)
		ctx = logctx.WithMemberID(ctx, id)
		lg = logctx.FromCtx(ctx, h.Logger)
	}
	traceID, _ := ctx.Value(logctx.TraceIDKey).(string)
	dataBytes, _ := json.Marshal(ev)

	h.notifSvc.Save(ctx, &models.PaymentNotificationLog{
		Portal:        string(portal),
		MemberID:      memberID,
		TraceID:       traceID,
		TransactionID: ev.TransactionID,
		ReceivedAt:    time.Now(),
		Data:          datatypes.JSON(dataBytes),
		Status:        models.PaymentNotificationLogStatusReceived,
	})

	defer func() {
		resMap := map[string]any{"result": res}
		status := models.PaymentNotificationLogStatusHandled
		switch {
		case resErr != nil:
			resMap["error"] = resErr.Error()
			status = models.PaymentNotificationLogStatusHandleFailed
		case res != nil && res.Duplicate:
			status = models.PaymentNotificationLogStatusDuplicate
		}
		var entryID *string
		if res != nil && res.EntryID != "" {
			entryID = lo.ToPtr(res.EntryID)
		}
		resBytes, _ := json.Marshal(resMap)
		h.notifSvc.Save(ctx, &models.PaymentNotificationLog{
			Portal:        string(portal),
			MemberID:      memberID,
			TraceID:       traceID,
			TransactionID: ev.TransactionID,
			EntryID:       entryID,
			ReceivedAt:    time.Now(),
			Data:          datatypes.JSON(dataBytes),
			Result:        lo.ToPtr(datatypes.JSON(resBytes)),
			Status:        status,
		})
	}()

	res, resErr = h.payments.RecordPayment(ctx, payment)
	if resErr != nil {
		lg.Errorw("failed to record payment event", "transaction_id", ev.TransactionID, "error", resErr)
		return nil, fmt.Errorf("failed to record payment: %w", resErr)
	}
	lg.Infow("payment event handled", "transaction_id", ev.TransactionID, "entry_id", res.EntryID, "duplicate", res.Duplicate)
	return res, nil
}
