package notification_log

import (
	"context"
	"fmt"
	"sync"

	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/tool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	wg  sync.WaitGroup
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a payment notification log. Nil input is ignored.
func (s *Service) Save(ctx context.Context, log *models.PaymentNotificationLog) {
	if log == nil {
		return
	}
	if log.ID == "" {
		log.ID = tool.GenerateUUIDV7()
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.db.Save(log).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save notification log: %v", err)
		}
	}()
}

// Wait blocks until every pending Save has finished.
func (s *Service) Wait() { s.wg.Wait() }

// ListByTransaction returns the log rows of one processor transaction, oldest first.
func (s *Service) ListByTransaction(ctx context.Context, transactionID string) ([]*models.PaymentNotificationLog, error) {
	var rows []*models.PaymentNotificationLog
	err := s.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	return rows, nil
}
