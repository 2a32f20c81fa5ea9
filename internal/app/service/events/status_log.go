package events

import (
	"context"
	"fmt"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/tool"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatusLogListener persists every status change event as a
// member_status_log row.
type StatusLogListener struct {
	db *gorm.DB
}

func NewStatusLogListener(db *gorm.DB) *StatusLogListener {
	return &StatusLogListener{db: db}
}

func (l *StatusLogListener) Handle(ctx context.Context, name string, payload any) error {
	ev, ok := payload.(*billing.StatusChangeEvent)
	if !ok || ev == nil {
		return fmt.Errorf("unexpected payload %T for %s", payload, name)
	}
	row := &models.MemberStatusLog{
		ID:       tool.GenerateUUIDV7(),
		MemberID: ev.MemberID,
		Event:    name,
		From:     ev.From,
		To:       ev.To,
		Info: datatypes.JSONMap(lo.MapValues(ev.Info.Display(billing.DisplayLayout), func(v string, _ string) any {
			return v
		})),
	}
	if len(ev.Transaction) > 0 {
		row.Transaction = datatypes.JSONMap(ev.Transaction)
	}
	if err := l.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save member status log: %w", err)
	}
	return nil
}

// History returns the logged transitions of a member, oldest first.
func (l *StatusLogListener) History(ctx context.Context, memberID string) ([]*models.MemberStatusLog, error) {
	var rows []*models.MemberStatusLog
	if err := l.db.WithContext(ctx).Where("member_id = ?", memberID).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list member status log: %w", err)
	}
	return rows, nil
}

// Register subscribes the listener to every status change event.
func (l *StatusLogListener) Register(bus *Bus) {
	bus.On(types.StatusChangeEventPrefix+"*", "member_status_log", l.Handle)
}
