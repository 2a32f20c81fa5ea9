package statistics

import (
	"context"
	"fmt"

	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/types"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticType string

const (
	// Valid (positive gross) payments per payment day.
	StatisticTypeDailyPaymentCount StatisticType = "daily_payment_count"
	// Gross amount per payment day and portal.
	StatisticTypeDailyGross StatisticType = "daily_gross"
	// Members per stored payment status.
	StatisticTypeStatusDistribution StatisticType = "status_distribution"
)

type DuesStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type DuesStatisticRequest struct {
	// Filters apply to payment_log_entry columns, e.g. payment_portal or a
	// date_range on payment_date.
	Filters   types.CommonFilters      `json:"filters"`
	DataItems []*DuesStatisticDataItem `json:"data_items"`
}

type DuesStatisticResponseDataItem struct {
	Date   string           `json:"date,omitempty"`
	Label  string           `json:"label,omitempty"`
	Value  int64            `json:"value"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

type DuesStatisticResponse struct {
	DataItems map[StatisticType][]DuesStatisticResponseDataItem `json:"data_items"`
}

// Service provides statistics operations
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) ledger(ctx context.Context, request *DuesStatisticRequest) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.PaymentLogEntry{}).
		Where("gross_amount > ?", 0).
		Where("payment_date IS NOT NULL").
		Where(clause.Where{Exprs: []clause.Expression{request.Filters}})
}

// day keeps the YYYY-MM-DD prefix; drivers differ in how DATE() scans.
func day(v string) string {
	if len(v) > len("2006-01-02") {
		return v[:len("2006-01-02")]
	}
	return v
}

func (s *Service) getDailyPaymentCount(ctx context.Context, request *DuesStatisticRequest) ([]DuesStatisticResponseDataItem, error) {
	type row struct {
		Date  string
		Value int64
	}
	var rows []row
	q := s.ledger(ctx, request).
		Select("DATE(payment_date) AS date, COUNT(*) AS value").
		Group("DATE(payment_date)").
		Order("date")
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r row, _ int) DuesStatisticResponseDataItem {
		return DuesStatisticResponseDataItem{Date: day(r.Date), Value: r.Value}
	}), nil
}

func (s *Service) getDailyGross(ctx context.Context, request *DuesStatisticRequest) ([]DuesStatisticResponseDataItem, error) {
	type row struct {
		Date   string
		Label  string
		Value  int64
		Amount decimal.Decimal
	}
	var rows []row
	q := s.ledger(ctx, request).
		Select("DATE(payment_date) AS date, payment_portal AS label, COUNT(*) AS value, SUM(gross_amount) AS amount").
		Group("DATE(payment_date)").
		Group("payment_portal").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
		Order("label")
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r row, _ int) DuesStatisticResponseDataItem {
		return DuesStatisticResponseDataItem{Date: day(r.Date), Label: r.Label, Value: r.Value, Amount: lo.ToPtr(r.Amount)}
	}), nil
}

func (s *Service) getStatusDistribution(ctx context.Context, _ *DuesStatisticRequest) ([]DuesStatisticResponseDataItem, error) {
	var results []DuesStatisticResponseDataItem
	q := s.db.WithContext(ctx).Model(&models.Member{}).
		Select("member_payment_status AS label, COUNT(*) AS value").
		Group("member_payment_status").
		Order("label")
	if err := q.Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDuesStatistic(ctx context.Context, request *DuesStatisticRequest, dataItem *DuesStatisticDataItem) ([]DuesStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyPaymentCount:
		return s.getDailyPaymentCount(ctx, request)
	case StatisticTypeDailyGross:
		return s.getDailyGross(ctx, request)
	case StatisticTypeStatusDistribution:
		return s.getStatusDistribution(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetDuesStatistic computes the requested data items concurrently. The
// first failing item fails the request.
func (s *Service) GetDuesStatistic(ctx context.Context, request *DuesStatisticRequest) (*DuesStatisticResponse, error) {
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []DuesStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		go func(di *DuesStatisticDataItem) {
			res, err := s.getDuesStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []DuesStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	results := make(map[StatisticType][]DuesStatisticResponseDataItem)
	for i := 0; i < len(request.DataItems); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			results[entry.Key] = entry.Value
		}
	}
	return &DuesStatisticResponse{DataItems: results}, nil
}
