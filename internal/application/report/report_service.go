package report

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
)

// Service computes sales figures from the local order lines. Cancelled
// lines are excluded from every revenue figure.
type Service struct {
	lineRepo sales.OrderLineRepository
}

// NewService creates a new report Service
func NewService(lineRepo sales.OrderLineRepository) *Service {
	return &Service{lineRepo: lineRepo}
}

const topProductLimit = 10

// Today reports the current day's sales, midnight to now
func (s *Service) Today(ctx context.Context, now time.Time) (*SalesReport, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.Range(ctx, from, now)
}

// Range reports sales over [from, to). Weekly and monthly views are just
// range presets over this.
func (s *Service) Range(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("VALIDATION", "Report range end must be after its start")
	}

	lines, err := s.lineRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		From:            from,
		To:              to,
		Revenue:         decimal.Zero,
		ByPaymentMethod: map[string]PaymentBucket{},
	}

	orders := make(map[int64]struct{})
	methodOrders := make(map[string]map[int64]struct{})
	products := make(map[string]*TopProduct)

	for i := range lines {
		line := &lines[i]
		if line.Status == sales.LineStatusCancelled {
			report.CancelledLines++
			continue
		}

		orders[line.ExternalOrderID] = struct{}{}
		report.TotalLines++
		report.TotalItems += line.Quantity
		lineTotal := line.Total()
		report.Revenue = report.Revenue.Add(lineTotal)

		method := string(line.PaymentMethod)
		if methodOrders[method] == nil {
			methodOrders[method] = make(map[int64]struct{})
		}
		methodOrders[method][line.ExternalOrderID] = struct{}{}
		bucket := report.ByPaymentMethod[method]
		bucket.Revenue = bucket.Revenue.Add(lineTotal)
		report.ByPaymentMethod[method] = bucket

		top, ok := products[line.Title]
		if !ok {
			top = &TopProduct{Title: line.Title, Revenue: decimal.Zero}
			products[line.Title] = top
		}
		top.Quantity += line.Quantity
		top.Revenue = top.Revenue.Add(lineTotal)
	}

	report.TotalOrders = len(orders)
	for method, ids := range methodOrders {
		bucket := report.ByPaymentMethod[method]
		bucket.Orders = len(ids)
		report.ByPaymentMethod[method] = bucket
	}

	report.TopProducts = make([]TopProduct, 0, len(products))
	for _, top := range products {
		report.TopProducts = append(report.TopProducts, *top)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		if report.TopProducts[i].Quantity != report.TopProducts[j].Quantity {
			return report.TopProducts[i].Quantity > report.TopProducts[j].Quantity
		}
		return report.TopProducts[i].Title < report.TopProducts[j].Title
	})
	if len(report.TopProducts) > topProductLimit {
		report.TopProducts = report.TopProducts[:topProductLimit]
	}

	return report, nil
}
