package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pos/backend/internal/application/sales"
)

// Store renders committed orders to PDF files under a directory served as
// /receipts. It implements the sales.ReceiptGenerator port.
type Store struct {
	renderer  *Renderer
	dir       string
	storeName string
	footer    string
	logger    *zap.Logger
}

var _ sales.ReceiptGenerator = (*Store)(nil)

// NewStore creates a receipt store writing into dir, creating it when
// missing
func NewStore(renderer *Renderer, dir, storeName, footer string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt directory: %w", err)
	}
	return &Store{
		renderer:  renderer,
		dir:       dir,
		storeName: storeName,
		footer:    footer,
		logger:    logger,
	}, nil
}

// Generate renders the receipt and returns the URL path it is served from
func (s *Store) Generate(ctx context.Context, result *sales.CommitResult) (string, error) {
	data := Data{
		StoreName:     s.storeName,
		Footer:        s.footer,
		OrderNumber:   result.OrderNumber,
		OrderID:       result.ExternalOrderID,
		CustomerName:  result.CustomerName,
		Email:         result.CustomerEmail,
		Date:          result.CommittedAt,
		Items:         make([]Item, 0, len(result.Lines)),
		Subtotal:      result.Subtotal,
		Discount:      result.Discount,
		Total:         result.FinalAmount,
		PaymentMethod: result.PaymentMethod,
	}
	for _, line := range result.Lines {
		data.Items = append(data.Items, Item{
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	pdf, err := s.renderer.Render(ctx, data)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("receipt_%d.pdf", result.ExternalOrderID)
	if err := os.WriteFile(filepath.Join(s.dir, filename), pdf, 0o644); err != nil {
		return "", fmt.Errorf("write receipt file: %w", err)
	}

	s.logger.Debug("Receipt written",
		zap.Int64("external_order_id", result.ExternalOrderID),
		zap.String("file", filename))
	return "/receipts/" + filename, nil
}
