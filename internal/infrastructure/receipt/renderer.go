package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 15 * time.Second

	// receipt stock dimensions in inches (Chrome uses inches)
	paperWidthInches  = 100.0 / 25.4
	paperHeightInches = 150.0 / 25.4
)

// Renderer converts receipt HTML to PDF using Chrome DevTools Protocol
type Renderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewRenderer creates a new chromedp-based receipt renderer
func NewRenderer(timeout time.Duration, logger *zap.Logger) *Renderer {
	if timeout == 0 {
		timeout = defaultRenderTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Renderer{
		timeout:     timeout,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// Render produces a PDF receipt for the given data
func (r *Renderer) Render(ctx context.Context, data Data) ([]byte, error) {
	html, err := RenderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("receipt: failed to render template: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	var pdfData []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("receipt: rendering timed out after %v: %w", r.timeout, err)
		}
		r.logger.Error("receipt rendering failed", zap.Error(err))
		return nil, fmt.Errorf("receipt: chromedp execution failed: %w", err)
	}
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("receipt: generated PDF is empty")
	}

	r.logger.Info("receipt rendered",
		zap.String("order_number", data.OrderNumber),
		zap.Int("bytes", len(pdfData)),
	)
	return pdfData, nil
}

// Close releases the browser allocator
func (r *Renderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}
