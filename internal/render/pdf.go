package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFTimeout bounds how long headless Chrome may take to print a report
const PDFTimeout = 2 * time.Minute

// PDF prints an HTML page to PDF with headless Chrome
func PDF(ctx context.Context, htmlDoc []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "gridassist-report")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "report.html")
	if err := os.WriteFile(src, htmlDoc, 0600); err != nil {
		return nil, fmt.Errorf("writing html: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, PDFTimeout)
	defer cancel()

	var pdf []byte
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+src),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return err
		}),
	); err != nil {
		return nil, fmt.Errorf("printing pdf: %w", err)
	}

	return pdf, nil
}
