package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/gridassist/internal/assistant"
	"github.com/jgoulah/gridassist/internal/render"
)

var (
	reportFormat   string
	reportOutput   string
	reportInsights bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a customer report as Markdown, HTML, PDF or Excel",
	Long: `Builds a report of daily usage, usage against weather, billing and payments.
With --insights the saving tips, weather insight, plan offers and usage forecast
from the language model are included too.

PDF output needs a local Chrome or Chromium.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "html", "Output format: md, html, pdf or xlsx")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file (default: report-<customer>.<format>)")
	reportCmd.Flags().BoolVar(&reportInsights, "insights", false, "Include model-generated sections")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(reportFormat)
	switch format {
	case "md", "html", "pdf", "xlsx":
	default:
		return fmt.Errorf("unsupported format %q (want md, html, pdf or xlsx)", reportFormat)
	}

	s, err := newSession(context.Background(), reportInsights)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	report := buildReport(ctx, s.assistant, reportInsights)

	path := reportOutput
	if path == "" {
		path = fmt.Sprintf("report-%s.%s", s.view.CustomerID, format)
	}

	fmt.Printf("Writing %s report...\n", format)
	if err := writeReport(ctx, report, format, path); err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		fmt.Printf("✓ Saved %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
	} else {
		fmt.Printf("✓ Saved %s\n", path)
	}
	return nil
}

// buildReport gathers every feature's output. Unavailable features become
// notices instead of failing the report.
func buildReport(ctx context.Context, a *assistant.Assistant, withInsights bool) *render.Report {
	r := &render.Report{
		CustomerID:  a.CustomerID(),
		GeneratedAt: time.Now(),
	}
	notice := func(reason string) {
		r.Notices = append(r.Notices, reason)
	}

	if res := a.Usage(); res.Available() {
		r.Daily = res.Value.Daily
	} else {
		notice(res.Reason)
	}
	if res := a.MergedSeries(); res.Available() {
		r.Merged = res.Value
	} else {
		notice(res.Reason)
	}
	if res := a.BillingHistory(); res.Available() {
		r.Billing = res.Value
	} else {
		notice(res.Reason)
	}
	if res := a.PaymentActivity(); res.Available() {
		r.Payments = res.Value
	} else {
		notice(res.Reason)
	}

	if !withInsights {
		return r
	}

	fmt.Println("Generating insights...")
	tips := a.Tips(ctx).Value
	if tips.Fallback {
		notice("Could not generate AI tips. Showing default tip.")
	}
	r.Sections = append(r.Sections, render.Section{Title: "Cost saving tips", Body: render.CleanResponse(tips.Text)})

	if res := a.WeatherImpact(ctx, true); res.Available() {
		if res.Value.InsightError != "" {
			notice(res.Value.InsightError)
		} else {
			r.Sections = append(r.Sections, render.Section{Title: "Weather impact", Body: render.CleanResponse(res.Value.Insight)})
		}
	}

	if res := a.Offers(ctx); res.Available() {
		r.Sections = append(r.Sections, render.Section{Title: "Plan suggestions & offers", Body: render.CleanResponse(res.Value.Text)})
	} else {
		notice(res.Reason)
	}

	if res := a.Forecast(ctx); res.Available() {
		r.Forecast = res.Value.Rows
		if res.Value.Synthetic {
			notice("Weather service unavailable, forecast is based on a synthetic outlook.")
		}
	} else {
		notice(res.Reason)
	}

	return r
}

func writeReport(ctx context.Context, r *render.Report, format, path string) error {
	switch format {
	case "xlsx":
		return render.WriteXLSX(r, path)
	case "md":
		return writeFile(path, []byte(render.Markdown(r)))
	}

	doc, err := render.HTML(r)
	if err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	if format == "html" {
		return writeFile(path, doc)
	}

	pdf, err := render.PDF(ctx, doc)
	if err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return writeFile(path, pdf)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
