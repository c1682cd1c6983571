// Package render turns a finished contract analysis into a downloadable PDF.
// Rendering goes through headless Chromium so the report picks up real print
// CSS instead of a hand-built PDF layout.
package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type ChromiumPDFRenderer struct {
	chromePath string
}

func NewChromiumPDFRenderer() *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{chromePath: detectChromePath()}
}

// Report carries the fields the PDF cover block shows alongside the summary.
type Report struct {
	CompanyName    string
	SellerFilename string
	BuyerFilename  string
	Summary        string
	CreatedAt      time.Time
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, report Report) ([]byte, error) {
	htmlDoc, err := buildHTML(report)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;padding-right:8px;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

const styleCSS = `
body{font-family:Georgia,'Times New Roman',serif;color:#1c1917;line-height:1.55;font-size:0.92rem;}
.report-header{border-bottom:2px solid #92400e;padding-bottom:0.6rem;margin-bottom:1rem;}
.report-title{font-size:1.25rem;font-weight:700;letter-spacing:0.02em;margin:0 0 0.4rem;}
.report-meta{color:#44403c;font-size:0.8rem;}
.report-meta strong{color:#1c1917;}
.report-html h2{font-size:1.02rem;border-bottom:1px solid #d6d3d1;padding-bottom:0.2rem;margin-top:1.2rem;}
.report-html strong{color:#78350f;}
.report-html hr{border:0;border-top:1px dashed #a8a29e;margin:1rem 0;}
`

func buildHTML(report Report) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(summaryToMarkdown(report.Summary)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	var meta strings.Builder
	if report.SellerFilename != "" {
		meta.WriteString("<div><strong>Seller document:</strong> " + html.EscapeString(report.SellerFilename) + "</div>")
	}
	if report.BuyerFilename != "" {
		meta.WriteString("<div><strong>Buyer document:</strong> " + html.EscapeString(report.BuyerFilename) + "</div>")
	}
	if !report.CreatedAt.IsZero() {
		meta.WriteString("<div><strong>Date:</strong> " + html.EscapeString(report.CreatedAt.In(time.Local).Format("January 2, 2006 at 3:04 PM MST")) + "</div>")
	}

	title := "Contract Analysis Report"
	if name := strings.TrimSpace(report.CompanyName); name != "" {
		title += " for " + name
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + styleCSS + "\n" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		"body{background:#fff !important;padding:0.6rem;} .pdf-wrap{max-width:1000px;margin:0 auto;} " +
		"@media print{ @page{size:auto;margin:12mm;} body{padding:0;} .pdf-wrap{max-width:none;} }" +
		"</style></head><body>" +
		"<div class='pdf-wrap'><div class='report-header'>" +
		"<div class='report-title'>" + html.EscapeString(title) + "</div>" +
		"<div class='report-meta'>" + meta.String() + "</div>" +
		"</div><div class='report-html'>" + content.String() + "</div></div>" +
		"</body></html>", nil
}

// summaryToMarkdown lifts the plain-text summary into light markdown so
// goldmark produces scannable output. The "=== ... ===" banner becomes a
// heading and CLAUSE labels become bold run-ins; everything else passes
// through untouched.
func summaryToMarkdown(summary string) string {
	lines := strings.Split(summary, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "===") && strings.HasSuffix(trimmed, "==="):
			out = append(out, "## "+strings.TrimSpace(strings.Trim(trimmed, "=")))
		case strings.HasPrefix(trimmed, "CLAUSE:"):
			out = append(out, "**"+trimmed+"**")
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
