package workspace

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/billriesner/vongab2b/tool"
)

// DefaultMetricsSheet is the marketing metrics spreadsheet name.
const DefaultMetricsSheet = "Vonga_Marketing_Metrics"

// DefaultBrandVoiceDoc is the brand voice guidelines document name.
const DefaultBrandVoiceDoc = "01_Brand_Voice_Guidelines"

// NewAnalyzeMetricsTool summarizes campaign performance from the metrics
// spreadsheet: average ROI, best campaign by conversions, worst by ROI.
// Column matching is case-insensitive on header names.
func NewAnalyzeMetricsTool(svc DriveService, sheetName string) tool.Tool {
	if sheetName == "" {
		sheetName = DefaultMetricsSheet
	}
	return tool.NewFunctionTool(
		"analyze_performance_metrics",
		fmt.Sprintf("Analyze marketing performance metrics from the %s sheet. Reads the campaign data, "+
			"calculates key statistics (Average ROI, Best/Worst performing campaigns), and returns a text "+
			"summary of findings. No parameters required.", sheetName),
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			files, err := svc.SearchFiles(ctx, fmt.Sprintf("name='%s' and mimeType='%s'", sheetName, MimeSpreadsheet), 1)
			if err != nil {
				return fmt.Sprintf("Error analyzing performance metrics: %v", err), nil
			}
			if len(files) == 0 {
				return fmt.Sprintf("Error: Google Sheet '%s' not found. Please create the sheet first with campaign data.", sheetName), nil
			}
			sheet, err := svc.ReadSheet(ctx, files[0].ID, "")
			if err != nil {
				return fmt.Sprintf("Error analyzing performance metrics: %v", err), nil
			}
			if len(sheet.Rows) <= 1 {
				return fmt.Sprintf("Error: Sheet '%s' is empty or has no data rows. Please add campaign metrics data.", sheetName), nil
			}
			return summarizeMetrics(sheetName, sheet.Rows), nil
		},
	)
}

func summarizeMetrics(sheetName string, rows [][]string) string {
	headers := rows[0]
	data := rows[1:]

	roiCol := findColumn(headers, "roi")
	campaignCol := findColumn(headers, "campaign", "name")
	convCol := findColumn(headers, "conversion")

	var b strings.Builder
	fmt.Fprintf(&b, "Marketing Performance Analysis for %s\n", sheetName)
	b.WriteString(strings.Repeat("=", 60))

	rois := make([]float64, len(data))
	haveROI := make([]bool, len(data))
	if roiCol >= 0 {
		var sum float64
		var count int
		for i, row := range data {
			if v, ok := parseROI(cell(row, roiCol)); ok {
				rois[i], haveROI[i] = v, true
				sum += v
				count++
			}
		}
		if count > 0 {
			fmt.Fprintf(&b, "\n\nAverage ROI: %.2fx", sum/float64(count))
		} else {
			b.WriteString("\n\nAverage ROI: Unable to calculate (no valid ROI data found)")
		}
	}

	if campaignCol >= 0 && convCol >= 0 {
		best, bestConv := -1, 0.0
		for i, row := range data {
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell(row, convCol)), 64); err == nil {
				if best < 0 || v > bestConv {
					best, bestConv = i, v
				}
			}
		}
		if best >= 0 {
			roiInfo := ""
			if haveROI[best] {
				roiInfo = fmt.Sprintf(" (ROI: %.2fx)", rois[best])
			}
			fmt.Fprintf(&b, "\nBest Performing Campaign (by Conversions): '%s' with %.0f conversions%s",
				cell(data[best], campaignCol), bestConv, roiInfo)
		} else {
			b.WriteString("\nBest Performing Campaign: Unable to determine (no valid conversion data)")
		}
	}

	if campaignCol >= 0 && roiCol >= 0 {
		worst := -1
		for i := range data {
			if haveROI[i] && (worst < 0 || rois[i] < rois[worst]) {
				worst = i
			}
		}
		switch {
		case worst < 0:
			b.WriteString("\nWorst Performing Campaign: Unable to determine (no valid ROI data)")
		case rois[worst] < 1.0:
			fmt.Fprintf(&b, "\nWorst Performing Campaign: '%s' with ROI %.2fx (overspent by %.1f%%)",
				cell(data[worst], campaignCol), rois[worst], (1.0-rois[worst])*100)
		default:
			fmt.Fprintf(&b, "\nLowest ROI Campaign: '%s' with ROI %.2fx",
				cell(data[worst], campaignCol), rois[worst])
		}
	}

	fmt.Fprintf(&b, "\n\nTotal Campaigns Analyzed: %d", len(data))
	return b.String()
}

func findColumn(headers []string, needles ...string) int {
	for i, h := range headers {
		lower := strings.ToLower(h)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseROI accepts "3.5x", "350%", and plain numbers, normalizing to a
// multiplier.
func parseROI(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	switch {
	case strings.HasSuffix(s, "x"):
		v, err := strconv.ParseFloat(s[:len(s)-1], 64)
		return v, err == nil
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(s[:len(s)-1], 64)
		return v / 100.0, err == nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
}

// NewBrandVoiceAuditTool loads the live brand voice guidelines and returns
// them alongside the text under audit. The grading itself is done by the
// model on its next turn; this tool only assembles the material.
func NewBrandVoiceAuditTool(svc DriveService, docName string) tool.Tool {
	if docName == "" {
		docName = DefaultBrandVoiceDoc
	}
	return tool.NewFunctionTool(
		"audit_brand_voice",
		fmt.Sprintf("Audit a text string against the Brand Voice Guidelines. Reads the live %s document and "+
			"returns it with the input text for comparison. Returns a Pass/Fail grade request with specific "+
			"rewrite suggestions if it fails.", docName),
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text_to_audit": map[string]any{"type": "string", "description": "The text to audit (e.g., a drafted email, post, or marketing copy)"},
			},
			"required": []string{"text_to_audit"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			text, _ := args["text_to_audit"].(string)
			doc, err := FindDocByName(ctx, svc, docName)
			if err != nil {
				return fmt.Sprintf("Error: Could not find '%s' document in Google Drive. Please ensure it exists.", docName), nil
			}
			return fmt.Sprintf(`Brand Voice Audit Request

BRAND VOICE GUIDELINES:
%s

TEXT TO AUDIT:
%s

Please compare the text against the brand voice guidelines and provide:
1. PASS/FAIL grade
2. Specific issues found (if any)
3. Rewrite suggestions with specific changes (if failed)

The audit should be strict - if the text doesn't align with the brand voice, it should FAIL with clear, actionable feedback.`,
				doc.Text, text), nil
		},
	)
}
