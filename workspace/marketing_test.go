package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsRows() [][]string {
	return [][]string{
		{"Campaign Name", "Spend", "Conversions", "ROI"},
		{"Spring Launch", "10000", "120", "3.5x"},
		{"Summer Promo", "8000", "45", "0.8x"},
		{"Fall Webinar", "5000", "200", "250%"},
	}
}

func TestSummarizeMetrics(t *testing.T) {
	out := summarizeMetrics("Vonga_Marketing_Metrics", metricsRows())

	assert.Contains(t, out, "Marketing Performance Analysis for Vonga_Marketing_Metrics")
	// (3.5 + 0.8 + 2.5) / 3 = 2.27
	assert.Contains(t, out, "Average ROI: 2.27x")
	assert.Contains(t, out, "Best Performing Campaign (by Conversions): 'Fall Webinar' with 200 conversions (ROI: 2.50x)")
	assert.Contains(t, out, "Worst Performing Campaign: 'Summer Promo' with ROI 0.80x (overspent by 20.0%)")
	assert.Contains(t, out, "Total Campaigns Analyzed: 3")
}

func TestSummarizeMetrics_NoOverspend(t *testing.T) {
	rows := [][]string{
		{"Campaign", "Conversions", "ROI"},
		{"A", "10", "1.2x"},
		{"B", "20", "2.0x"},
	}
	out := summarizeMetrics("Metrics", rows)
	assert.Contains(t, out, "Lowest ROI Campaign: 'A' with ROI 1.20x")
	assert.NotContains(t, out, "overspent")
}

func TestParseROI(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"3.5x", 3.5, true},
		{"2X", 2.0, true},
		{"350%", 3.5, true},
		{"1.25", 1.25, true},
		{" 0.8x ", 0.8, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tc := range tests {
		got, ok := parseROI(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.input)
		}
	}
}

func TestFindColumn(t *testing.T) {
	headers := []string{"Campaign Name", "Spend", "Conversions", "ROI"}
	assert.Equal(t, 0, findColumn(headers, "campaign", "name"))
	assert.Equal(t, 2, findColumn(headers, "conversion"))
	assert.Equal(t, 3, findColumn(headers, "roi"))
	assert.Equal(t, -1, findColumn(headers, "budget"))
}

func TestAnalyzeMetricsTool(t *testing.T) {
	d := NewMemoryDrive()
	d.AddSheet("Vonga_Marketing_Metrics", "Sheet1", metricsRows())
	tl := NewAnalyzeMetricsTool(d, "")

	out, err := tl.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Average ROI: 2.27x")
}

func TestAnalyzeMetricsTool_MissingSheet(t *testing.T) {
	tl := NewAnalyzeMetricsTool(NewMemoryDrive(), "")

	out, err := tl.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Google Sheet 'Vonga_Marketing_Metrics' not found")
}

func TestAnalyzeMetricsTool_EmptySheet(t *testing.T) {
	d := NewMemoryDrive()
	d.AddSheet("Vonga_Marketing_Metrics", "Sheet1", [][]string{
		{"Campaign", "ROI"},
	})
	tl := NewAnalyzeMetricsTool(d, "")

	out, err := tl.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "is empty or has no data rows")
}

func TestBrandVoiceAuditTool(t *testing.T) {
	d := NewMemoryDrive()
	d.AddDoc("01_Brand_Voice_Guidelines", "Be bold. No jargon.")
	tl := NewBrandVoiceAuditTool(d, "")

	out, err := tl.Invoke(context.Background(), map[string]any{
		"text_to_audit": "Leveraging synergies across verticals.",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Brand Voice Audit Request")
	assert.Contains(t, out, "BRAND VOICE GUIDELINES:\nBe bold. No jargon.")
	assert.Contains(t, out, "TEXT TO AUDIT:\nLeveraging synergies across verticals.")
	assert.Contains(t, out, "PASS/FAIL grade")
}

func TestBrandVoiceAuditTool_MissingDoc(t *testing.T) {
	tl := NewBrandVoiceAuditTool(NewMemoryDrive(), "")

	out, err := tl.Invoke(context.Background(), map[string]any{"text_to_audit": "hello"})
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Could not find '01_Brand_Voice_Guidelines' document")
}
