package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prospectArgs(company string) map[string]any {
	return map[string]any{
		"company_name":     company,
		"website":          "https://example.com",
		"description":      "B2B analytics platform for mid-market retailers.",
		"industry_sector":  "Retail Tech",
		"company_stage":    "Series A, 50 employees",
		"strategy_angle":   "Their churn problem maps directly to our retention playbook.",
		"key_contact_name": "Sarah Johnson, CMO",
		"contact_info":     "sarah@example.com",
		"market_position":  "Challenger to legacy BI vendors",
		"recent_signals":   "Raised $12M in October",
		"research_date":    "2025-11-30",
		"notes":            "Warm intro available through Maya.",
	}
}

func TestMemoryCustomerDB_SeededHeader(t *testing.T) {
	db := NewMemoryCustomerDB("")
	assert.Equal(t, "Vonga_Customer_DB", db.Name())

	rows, err := db.ReadRows(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 12)
	assert.Equal(t, "Company Name", rows[0][0])
	assert.Equal(t, "Notes", rows[0][11])
}

func TestMemoryCustomerDB_AppendAndUpdate(t *testing.T) {
	db := NewMemoryCustomerDB("TestDB")
	ctx := context.Background()

	n, err := db.AppendRow(ctx, []string{"Acme"})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "first data row lands after the header")

	require.NoError(t, db.UpdateRow(ctx, 2, []string{"Acme Corp"}))
	rows, err := db.ReadRows(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", rows[0][0])

	assert.Error(t, db.UpdateRow(ctx, 99, []string{"x"}))
	assert.Error(t, db.UpdateRow(ctx, 0, []string{"x"}))
}

func TestSaveProspectTool(t *testing.T) {
	db := NewMemoryCustomerDB("")
	tl := NewSaveProspectTool(db)

	out, err := tl.Invoke(context.Background(), prospectArgs("Acme Analytics"))
	require.NoError(t, err)
	assert.Equal(t, "✓ Successfully saved prospect 'Acme Analytics' to database (Row 2)", out)

	rows, err := db.ReadRows(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 12)
	assert.Equal(t, "Acme Analytics", rows[0][0])
	assert.Equal(t, "2025-11-30", rows[0][10])
}

func TestSaveProspectTool_ResearchDateDefaultsToToday(t *testing.T) {
	db := NewMemoryCustomerDB("")
	tl := NewSaveProspectTool(db)

	args := prospectArgs("Acme")
	args["research_date"] = " "
	_, err := tl.Invoke(context.Background(), args)
	require.NoError(t, err)

	rows, err := db.ReadRows(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), rows[0][10])
}

func TestSaveProspectTool_RequiresAllFields(t *testing.T) {
	tl := NewSaveProspectTool(NewMemoryCustomerDB(""))

	_, err := tl.Invoke(context.Background(), map[string]any{"company_name": "Acme"})
	assert.Error(t, err, "missing required fields fail schema validation")
}

func TestUpdateCustomerDBTool(t *testing.T) {
	db := NewMemoryCustomerDB("")
	save := NewSaveProspectTool(db)
	update := NewUpdateCustomerDBTool(db)

	_, err := save.Invoke(context.Background(), prospectArgs("Acme"))
	require.NoError(t, err)

	args := prospectArgs("Acme")
	args["row_number"] = float64(2)
	args["company_stage"] = "Series B, 120 employees"
	out, err := update.Invoke(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, "Successfully updated prospect 'Acme' in row 2 of the database", out)

	rows, err := db.ReadRows(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "Series B, 120 employees", rows[0][4])

	args["row_number"] = float64(42)
	out, err = update.Invoke(context.Background(), args)
	require.NoError(t, err)
	assert.Contains(t, out, "Error updating customer database:")
}

func TestReadCustomerDBTool(t *testing.T) {
	db := NewMemoryCustomerDB("")
	save := NewSaveProspectTool(db)
	read := NewReadCustomerDBTool(db)

	_, err := save.Invoke(context.Background(), prospectArgs("Acme"))
	require.NoError(t, err)

	out, err := read.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Customer Database: Vonga_Customer_DB (Rows 1-100)")
	assert.Contains(t, out, "Row 1: Company Name | Website")
	assert.Contains(t, out, "Row 2: Acme |")
	assert.Contains(t, out, "Total rows shown: 2")

	out, err = read.Invoke(context.Background(), map[string]any{
		"row_start": float64(50), "row_end": float64(60),
	})
	require.NoError(t, err)
	assert.Contains(t, out, "is empty or contains no data in the specified range")
}
