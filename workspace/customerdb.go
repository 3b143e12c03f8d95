package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/billriesner/vongab2b/tool"
)

// Prospect is one row of the customer database, columns A through L in
// order.
type Prospect struct {
	CompanyName    string
	Website        string
	Description    string
	IndustrySector string
	CompanyStage   string
	StrategyAngle  string
	KeyContactName string
	ContactInfo    string
	MarketPosition string
	RecentSignals  string
	ResearchDate   string
	Notes          string
}

// row renders the prospect as the 12-column sheet row.
func (p Prospect) row() []string {
	return []string{
		p.CompanyName, p.Website, p.Description, p.IndustrySector,
		p.CompanyStage, p.StrategyAngle, p.KeyContactName, p.ContactInfo,
		p.MarketPosition, p.RecentSignals, p.ResearchDate, p.Notes,
	}
}

// CustomerDB abstracts the prospect sheet. Row numbers are 1-based and
// include the header row, matching spreadsheet conventions.
type CustomerDB interface {
	Name() string
	ReadRows(ctx context.Context, rowStart, rowEnd int) ([][]string, error)
	AppendRow(ctx context.Context, row []string) (int, error)
	UpdateRow(ctx context.Context, rowNumber int, row []string) error
}

// MemoryCustomerDB is a volatile CustomerDB seeded with a header row.
type MemoryCustomerDB struct {
	mu   sync.RWMutex
	name string
	rows [][]string
}

// NewMemoryCustomerDB constructs a database with the standard header.
func NewMemoryCustomerDB(name string) *MemoryCustomerDB {
	if name == "" {
		name = "Vonga_Customer_DB"
	}
	return &MemoryCustomerDB{
		name: name,
		rows: [][]string{{
			"Company Name", "Website", "Description", "Industry/Sector",
			"Company Stage", "Strategy Angle", "Key Contact", "Contact Info",
			"Market Position", "Recent Signals", "Research Date", "Notes",
		}},
	}
}

func (db *MemoryCustomerDB) Name() string { return db.name }

func (db *MemoryCustomerDB) ReadRows(_ context.Context, rowStart, rowEnd int) ([][]string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if rowStart < 1 {
		rowStart = 1
	}
	if rowEnd > len(db.rows) {
		rowEnd = len(db.rows)
	}
	if rowStart > rowEnd {
		return nil, nil
	}
	out := make([][]string, 0, rowEnd-rowStart+1)
	for i := rowStart - 1; i < rowEnd; i++ {
		out = append(out, append([]string(nil), db.rows[i]...))
	}
	return out, nil
}

func (db *MemoryCustomerDB) AppendRow(_ context.Context, row []string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.rows = append(db.rows, append([]string(nil), row...))
	return len(db.rows), nil
}

func (db *MemoryCustomerDB) UpdateRow(_ context.Context, rowNumber int, row []string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if rowNumber < 1 || rowNumber > len(db.rows) {
		return fmt.Errorf("row %d out of range (database has %d rows)", rowNumber, len(db.rows))
	}
	db.rows[rowNumber-1] = append([]string(nil), row...)
	return nil
}

var prospectFields = []string{
	"company_name", "website", "description", "industry_sector",
	"company_stage", "strategy_angle", "key_contact_name", "contact_info",
	"market_position", "recent_signals", "research_date", "notes",
}

func prospectSchema(extra map[string]any, required []string) map[string]any {
	props := map[string]any{
		"company_name":     map[string]any{"type": "string", "description": "Full legal or commonly used company name"},
		"website":          map[string]any{"type": "string", "description": "Primary website URL"},
		"description":      map[string]any{"type": "string", "description": "2-3 sentence overview: what they do, who they serve, stage/scale"},
		"industry_sector":  map[string]any{"type": "string", "description": "Primary industry or market sector"},
		"company_stage":    map[string]any{"type": "string", "description": "Growth stage or company size (e.g., 'Series A, 50 employees')"},
		"strategy_angle":   map[string]any{"type": "string", "description": "Specific, detailed narrative of how we help them (NOT generic)"},
		"key_contact_name": map[string]any{"type": "string", "description": "Decision maker name with title (e.g., 'Sarah Johnson, CMO')"},
		"contact_info":     map[string]any{"type": "string", "description": "Email, LinkedIn URL, or contact method"},
		"market_position":  map[string]any{"type": "string", "description": "How they compare to competitors, unique positioning"},
		"recent_signals":   map[string]any{"type": "string", "description": "Growth signals, strategic moves, timing indicators"},
		"research_date":    map[string]any{"type": "string", "description": "Date when research was conducted (YYYY-MM-DD); empty defaults to today"},
		"notes":            map[string]any{"type": "string", "description": "Additional insights, risks, opportunities, or context"},
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]any{"type": "object", "properties": props, "required": required}
}

func prospectFromArgs(args map[string]any) Prospect {
	get := func(name string) string {
		v, _ := args[name].(string)
		return v
	}
	p := Prospect{
		CompanyName:    get("company_name"),
		Website:        get("website"),
		Description:    get("description"),
		IndustrySector: get("industry_sector"),
		CompanyStage:   get("company_stage"),
		StrategyAngle:  get("strategy_angle"),
		KeyContactName: get("key_contact_name"),
		ContactInfo:    get("contact_info"),
		MarketPosition: get("market_position"),
		RecentSignals:  get("recent_signals"),
		ResearchDate:   strings.TrimSpace(get("research_date")),
		Notes:          get("notes"),
	}
	if p.ResearchDate == "" {
		p.ResearchDate = time.Now().UTC().Format("2006-01-02")
	}
	return p
}

// CustomerDBTools returns the prospect database tool set over db.
func CustomerDBTools(db CustomerDB) []tool.Tool {
	return []tool.Tool{
		NewReadCustomerDBTool(db),
		NewSaveProspectTool(db),
		NewUpdateCustomerDBTool(db),
	}
}

// NewReadCustomerDBTool reads a row range of the customer database.
func NewReadCustomerDBTool(db CustomerDB) tool.Tool {
	return tool.NewFunctionTool(
		"read_customer_db",
		"Read the customer database to see existing prospects. Useful for checking if a company already "+
			"exists before adding, or reviewing existing prospects. Optional row_start/row_end select the range "+
			"(default: rows 1-100 including the header).",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"row_start": map[string]any{"type": "integer", "description": "Starting row number (default: 1 for header row)"},
				"row_end":   map[string]any{"type": "integer", "description": "Ending row number (default: 100)"},
			},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			rowStart := intFromArgs(args, "row_start", 1)
			rowEnd := intFromArgs(args, "row_end", 100)
			rows, err := db.ReadRows(ctx, rowStart, rowEnd)
			if err != nil {
				return fmt.Sprintf("Error reading customer database: %v", err), nil
			}
			if len(rows) == 0 {
				return fmt.Sprintf("Database '%s' is empty or contains no data in the specified range.", db.Name()), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Customer Database: %s (Rows %d-%d)\n", db.Name(), rowStart, rowEnd)
			b.WriteString(strings.Repeat("=", 80))
			for i, row := range rows {
				fmt.Fprintf(&b, "\nRow %d: %s", rowStart+i, strings.Join(row, " | "))
			}
			fmt.Fprintf(&b, "\n\nTotal rows shown: %d", len(rows))
			return b.String(), nil
		},
	)
}

// NewSaveProspectTool appends a new prospect row.
func NewSaveProspectTool(db CustomerDB) tool.Tool {
	return tool.NewFunctionTool(
		"save_prospect_to_db",
		"Save a prospect company to the customer database as a new row. Requires all 12 fields, columns A "+
			"through L in order. Returns a success message with the row number.",
		prospectSchema(nil, prospectFields),
		func(ctx context.Context, args map[string]any) (string, error) {
			p := prospectFromArgs(args)
			rowNum, err := db.AppendRow(ctx, p.row())
			if err != nil {
				return fmt.Sprintf("Error saving prospect '%s' to database: %v", p.CompanyName, err), nil
			}
			return fmt.Sprintf("✓ Successfully saved prospect '%s' to database (Row %d)", p.CompanyName, rowNum), nil
		},
	)
}

// NewUpdateCustomerDBTool replaces an existing prospect row in full.
func NewUpdateCustomerDBTool(db CustomerDB) tool.Tool {
	required := append([]string{"row_number"}, prospectFields...)
	return tool.NewFunctionTool(
		"update_customer_db",
		"Update an existing prospect record in the customer database. Requires the row_number (use "+
			"read_customer_db first to find it) and ALL 12 fields; the entire row is replaced, so pass "+
			"unchanged values through as-is.",
		prospectSchema(map[string]any{
			"row_number": map[string]any{"type": "integer", "description": "The row number to update"},
		}, required),
		func(ctx context.Context, args map[string]any) (string, error) {
			rowNum := intFromArgs(args, "row_number", 0)
			p := prospectFromArgs(args)
			if err := db.UpdateRow(ctx, rowNum, p.row()); err != nil {
				return fmt.Sprintf("Error updating customer database: %v", err), nil
			}
			return fmt.Sprintf("Successfully updated prospect '%s' in row %d of the database", p.CompanyName, rowNum), nil
		},
	)
}

func intFromArgs(args map[string]any, name string, def int) int {
	switch v := args[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
