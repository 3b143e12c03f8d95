package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/billriesner/vongab2b/internal/util"
	"github.com/billriesner/vongab2b/tool"
)

// Google Workspace mime types used in drive queries and search results.
const (
	MimeDocument    = "application/vnd.google-apps.document"
	MimeSpreadsheet = "application/vnd.google-apps.spreadsheet"
)

// FileInfo is the drive search-result view of a file.
type FileInfo struct {
	ID       string
	Name     string
	MimeType string
	Link     string
}

// Doc is a loaded text document.
type Doc struct {
	ID    string
	Title string
	Text  string
}

// SheetData is a loaded spreadsheet range.
type SheetData struct {
	Name  string
	Tab   string
	Range string
	Tabs  []string
	Rows  [][]string
}

// DriveService abstracts file storage: searching files, reading and writing
// documents, and reading spreadsheet ranges.
type DriveService interface {
	SearchFiles(ctx context.Context, query string, maxResults int) ([]FileInfo, error)
	ReadDoc(ctx context.Context, fileID string) (*Doc, error)
	CreateDoc(ctx context.Context, title string) (*Doc, error)
	AppendDoc(ctx context.Context, fileID, text string) error
	ReadSheet(ctx context.Context, fileID, rangeName string) (*SheetData, error)
}

// FindDocByName resolves a document by searching for its name and reading
// the first match.
func FindDocByName(ctx context.Context, svc DriveService, name string) (*Doc, error) {
	files, err := svc.SearchFiles(ctx, fmt.Sprintf("name contains '%s'", name), 1)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("document %q not found", name)
	}
	return svc.ReadDoc(ctx, files[0].ID)
}

// MemoryDrive is a volatile DriveService. File search matches any quoted
// substring of the query against file names, falling back to the whole
// query when nothing is quoted.
type MemoryDrive struct {
	mu     sync.RWMutex
	docs   map[string]*Doc
	sheets map[string]*memorySheetFile
	names  map[string]string // file id -> name
	order  []string
}

type memorySheetFile struct {
	name string
	tabs []string
	rows map[string][][]string // tab name -> rows
}

// NewMemoryDrive constructs an empty drive.
func NewMemoryDrive() *MemoryDrive {
	return &MemoryDrive{
		docs:   make(map[string]*Doc),
		sheets: make(map[string]*memorySheetFile),
		names:  make(map[string]string),
	}
}

// AddDoc seeds a document and returns its id.
func (d *MemoryDrive) AddDoc(title, text string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := util.NewID()
	d.docs[id] = &Doc{ID: id, Title: title, Text: text}
	d.names[id] = title
	d.order = append(d.order, id)
	return id
}

// AddSheet seeds a single-tab spreadsheet and returns its id.
func (d *MemoryDrive) AddSheet(name, tab string, rows [][]string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := util.NewID()
	d.sheets[id] = &memorySheetFile{name: name, tabs: []string{tab}, rows: map[string][][]string{tab: rows}}
	d.names[id] = name
	d.order = append(d.order, id)
	return id
}

func (d *MemoryDrive) SearchFiles(_ context.Context, query string, maxResults int) ([]FileInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	needles := quotedParts(query)
	if len(needles) == 0 {
		needles = []string{strings.TrimSpace(query)}
	}

	var out []FileInfo
	for _, id := range d.order {
		name := d.names[id]
		if !matchesAny(name, needles) {
			continue
		}
		mime := MimeDocument
		if _, ok := d.sheets[id]; ok {
			mime = MimeSpreadsheet
		}
		out = append(out, FileInfo{ID: id, Name: name, MimeType: mime})
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

func (d *MemoryDrive) ReadDoc(_ context.Context, fileID string) (*Doc, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	doc, ok := d.docs[fileID]
	if !ok {
		return nil, fmt.Errorf("document %s not found", fileID)
	}
	cp := *doc
	return &cp, nil
}

func (d *MemoryDrive) CreateDoc(_ context.Context, title string) (*Doc, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := util.NewID()
	doc := &Doc{ID: id, Title: title}
	d.docs[id] = doc
	d.names[id] = title
	d.order = append(d.order, id)
	cp := *doc
	return &cp, nil
}

func (d *MemoryDrive) AppendDoc(_ context.Context, fileID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.docs[fileID]
	if !ok {
		return fmt.Errorf("document %s not found", fileID)
	}
	if doc.Text != "" {
		doc.Text += "\n"
	}
	doc.Text += text
	return nil
}

func (d *MemoryDrive) ReadSheet(_ context.Context, fileID, rangeName string) (*SheetData, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sheet, ok := d.sheets[fileID]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %s not found", fileID)
	}

	tab := sheet.tabs[0]
	if i := strings.Index(rangeName, "!"); i > 0 {
		tab = rangeName[:i]
	}
	rows, ok := sheet.rows[tab]
	if !ok {
		return nil, fmt.Errorf("tab %q not found in spreadsheet %s", tab, sheet.name)
	}

	if rangeName == "" {
		rangeName = tab + "!A1:Z1000"
	}
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return &SheetData{Name: sheet.name, Tab: tab, Range: rangeName, Tabs: append([]string(nil), sheet.tabs...), Rows: copied}, nil
}

func quotedParts(s string) []string {
	var out []string
	for _, sep := range []string{`'`, `"`} {
		parts := strings.Split(s, sep)
		for i := 1; i < len(parts); i += 2 {
			if p := strings.TrimSpace(parts[i]); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func matchesAny(name string, needles []string) bool {
	lower := strings.ToLower(name)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// DriveTools returns the document tool set over svc.
func DriveTools(svc DriveService) []tool.Tool {
	return []tool.Tool{
		NewDriveSearchTool(svc),
		NewDriveReadDocTool(svc),
		NewDriveReadSheetTool(svc),
		NewDriveCreateDocTool(svc),
		NewDriveAppendDocTool(svc),
	}
}

// NewDriveSearchTool searches files by drive query syntax.
func NewDriveSearchTool(svc DriveService) tool.Tool {
	return tool.NewFunctionTool(
		"drive_search",
		"Search for files in Google Drive. Use Google Drive query syntax: "+
			"name contains 'text' for filename matches, fullText contains 'text' for content, "+
			"mimeType='"+MimeDocument+"' for Docs, mimeType='"+MimeSpreadsheet+"' for Sheets. "+
			"Do NOT include file extensions like .gsheet or .gdoc, these don't exist in Drive.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":       map[string]any{"type": "string", "description": "Search query for files (e.g., name contains 'report')"},
				"max_results": map[string]any{"type": "integer", "description": "Maximum number of results to return (default 10)"},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			maxResults := 10
			if v, ok := args["max_results"].(float64); ok && v > 0 {
				maxResults = int(v)
			}
			files, err := svc.SearchFiles(ctx, query, maxResults)
			if err != nil {
				return fmt.Sprintf("Error searching Drive: %v", err), nil
			}
			if len(files) == 0 {
				return fmt.Sprintf("No files found matching query: %s", query), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Found %d files:", len(files))
			for _, f := range files {
				fmt.Fprintf(&b, "\n- %s (ID: %s, Type: %s)", f.Name, f.ID, f.MimeType)
			}
			b.WriteString("\n\nTo read a file:")
			b.WriteString("\n- For Google Docs: use the file ID with drive_read_doc tool")
			b.WriteString("\n- For Google Sheets: use the file ID with drive_read_sheet tool")
			return b.String(), nil
		},
	)
}

// NewDriveReadDocTool reads a document's text content.
func NewDriveReadDocTool(svc DriveService) tool.Tool {
	return tool.NewFunctionTool(
		"drive_read_doc",
		"Read the text content from a Google Doc by its file ID.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_id": map[string]any{"type": "string", "description": "The ID of the Google Doc file to read"},
			},
			"required": []string{"file_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id, _ := args["file_id"].(string)
			doc, err := svc.ReadDoc(ctx, id)
			if err != nil {
				return fmt.Sprintf("Error reading document: %v", err), nil
			}
			return fmt.Sprintf("Document: %s\n\nContent:\n%s", doc.Title, doc.Text), nil
		},
	)
}

// NewDriveCreateDocTool creates an empty document.
func NewDriveCreateDocTool(svc DriveService) tool.Tool {
	return tool.NewFunctionTool(
		"drive_create_doc",
		"Create a new Google Doc with the specified title.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string", "description": "Title of the new Google Doc"},
			},
			"required": []string{"title"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			title, _ := args["title"].(string)
			doc, err := svc.CreateDoc(ctx, title)
			if err != nil {
				return fmt.Sprintf("Error creating document: %v", err), nil
			}
			return fmt.Sprintf("Google Doc created successfully! Title: %s, ID: %s", doc.Title, doc.ID), nil
		},
	)
}

// NewDriveAppendDocTool appends text to the end of a document.
func NewDriveAppendDocTool(svc DriveService) tool.Tool {
	return tool.NewFunctionTool(
		"drive_append_doc",
		"Append text to the end of an existing Google Doc.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_id": map[string]any{"type": "string", "description": "The ID of the Google Doc to append to"},
				"text":    map[string]any{"type": "string", "description": "Text to append to the document"},
			},
			"required": []string{"file_id", "text"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id, _ := args["file_id"].(string)
			text, _ := args["text"].(string)
			if err := svc.AppendDoc(ctx, id, text); err != nil {
				return fmt.Sprintf("Error appending to document: %v", err), nil
			}
			return fmt.Sprintf("Text appended successfully to document %s", id), nil
		},
	)
}

// NewDriveReadSheetTool reads a spreadsheet range, defaulting to the first
// tab when no range is supplied.
func NewDriveReadSheetTool(svc DriveService) tool.Tool {
	return tool.NewFunctionTool(
		"drive_read_sheet",
		"Read the content from a Google Sheet by its file ID. To read a specific tab use 'TabName!A1:Z1000'; "+
			"leave range_name empty to read the first tab. All tabs in the spreadsheet are accessible.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_id":    map[string]any{"type": "string", "description": "The ID of the Google Sheet file to read"},
				"range_name": map[string]any{"type": "string", "description": "Range to read (e.g. 'Sheet1!A1:Z100'); empty reads the first tab"},
			},
			"required": []string{"file_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id, _ := args["file_id"].(string)
			rangeName, _ := args["range_name"].(string)
			sheet, err := svc.ReadSheet(ctx, id, rangeName)
			if err != nil {
				return fmt.Sprintf("Error reading sheet: %v", err), nil
			}
			if len(sheet.Rows) == 0 {
				return fmt.Sprintf("Spreadsheet '%s' - Range '%s' is empty or contains no data. Available tabs: %s",
					sheet.Name, sheet.Range, strings.Join(sheet.Tabs, ", ")), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Spreadsheet: %s\n", sheet.Name)
			fmt.Fprintf(&b, "Tab/Sheet: %s\n", sheet.Tab)
			fmt.Fprintf(&b, "Range: %s\n", sheet.Range)
			if len(sheet.Tabs) > 1 {
				fmt.Fprintf(&b, "Available tabs: %s\n", strings.Join(sheet.Tabs, ", "))
			}
			for _, row := range sheet.Rows {
				b.WriteString("\n" + strings.Join(row, " | "))
			}
			return b.String(), nil
		},
	)
}
