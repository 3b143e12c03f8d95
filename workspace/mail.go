package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/billriesner/vongab2b/internal/util"
	"github.com/billriesner/vongab2b/tool"
)

// MailSummary is the search-result view of a message.
type MailSummary struct {
	ID      string
	Subject string
	From    string
	Date    string
}

// MailMessage is a fully loaded message.
type MailMessage struct {
	ID      string
	Subject string
	From    string
	To      string
	Date    string
	Body    string
}

// MailService abstracts the mailbox. Drafts are never sent by the engine;
// CreateDraft only stores them for human review.
type MailService interface {
	Search(ctx context.Context, query string) ([]MailSummary, error)
	Read(ctx context.Context, messageID string) (*MailMessage, error)
	CreateDraft(ctx context.Context, to, subject, body string) (string, error)
}

// MemoryMailbox is a volatile MailService for tests and offline use.
// Search matches the query as a case-insensitive substring of subject,
// sender or body.
type MemoryMailbox struct {
	mu       sync.RWMutex
	messages []MailMessage
	drafts   []MailMessage
}

// NewMemoryMailbox seeds a mailbox with the given messages.
func NewMemoryMailbox(messages ...MailMessage) *MemoryMailbox {
	box := &MemoryMailbox{}
	for _, m := range messages {
		if m.ID == "" {
			m.ID = util.NewID()
		}
		box.messages = append(box.messages, m)
	}
	return box
}

func (b *MemoryMailbox) Search(_ context.Context, query string) ([]MailSummary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q := strings.ToLower(query)
	var out []MailSummary
	for _, m := range b.messages {
		if strings.Contains(strings.ToLower(m.Subject), q) ||
			strings.Contains(strings.ToLower(m.From), q) ||
			strings.Contains(strings.ToLower(m.Body), q) {
			out = append(out, MailSummary{ID: m.ID, Subject: m.Subject, From: m.From, Date: m.Date})
		}
	}
	return out, nil
}

func (b *MemoryMailbox) Read(_ context.Context, messageID string) (*MailMessage, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := range b.messages {
		if b.messages[i].ID == messageID {
			m := b.messages[i]
			return &m, nil
		}
	}
	return nil, fmt.Errorf("message %s not found", messageID)
}

func (b *MemoryMailbox) CreateDraft(_ context.Context, to, subject, body string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	draft := MailMessage{ID: util.NewID(), To: to, Subject: subject, Body: body}
	b.drafts = append(b.drafts, draft)
	return draft.ID, nil
}

// Drafts returns the stored drafts, for assertions.
func (b *MemoryMailbox) Drafts() []MailMessage {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]MailMessage, len(b.drafts))
	copy(out, b.drafts)
	return out
}

// MailTools returns the mail tool set over svc.
func MailTools(svc MailService) []tool.Tool {
	return []tool.Tool{
		NewMailSearchTool(svc),
		NewMailReadTool(svc),
		NewMailDraftTool(svc),
	}
}

// NewMailSearchTool searches messages and returns ids with basic info.
func NewMailSearchTool(svc MailService) tool.Tool {
	return tool.NewFunctionTool(
		"gmail_search",
		"Search Gmail messages using Gmail search syntax. Returns a list of message IDs and basic info.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Gmail search query (e.g., 'from:example@email.com', 'subject:meeting')"},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			messages, err := svc.Search(ctx, query)
			if err != nil {
				return fmt.Sprintf("Error searching Gmail: %v", err), nil
			}
			if len(messages) == 0 {
				return fmt.Sprintf("No messages found for query: %s", query), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Found %d messages:", len(messages))
			for _, m := range messages {
				fmt.Fprintf(&b, "\n- ID: %s, Subject: %s, From: %s, Date: %s", m.ID, m.Subject, m.From, m.Date)
			}
			return b.String(), nil
		},
	)
}

// NewMailReadTool reads one message in full.
func NewMailReadTool(svc MailService) tool.Tool {
	return tool.NewFunctionTool(
		"gmail_read",
		"Read the full content of a specific Gmail message by its ID.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message_id": map[string]any{"type": "string", "description": "The ID of the email message to read"},
			},
			"required": []string{"message_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id, _ := args["message_id"].(string)
			m, err := svc.Read(ctx, id)
			if err != nil {
				return fmt.Sprintf("Error reading email: %v", err), nil
			}
			return fmt.Sprintf("Email Details:\nSubject: %s\nFrom: %s\nTo: %s\nDate: %s\n\nBody:\n%s",
				m.Subject, m.From, m.To, m.Date, m.Body), nil
		},
	)
}

// NewMailDraftTool stores a draft without sending.
func NewMailDraftTool(svc MailService) tool.Tool {
	return tool.NewFunctionTool(
		"gmail_draft",
		"Create a draft email in Gmail. The email will NOT be sent automatically - it will only be saved as a draft.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"to":      map[string]any{"type": "string", "description": "Recipient email address(es), comma-separated for multiple"},
				"subject": map[string]any{"type": "string", "description": "Email subject line"},
				"body":    map[string]any{"type": "string", "description": "Email body text (plain text or HTML)"},
			},
			"required": []string{"to", "subject", "body"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			to, _ := args["to"].(string)
			subject, _ := args["subject"].(string)
			body, _ := args["body"].(string)
			draftID, err := svc.CreateDraft(ctx, to, subject, body)
			if err != nil {
				return fmt.Sprintf("Error creating draft: %v", err), nil
			}
			return fmt.Sprintf("Draft created successfully! Draft ID: %s. The draft has been saved to Gmail and can be reviewed before sending.", draftID), nil
		},
	)
}
