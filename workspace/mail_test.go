package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMailbox() *MemoryMailbox {
	return NewMemoryMailbox(
		MailMessage{
			ID:      "m1",
			Subject: "Q4 Planning Meeting",
			From:    "sarah@example.com",
			To:      "bill@vonga.io",
			Date:    "2025-11-28",
			Body:    "Let's lock the agenda for Q4 planning.",
		},
		MailMessage{
			ID:      "m2",
			Subject: "Invoice #4711",
			From:    "billing@vendor.com",
			To:      "bill@vonga.io",
			Date:    "2025-11-29",
			Body:    "Your invoice is attached.",
		},
	)
}

func TestMemoryMailbox_Search(t *testing.T) {
	box := seedMailbox()

	hits, err := box.Search(context.Background(), "planning")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "m1", hits[0].ID)

	// Sender and body match too.
	hits, err = box.Search(context.Background(), "vendor.com")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "m2", hits[0].ID)

	hits, err = box.Search(context.Background(), "nothing here")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryMailbox_Read(t *testing.T) {
	box := seedMailbox()

	m, err := box.Read(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Q4 Planning Meeting", m.Subject)

	_, err = box.Read(context.Background(), "missing")
	assert.Error(t, err)
}

func TestMailSearchTool(t *testing.T) {
	tl := NewMailSearchTool(seedMailbox())

	out, err := tl.Invoke(context.Background(), map[string]any{"query": "invoice"})
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 messages:")
	assert.Contains(t, out, "- ID: m2, Subject: Invoice #4711, From: billing@vendor.com, Date: 2025-11-29")

	out, err = tl.Invoke(context.Background(), map[string]any{"query": "zebra"})
	require.NoError(t, err)
	assert.Equal(t, "No messages found for query: zebra", out)
}

func TestMailReadTool(t *testing.T) {
	tl := NewMailReadTool(seedMailbox())

	out, err := tl.Invoke(context.Background(), map[string]any{"message_id": "m1"})
	require.NoError(t, err)
	assert.Contains(t, out, "Email Details:")
	assert.Contains(t, out, "Subject: Q4 Planning Meeting")
	assert.Contains(t, out, "Body:\nLet's lock the agenda for Q4 planning.")

	out, err = tl.Invoke(context.Background(), map[string]any{"message_id": "missing"})
	require.NoError(t, err)
	assert.Contains(t, out, "Error reading email:")
}

func TestMailDraftTool_NeverSends(t *testing.T) {
	box := seedMailbox()
	tl := NewMailDraftTool(box)

	out, err := tl.Invoke(context.Background(), map[string]any{
		"to":      "sarah@example.com",
		"subject": "Re: Q4 Planning Meeting",
		"body":    "Works for me.",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Draft created successfully! Draft ID: ")
	assert.Contains(t, out, "can be reviewed before sending")

	drafts := box.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "sarah@example.com", drafts[0].To)
	assert.Equal(t, "Re: Q4 Planning Meeting", drafts[0].Subject)
}

func TestMailTools_Names(t *testing.T) {
	tools := MailTools(seedMailbox())
	require.Len(t, tools, 3)
	assert.Equal(t, "gmail_search", tools[0].Name())
	assert.Equal(t, "gmail_read", tools[1].Name())
	assert.Equal(t, "gmail_draft", tools[2].Name())
}
