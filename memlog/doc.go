package memlog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Document is an external append-only text sink addressed by character
// index, e.g. a shared memory document. The log appends by fetching the
// current end index and inserting there.
//
// Known limitation: the read-then-insert pattern is not safe under
// concurrent writers to the same document: interleaved writers can corrupt
// entry ordering. The sink offers no locking or versioning; callers that
// need strict ordering must serialize writers themselves.
type Document interface {
	// EndIndex returns the index one past the last character.
	EndIndex(ctx context.Context) (int, error)
	// InsertAt inserts text at the given character index.
	InsertAt(ctx context.Context, index int, text string) error
}

// DocLog formats actions and conversation turns as human-readable blocks
// and appends them to a Document.
type DocLog struct {
	doc Document
	now func() time.Time
}

// DocLogOption customizes a DocLog.
type DocLogOption func(*DocLog)

// WithClock overrides the time source, used by tests for stable timestamps.
func WithClock(now func() time.Time) DocLogOption {
	return func(l *DocLog) { l.now = now }
}

// NewDocLog creates a DocLog writing to doc.
func NewDocLog(doc Document, opts ...DocLogOption) *DocLog {
	l := &DocLog{doc: doc, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LogAction appends one action entry:
//
//	[<assistant> Action Log <ts>] <action> - <details>
func (l *DocLog) LogAction(ctx context.Context, assistant, action, details string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s Action Log %s] %s", assistant, timestamp(l.now()), action)
	if details != "" {
		fmt.Fprintf(&b, " - %s", details)
	}
	b.WriteString("\n")
	return l.append(ctx, b.String())
}

// LogConversation appends one conversation block:
//
//	--- <assistant> Conversation Log (<ts>) ---
//	User: <userText>
//
//	<assistant>: <responseText>
//	--- End of Log Entry ---
func (l *DocLog) LogConversation(ctx context.Context, assistant, userText, responseText string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n--- %s Conversation Log (%s) ---\n", assistant, timestamp(l.now()))
	fmt.Fprintf(&b, "User: %s\n\n", userText)
	fmt.Fprintf(&b, "%s: %s\n", assistant, responseText)
	b.WriteString("--- End of Log Entry ---\n")
	return l.append(ctx, b.String())
}

// append fetches the current end of the document and inserts there.
// Unlocked read-then-insert; see the Document doc comment.
func (l *DocLog) append(ctx context.Context, text string) error {
	end, err := l.doc.EndIndex(ctx)
	if err != nil {
		return fmt.Errorf("fetch document end: %w", err)
	}
	if err := l.doc.InsertAt(ctx, end, text); err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// MemoryDocument is a volatile in-process Document, used in tests and
// ephemeral setups.
type MemoryDocument struct {
	mu   sync.Mutex
	text []rune
}

// NewMemoryDocument creates an empty in-memory document, optionally seeded
// with a title header the way the external memory doc is initialized.
func NewMemoryDocument(header string) *MemoryDocument {
	d := &MemoryDocument{}
	if header != "" {
		d.text = []rune(header + "\n\n")
	}
	return d
}

// EndIndex implements Document.
func (d *MemoryDocument) EndIndex(context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.text), nil
}

// InsertAt implements Document.
func (d *MemoryDocument) InsertAt(_ context.Context, index int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index > len(d.text) {
		return fmt.Errorf("insert index %d out of range [0,%d]", index, len(d.text))
	}
	ins := []rune(text)
	d.text = append(d.text[:index], append(ins, d.text[index:]...)...)
	return nil
}

// String returns the full document text.
func (d *MemoryDocument) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.text)
}
