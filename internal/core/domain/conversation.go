package domain

import "sync"

// MaxConversationEntries bounds the conversation log.
const MaxConversationEntries = 10

// Role of a conversation entry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry is one line of the conversation log.
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationLog keeps the most recent entries of the ARIA conversation.
type ConversationLog struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

// NewConversationLog returns a log holding at most limit entries.
// A non-positive limit falls back to MaxConversationEntries.
func NewConversationLog(limit int) *ConversationLog {
	if limit <= 0 {
		limit = MaxConversationEntries
	}
	return &ConversationLog{limit: limit}
}

// Record appends a user/assistant exchange and drops the oldest entries
// beyond the limit.
func (l *ConversationLog) Record(userText, reply string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries,
		Entry{Role: RoleUser, Content: userText},
		Entry{Role: RoleAssistant, Content: reply},
	)
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append([]Entry(nil), l.entries[over:]...)
	}
}

// Entries returns a copy of the log, oldest first.
func (l *ConversationLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries held.
func (l *ConversationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
