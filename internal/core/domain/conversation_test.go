package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/survivetrack/internal/core/domain"
)

func TestConversationLog_Bounded(t *testing.T) {
	log := domain.NewConversationLog(0)

	for i := 0; i < 8; i++ {
		log.Record(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		assert.LessOrEqual(t, log.Len(), domain.MaxConversationEntries)
	}

	entries := log.Entries()
	assert.Len(t, entries, 10)
	assert.Equal(t, domain.Entry{Role: domain.RoleUser, Content: "q3"}, entries[0])
	assert.Equal(t, domain.Entry{Role: domain.RoleAssistant, Content: "a7"}, entries[9])
}

func TestPriority_Rank(t *testing.T) {
	assert.Less(t, domain.PriorityCritical.Rank(), domain.PriorityHigh.Rank())
	assert.Less(t, domain.PriorityHigh.Rank(), domain.PriorityMedium.Rank())
	assert.Equal(t, len(domain.Priorities), domain.Priority("LOW").Rank())
}
