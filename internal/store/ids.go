package store

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator mints identifiers for entities created during a session.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator prefixes a random UUID, e.g. "p-0b6c…".
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequenceGenerator yields "prefix-1", "prefix-2", … per prefix. Scripts and
// tests use it so traces stay reproducible.
type SequenceGenerator struct {
	next map[string]int
}

// NewSequenceGenerator returns a generator with every counter at zero.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{next: map[string]int{}}
}

// NewID implements IDGenerator.
func (g *SequenceGenerator) NewID(prefix string) string {
	g.next[prefix]++
	return fmt.Sprintf("%s-%d", prefix, g.next[prefix])
}
