package transform

import (
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator produces apply tokens used to correlate the log lines of
// one top-level transform application.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 apply tokens, so log
// lines sort by application time.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens for deterministic tests.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order and
// panics when exhausted, which fails fast on tests consuming more tokens
// than they declared.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("transform: fixed token generator exhausted")
	}
	t := g.tokens[g.idx]
	g.idx++
	return t
}

var (
	tokenMu sync.RWMutex
	tokens  TokenGenerator = UUIDv7Generator{}
)

// SetTokenGenerator replaces the package token generator and returns a
// restore function. Intended for tests.
func SetTokenGenerator(g TokenGenerator) (restore func()) {
	tokenMu.Lock()
	prev := tokens
	tokens = g
	tokenMu.Unlock()
	return func() {
		tokenMu.Lock()
		tokens = prev
		tokenMu.Unlock()
	}
}

func nextToken() string {
	tokenMu.RLock()
	defer tokenMu.RUnlock()
	return tokens.Generate()
}
