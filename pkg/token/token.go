// Package token interns render style and option names as small integers.
package token

import "sync"

// Token is an interned name. The zero Token is never minted.
type Token uint32

// None is the unset token.
const None Token = 0

// Well-known classes.
const (
	RenderFormat = "Render Format"
	RenderOption = "Render Option"
)

type key struct {
	class string
	name  string
}

// Table mints tokens per (class, name). Tokens are unique across classes.
type Table struct {
	mu      sync.RWMutex
	byKey   map[key]Token
	entries []key
	classes map[string][]Token
}

func NewTable() *Table {
	return &Table{
		byKey:   make(map[key]Token),
		entries: []key{{}},
		classes: make(map[string][]Token),
	}
}

var defaultTable = sync.OnceValue(NewTable)

// Default is the process-wide table.
func Default() *Table { return defaultTable() }

// Get returns the token for name within class, minting one if unseen.
func (t *Table) Get(class, name string) Token {
	k := key{class, name}
	t.mu.RLock()
	tok, ok := t.byKey[k]
	t.mu.RUnlock()
	if ok {
		return tok
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if tok, ok := t.byKey[k]; ok {
		return tok
	}
	tok = Token(len(t.entries))
	t.entries = append(t.entries, k)
	t.byKey[k] = tok
	t.classes[class] = append(t.classes[class], tok)
	return tok
}

// Lookup returns the token without minting.
func (t *Table) Lookup(class, name string) (Token, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tok, ok := t.byKey[key{class, name}]
	return tok, ok
}

// Names returns the names minted in class, in minting order.
func (t *Table) Names(class string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	toks := t.classes[class]
	names := make([]string, len(toks))
	for i, tok := range toks {
		names[i] = t.entries[tok].name
	}
	return names
}

// Tokens returns the tokens minted in class, in minting order.
func (t *Table) Tokens(class string) []Token {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Token(nil), t.classes[class]...)
}

func (t *Table) Name(tok Token) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(tok) >= len(t.entries) {
		return ""
	}
	return t.entries[tok].name
}

func (t *Table) Class(tok Token) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(tok) >= len(t.entries) {
		return ""
	}
	return t.entries[tok].class
}
