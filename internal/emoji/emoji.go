// Package emoji resolves :name: tokens against the guild's custom emojis.
package emoji

import (
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Delimiter bounds an emoji token on both sides.
const Delimiter = ':'

// Group is a case-sensitive lookup table from emoji name to the rendered
// reference Discord understands (for example "<a:party:123>"). It is built
// once at startup and reloaded when the guild's emoji set changes.
type Group struct {
	mu     sync.RWMutex
	byName map[string]string
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{byName: make(map[string]string)}
}

// Load replaces the table with the given catalog.
func (g *Group) Load(emojis []*discordgo.Emoji) {
	byName := make(map[string]string, len(emojis))
	for _, e := range emojis {
		byName[e.Name] = e.MessageFormat()
	}

	g.mu.Lock()
	g.byName = byName
	g.mu.Unlock()
}

// Resolve looks up an emoji by name. A miss is a normal outcome, not an
// error; callers leave the token as written.
func (g *Group) Resolve(name string) (string, bool) {
	g.mu.RLock()
	ref, ok := g.byName[name]
	g.mu.RUnlock()
	return ref, ok
}

// Len returns the number of known emojis.
func (g *Group) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.byName)
}

// Names returns the known emoji names, sorted.
func (g *Group) Names() []string {
	g.mu.RLock()
	names := make([]string, 0, len(g.byName))
	for name := range g.byName {
		names = append(names, name)
	}
	g.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Rewrite substitutes resolvable :name: tokens in content and reports
// whether anything changed.
//
// A word is a candidate when its first and last character are the delimiter
// and it is longer than two characters. A hit replaces every occurrence of
// the exact token substring, so later identical tokens are already rewritten
// and cost no second lookup. A miss leaves the token untouched.
func Rewrite(content string, resolve func(name string) (string, bool)) (string, bool) {
	changed := false
	substituted := make(map[string]struct{})

	for _, word := range strings.Fields(content) {
		if len(word) <= 2 || word[0] != Delimiter || word[len(word)-1] != Delimiter {
			continue
		}
		if _, done := substituted[word]; done {
			continue
		}

		ref, ok := resolve(word[1 : len(word)-1])
		if !ok {
			continue
		}

		content = strings.ReplaceAll(content, word, ref)
		substituted[word] = struct{}{}
		changed = true
	}

	return content, changed
}
