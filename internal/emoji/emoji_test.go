package emoji

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestGroupResolve(t *testing.T) {
	g := NewGroup()
	g.Load([]*discordgo.Emoji{
		{ID: "111", Name: "smile"},
		{ID: "222", Name: "party", Animated: true},
	})

	ref, ok := g.Resolve("smile")
	if !ok {
		t.Fatal("Resolve(smile) should hit")
	}
	if ref != "<:smile:111>" {
		t.Errorf("Resolve(smile) = %q, want %q", ref, "<:smile:111>")
	}

	ref, ok = g.Resolve("party")
	if !ok || ref != "<a:party:222>" {
		t.Errorf("Resolve(party) = %q, %v, want animated reference", ref, ok)
	}

	if _, ok := g.Resolve("Smile"); ok {
		t.Error("lookup must be case-sensitive")
	}
	if _, ok := g.Resolve("missing"); ok {
		t.Error("unknown name must miss")
	}
}

func TestGroupLoadReplacesCatalog(t *testing.T) {
	g := NewGroup()
	g.Load([]*discordgo.Emoji{{ID: "1", Name: "old"}})
	g.Load([]*discordgo.Emoji{{ID: "2", Name: "new"}})

	if _, ok := g.Resolve("old"); ok {
		t.Error("reload should drop entries absent from the new catalog")
	}
	if _, ok := g.Resolve("new"); !ok {
		t.Error("reload should pick up new entries")
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}

func TestRewrite(t *testing.T) {
	table := map[string]string{
		"smile": "R",
		"wave":  "W",
	}

	tests := []struct {
		name        string
		content     string
		want        string
		wantChanged bool
	}{
		{
			name:        "single token",
			content:     "hello :smile:",
			want:        "hello R",
			wantChanged: true,
		},
		{
			name:        "repeated token replaced everywhere",
			content:     "hello :smile: world :smile:",
			want:        "hello R world R",
			wantChanged: true,
		},
		{
			name:        "multiple distinct tokens",
			content:     ":wave: then :smile:",
			want:        "W then R",
			wantChanged: true,
		},
		{
			name:    "unknown token untouched",
			content: "hello :unknownname: world",
			want:    "hello :unknownname: world",
		},
		{
			name:        "mixed hit and miss",
			content:     ":smile: :unknownname:",
			want:        "R :unknownname:",
			wantChanged: true,
		},
		{
			name:    "bare double delimiter is never a candidate",
			content: "look ::",
			want:    "look ::",
		},
		{
			name:    "delimiter only on one side",
			content: "half :smile token",
			want:    "half :smile token",
		},
		{
			name:    "no tokens at all",
			content: "plain text",
			want:    "plain text",
		},
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolve := func(name string) (string, bool) {
				ref, ok := table[name]
				return ref, ok
			}

			got, changed := Rewrite(tt.content, resolve)
			if got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("Rewrite() changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestRewriteLooksUpRepeatedTokenOnce(t *testing.T) {
	lookups := 0
	resolve := func(name string) (string, bool) {
		lookups++
		if name == "smile" {
			return "R", true
		}
		return "", false
	}

	got, changed := Rewrite("hello :smile: world :smile:", resolve)
	if got != "hello R world R" {
		t.Errorf("Rewrite() = %q, want %q", got, "hello R world R")
	}
	if !changed {
		t.Error("Rewrite() should report a change")
	}
	if lookups != 1 {
		t.Errorf("resolver called %d times, want 1", lookups)
	}
}
