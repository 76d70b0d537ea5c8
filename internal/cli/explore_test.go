package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/layout"
)

func exploreTree() *document.LayoutNode {
	root := &document.LayoutNode{ID: 1, Name: "root"}
	for i, name := range []string{"a", "b", "c"} {
		n := &document.LayoutNode{ID: layout.NodeID(i + 2), Name: name}
		n.Layout.Size.Width = 10
		n.Absolute.X = float32(10 * i)
		root.Children = append(root.Children, n)
	}
	root.Children[2].Text = "hello"
	return root
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestExploreNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"start", nil, 0},
		{"down", []string{"down", "j"}, 2},
		{"clamped at end", []string{"j", "j", "j", "j", "j"}, 3},
		{"clamped at start", []string{"up", "k"}, 0},
		{"last then first", []string{"G", "g"}, 0},
		{"last", []string{"G"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(newExploreModel(exploreTree()), tt.keys...).(exploreModel)
			if m.cursor != tt.want {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.want)
			}
		})
	}
}

func TestExploreScroll(t *testing.T) {
	m := tea.Model(newExploreModel(exploreTree()))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	em := m.(exploreModel)
	if em.height != 5 {
		t.Fatalf("height = %d, want 5", em.height)
	}
	em.height = 2
	em = press(em, "j", "j", "j").(exploreModel)
	if em.offset != 2 {
		t.Errorf("offset = %d, want 2", em.offset)
	}
	em = press(em, "k", "k", "k").(exploreModel)
	if em.offset != 0 {
		t.Errorf("offset = %d, want 0", em.offset)
	}
}

func TestExploreQuit(t *testing.T) {
	_, cmd := newExploreModel(exploreTree()).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command = %T, want tea.QuitMsg", cmd())
	}
}

func TestExploreView(t *testing.T) {
	m := press(newExploreModel(exploreTree()), "G")
	view := m.View()
	for _, want := range []string{"root", `"hello"`, "[4/4]", "10 × 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q\n%s", want, view)
		}
	}
}
