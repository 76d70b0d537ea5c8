package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/geom"
)

// exploreCommand creates the explore command, an interactive browser over
// a computed layout.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags docFlags

	cmd := &cobra.Command{
		Use:   "explore <doc>",
		Short: "Browse a document's computed layout interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.build(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			root, err := document.Export(b)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newExploreModel(root), tea.WithContext(cmd.Context()), tea.WithOutput(c.out))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// exploreModel - node list with a detail pane
// =============================================================================

type exploreRow struct {
	node  *document.LayoutNode
	depth int
}

type exploreModel struct {
	rows   []exploreRow
	cursor int
	offset int
	height int
}

func newExploreModel(root *document.LayoutNode) exploreModel {
	m := exploreModel{height: 15}
	root.Walk(func(n *document.LayoutNode, depth int) {
		m.rows = append(m.rows, exploreRow{node: n, depth: depth})
	})
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "home", "g":
			m.cursor, m.offset = 0, 0
		case "end", "G":
			m.cursor = len(m.rows) - 1
			if m.cursor >= m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 16
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Layout"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		l := r.node.Layout
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", r.depth) + r.node.Label(),
			num(r.node.Absolute.X),
			num(r.node.Absolute.Y),
			num(l.Size.Width),
			num(l.Size.Height),
		})
	}

	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "X", "Y", "W", "H").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return header
			}
			if m.offset+row == m.cursor {
				return styleSelected
			}
			return styleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.rows) > 0 {
		b.WriteString(m.detail(m.rows[m.cursor].node))
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))

	return b.String()
}

// detail renders the full layout of n.
func (m exploreModel) detail(n *document.LayoutNode) string {
	l := n.Layout
	lines := []string{
		keyValue("id", strconv.FormatUint(uint64(n.ID), 10)),
		keyValue("order", strconv.FormatUint(uint64(l.Order), 10)),
		keyValue("location", num(l.Location.X)+", "+num(l.Location.Y)),
		keyValue("size", num(l.Size.Width)+" × "+num(l.Size.Height)),
		keyValue("content", num(l.ContentSize.Width)+" × "+num(l.ContentSize.Height)),
		keyValue("scrollbar", num(l.ScrollbarSize.Width)+" × "+num(l.ScrollbarSize.Height)),
		keyValue("border", edges(l.Border)),
		keyValue("padding", edges(l.Padding)),
	}
	if n.Text != "" {
		lines = append(lines, keyValue("text", strconv.Quote(n.Text)))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorDim).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func num(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// edges formats a rect in top, right, bottom, left order.
func edges(r geom.Rect[float32]) string {
	return strings.Join([]string{num(r.Top), num(r.Right), num(r.Bottom), num(r.Left)}, " ")
}
