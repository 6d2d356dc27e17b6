package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	kio "github.com/matzehuels/kleviz/pkg/io"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// pickItem is one discovered layout file offered by the picker.
type pickItem struct {
	Path string
	Name string
	Keys int
	Err  error
}

// loadPickItems parses every path so the picker can show names and key
// counts. Unreadable layouts stay in the list but cannot be selected.
func loadPickItems(paths []string) []pickItem {
	items := make([]pickItem, len(paths))
	for i, p := range paths {
		items[i].Path = p
		kb, err := kio.ImportLayout(p)
		if err != nil {
			items[i].Err = err
			continue
		}
		items[i].Name = kb.Meta.Name
		items[i].Keys = len(kb.Keys)
	}
	return items
}

// =============================================================================
// LayoutListModel - Interactive layout selection
// =============================================================================

// LayoutListModel is the bubbletea model for picking layouts to render.
// Space marks an entry, enter confirms the marked entries (or the one under
// the cursor when nothing is marked).
type LayoutListModel struct {
	Items    []pickItem
	Marked   []bool
	Cursor   int
	Height   int
	Offset   int
	Selected []string
	Aborted  bool
}

// NewLayoutListModel creates a new layout list model.
func NewLayoutListModel(items []pickItem) LayoutListModel {
	return LayoutListModel{
		Items:  items,
		Marked: make([]bool, len(items)),
		Height: 15,
	}
}

func (m LayoutListModel) Init() tea.Cmd {
	return nil
}

func (m LayoutListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			if len(m.Items) > 0 && m.Items[m.Cursor].Err == nil {
				m.Marked = toggled(m.Marked, m.Cursor)
			}
		case "a":
			m.Marked = m.toggleAll()
		case "enter":
			m.Selected = m.selection()
			if len(m.Selected) == 0 {
				return m, nil
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func toggled(marked []bool, i int) []bool {
	out := append([]bool(nil), marked...)
	out[i] = !out[i]
	return out
}

// toggleAll marks every selectable item, or clears the marks when all of
// them are already marked.
func (m LayoutListModel) toggleAll() []bool {
	all := true
	for i, it := range m.Items {
		if it.Err == nil && !m.Marked[i] {
			all = false
			break
		}
	}
	out := make([]bool, len(m.Items))
	if !all {
		for i, it := range m.Items {
			out[i] = it.Err == nil
		}
	}
	return out
}

func (m LayoutListModel) selection() []string {
	var paths []string
	for i, it := range m.Items {
		if m.Marked[i] {
			paths = append(paths, it.Path)
		}
	}
	if len(paths) == 0 && len(m.Items) > 0 && m.Items[m.Cursor].Err == nil {
		paths = append(paths, m.Items[m.Cursor].Path)
	}
	return paths
}

func (m LayoutListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layouts"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ mark  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "○"
		if m.Marked[i] {
			mark = "●"
		}

		name, keys := it.Name, strconv.Itoa(it.Keys)
		if it.Err != nil {
			mark, name, keys = " ", "invalid", "—"
		}
		if name == "" {
			name = "—"
		}
		rows = append(rows, []string{cursor, mark, filepath.ToSlash(it.Path), name, keys})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "File", "Name", "Keys").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Items[idx].Err != nil {
				return base.Foreground(colorDim)
			}
			if col == 4 {
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			if m.Marked[idx] {
				return base.Foreground(colorCyan)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	marked := 0
	for _, v := range m.Marked {
		if v {
			marked++
		}
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d marked", m.Cursor+1, len(m.Items), marked)))

	return b.String()
}

// pickLayouts runs the picker over paths and returns the chosen ones. An
// aborted picker returns no paths and no error.
func pickLayouts(ctx context.Context, paths []string, in io.Reader, out io.Writer) ([]string, error) {
	p := tea.NewProgram(
		NewLayoutListModel(loadPickItems(paths)),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, tea.ErrProgramKilled) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("layout picker: %w", err)
	}
	m, ok := final.(LayoutListModel)
	if !ok || m.Aborted {
		return nil, nil
	}
	return m.Selected, nil
}
