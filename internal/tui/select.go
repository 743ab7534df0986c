// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmiller/grimoire/internal/metadata"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected a record.
	ActionSelected
	// ActionSkipped indicates the user skipped the selection.
	ActionSkipped
)

// SelectionResult holds the result of a TUI selection.
type SelectionResult struct {
	Action    SelectionAction
	Selection *metadata.Record
}

type recordItem struct {
	*metadata.Record
}

func (i recordItem) Title() string {
	return i.Record.Title
}

func (i recordItem) FilterValue() string {
	return i.Record.Title
}

func (i recordItem) Description() string {
	if i.Record.Description == nil {
		return ""
	}
	return *i.Record.Description
}

type itemStyles struct {
	normal      lipgloss.Style
	selected    lipgloss.Style
	siteStyle   lipgloss.Style
	titleStyle  lipgloss.Style
	scoreStyle  lipgloss.Style
	detailStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		siteStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		scoreStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		detailStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type recordDelegate struct {
	styles itemStyles
}

func newDelegate() recordDelegate {
	return recordDelegate{styles: newItemStyles()}
}

func (d recordDelegate) Height() int                         { return 5 }
func (d recordDelegate) Spacing() int                        { return 1 }
func (d recordDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d recordDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	record, ok := item.(recordItem)
	if !ok {
		return
	}

	siteLine := d.styles.siteStyle.Render(fmt.Sprintf("[%s]", strings.ToUpper(record.Source)))
	titleLine := d.styles.titleStyle.Render(record.Record.Title)
	scoreLine := d.styles.scoreStyle.Render(fmt.Sprintf("match %.0f%%", record.Score*100))
	detailLine := d.styles.detailStyle.Render(formatDetails(record.Record, m.Width()-4))

	content := lipgloss.JoinVertical(lipgloss.Left, siteLine, titleLine, scoreLine, detailLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type model struct {
	list        list.Model
	searchTitle string
	result      SelectionResult
}

func newModel(title string, items []recordItem) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := newDelegate()
	l := list.New(listItems, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:        l,
		searchTitle: title,
		result: SelectionResult{
			Action: ActionNone,
		},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(recordItem); ok {
				m.result = SelectionResult{
					Action:    ActionSelected,
					Selection: selected.Record,
				}
				return m, tea.Quit
			}
		case "ctrl+c", "q", "esc", "s":
			m.result = SelectionResult{Action: ActionSkipped}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Multiple results found for: %s", m.searchTitle))
	listView := m.list.View()
	help := helpStyle.Render("Up/Down navigate | Enter select | s/esc skip | q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Select presents an interactive selection UI for ranked search results.
func Select(title string, records []*metadata.Record) (SelectionResult, error) {
	if len(records) == 0 {
		return SelectionResult{Action: ActionSkipped}, nil
	}

	items := make([]recordItem, len(records))
	for i, record := range records {
		items[i] = recordItem{Record: record}
	}

	m := newModel(title, items)
	finalModel, err := runProgram(m)
	if err != nil {
		return SelectionResult{}, err
	}

	if typed, ok := finalModel.(*model); ok {
		return typed.result, nil
	}

	return SelectionResult{}, fmt.Errorf("unexpected program result")
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// formatDetails builds the one-line summary under the title: publisher, year,
// rating, then as much of the tag-stripped blurb as fits.
func formatDetails(record *metadata.Record, availableWidth int) string {
	var parts []string

	if record.Publisher != nil {
		parts = append(parts, *record.Publisher)
	}
	if record.PubDate != nil {
		parts = append(parts, fmt.Sprintf("%d", record.PubDate.Year()))
	}
	if record.Rating != nil {
		parts = append(parts, fmt.Sprintf("%.1f/5", *record.Rating))
	}
	if record.Description != nil {
		parts = append(parts, htmlTagRe.ReplaceAllString(*record.Description, ""))
	}

	return truncate(strings.Join(parts, " | "), availableWidth)
}

// truncate cuts on rune boundaries so multi-byte titles stay valid UTF-8.
func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(preferred, available, minimum int) int {
	if available < minimum {
		return minimum
	}
	if available < preferred {
		return available
	}
	return preferred
}
