// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/gtasks2sp/internal/sp"
)

// Summary is the header information shown above the tree.
type Summary struct {
	Source   string // input path
	Warnings int
}

// filterMode restricts which tasks are listed.
type filterMode int

const (
	filterAll filterMode = iota
	filterOpen
	filterDone
)

func (f filterMode) String() string {
	switch f {
	case filterOpen:
		return "open"
	case filterDone:
		return "done"
	default:
		return "all"
	}
}

// RunPreview browses a converted backup in a full-screen terminal UI.
func RunPreview(ctx context.Context, backup *sp.Backup, summary Summary) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("preview requires a TTY")
	}
	model := newPreviewModel(backup, summary)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4285f4"))
	projectStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
)

type rowKind int

const (
	rowProject rowKind = iota
	rowTask
)

// row is one visible line of the tree.
type row struct {
	kind    rowKind
	depth   int
	project *sp.Project
	task    *sp.Task
}

type previewModel struct {
	backup   *sp.Backup
	summary  Summary
	all      []row
	rows     []row
	cursor   int
	offset   int
	height   int
	filter   filterMode
	showHelp bool
	detail   bool
}

func newPreviewModel(backup *sp.Backup, summary Summary) *previewModel {
	m := &previewModel{
		backup:  backup,
		summary: summary,
		all:     buildRows(backup),
		height:  20,
	}
	m.applyFilter()
	return m
}

// buildRows flattens projects and their task trees in display order.
// Subtasks follow their parent, indented one level per ancestor.
func buildRows(b *sp.Backup) []row {
	if b == nil || b.Data == nil || b.Data.Project == nil {
		return nil
	}
	tasks := b.Data.Task
	visited := make(map[string]bool)

	var rows []row
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		task := tasks.Get(id)
		if task == nil || visited[id] {
			return
		}
		visited[id] = true
		rows = append(rows, row{kind: rowTask, depth: depth, task: task})
		for _, sub := range task.SubTaskIDs {
			walk(sub, depth+1)
		}
	}

	for _, projectID := range b.Data.Project.IDs {
		project := b.Data.Project.Get(projectID)
		if project == nil {
			continue
		}
		rows = append(rows, row{kind: rowProject, project: project})
		for _, id := range project.TaskIDs {
			walk(id, 1)
		}
	}
	return rows
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 3)
		m.scroll()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.height)
		case "pgdown":
			m.move(m.height)
		case "home", "g":
			m.move(-len(m.rows))
		case "end", "G":
			m.move(len(m.rows))
		case "]":
			m.jumpProject(1)
		case "[":
			m.jumpProject(-1)
		case "enter", " ":
			m.detail = !m.detail
		case "f":
			m.filter = (m.filter + 1) % 3
			m.applyFilter()
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m *previewModel) move(delta int) {
	if len(m.rows) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.scroll()
}

// jumpProject moves the cursor to the next or previous project header.
func (m *previewModel) jumpProject(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].kind == rowProject {
			m.cursor = i
			m.scroll()
			return
		}
	}
}

func (m *previewModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *previewModel) applyFilter() {
	m.rows = m.rows[:0]
	for _, r := range m.all {
		if r.kind == rowTask {
			if m.filter == filterOpen && r.task.IsDone {
				continue
			}
			if m.filter == filterDone && !r.task.IsDone {
				continue
			}
		}
		m.rows = append(m.rows, r)
	}
	m.cursor = 0
	m.offset = 0
}

// selected returns the row under the cursor, if any.
func (m *previewModel) selected() *row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m *previewModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.backup, m.summary)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.filter)
		return b.String()
	}

	if len(m.rows) == 0 {
		b.WriteString("  Nothing to show.\n\n")
		writeFooter(&b, m.filter)
		return b.String()
	}

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		line := formatRow(m.rows[i])
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if m.detail {
		if r := m.selected(); r != nil && r.kind == rowTask {
			b.WriteString(detailStyle.Render(formatDetail(r.task)))
			b.WriteString("\n\n")
		}
	}

	writeFooter(&b, m.filter)
	return b.String()
}

func writeTitle(b *strings.Builder, backup *sp.Backup, summary Summary) {
	title := "Super Productivity import preview"
	if summary.Source != "" {
		title += ": " + summary.Source
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	var projects, tasks, done int
	if backup != nil {
		projects, tasks = backup.ProjectCount(), backup.TaskCount()
		if backup.Data != nil && backup.Data.Task != nil {
			for _, task := range backup.Data.Task.Entities {
				if task.IsDone {
					done++
				}
			}
		}
	}
	counts := fmt.Sprintf("%d project(s), %d task(s), %d done", projects, tasks, done)
	if summary.Warnings > 0 {
		counts += fmt.Sprintf(", %d warning(s)", summary.Warnings)
	}
	b.WriteString(mutedStyle.Render(counts) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, esc       Quit\n")
	b.WriteString("  j/k, ↑/↓     Move\n")
	b.WriteString("  g/G          First / last line\n")
	b.WriteString("  [ ]          Previous / next project\n")
	b.WriteString("  enter        Toggle task details\n")
	b.WriteString("  f            Cycle filter (all, open, done)\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, filter filterMode) {
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Filter: %s | Press h for help | q to quit", filter)) + "\n")
}

func formatRow(r row) string {
	if r.kind == rowProject {
		return projectStyle.Render(fmt.Sprintf("▸ %s (%d)", r.project.Title, len(r.project.TaskIDs)))
	}

	check := "[ ]"
	if r.task.IsDone {
		check = "[x]"
	}
	title := r.task.Title
	if r.task.IsDone {
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", r.depth), check, title)
	if r.task.DueDay != nil {
		line += mutedStyle.Render("  due " + *r.task.DueDay)
	}
	return line
}

func formatDetail(t *sp.Task) string {
	var lines []string
	lines = append(lines, "Title:    "+t.Title)
	lines = append(lines, "ID:       "+t.ID)
	if t.OriginalID != "" {
		lines = append(lines, "Source:   "+t.OriginalID)
	}
	if t.HasParent() {
		lines = append(lines, "Parent:   "+t.Parent())
	}
	if len(t.SubTaskIDs) > 0 {
		lines = append(lines, fmt.Sprintf("Subtasks: %d", len(t.SubTaskIDs)))
	}
	if t.DueDay != nil {
		lines = append(lines, "Due:      "+*t.DueDay)
	}
	if t.Notes != "" {
		notes := t.Notes
		if len(notes) > 60 {
			notes = notes[:57] + "..."
		}
		lines = append(lines, "Notes:    "+strings.ReplaceAll(notes, "\n", " "))
	}
	return strings.Join(lines, "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
