package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/okra/internal/cli/formatter"
	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type rowKind int

const (
	rowObjective rowKind = iota
	rowKeyResult
	rowInitiative
	rowMetric
)

// dashboardRow is one visible line of the tree.
type dashboardRow struct {
	kind       rowKind
	id         string
	depth      int
	label      string
	detail     string
	progress   contract.ProgressView
	expandable bool
}

type dashboardKeys struct {
	Up, Down, Toggle, ExpandAll, CollapseAll, Refresh, Help, Quit key.Binding
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Refresh, k.Help, k.Quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.ExpandAll, k.CollapseAll, k.Refresh},
		{k.Help, k.Quit},
	}
}

func defaultDashboardKeys() dashboardKeys {
	return dashboardKeys{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type dashboardLoadedMsg struct {
	resp *contract.DashboardResponse
	err  error
}

// dashboardModel browses the objective tree. Objectives start expanded so
// their key results show; key results and initiatives start collapsed.
type dashboardModel struct {
	ctx      context.Context
	load     func(context.Context) (*contract.DashboardResponse, error)
	resp     *contract.DashboardResponse
	err      error
	expanded map[string]bool
	rows     []dashboardRow
	cursor   int
	keys     dashboardKeys
	help     help.Model
	width    int
}

func newDashboardModel(ctx context.Context, load func(context.Context) (*contract.DashboardResponse, error)) *dashboardModel {
	return &dashboardModel{
		ctx:      ctx,
		load:     load,
		expanded: map[string]bool{},
		keys:     defaultDashboardKeys(),
		help:     help.New(),
		width:    100,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *dashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.load(m.ctx)
		return dashboardLoadedMsg{resp: resp, err: err}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case dashboardLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			first := m.resp == nil
			m.resp = msg.resp
			if first {
				m.resp.Walk(func(o *contract.ObjectiveView, _ int) { m.expanded[o.ID] = true })
			}
		}
		m.rebuild()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *dashboardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.rows) && m.rows[m.cursor].expandable {
			id := m.rows[m.cursor].id
			m.expanded[id] = !m.expanded[id]
			m.rebuild()
		}
	case key.Matches(msg, m.keys.ExpandAll):
		for _, id := range m.expandableIDs() {
			m.expanded[id] = true
		}
		m.rebuild()
	case key.Matches(msg, m.keys.CollapseAll):
		clear(m.expanded)
		m.rebuild()
	case key.Matches(msg, m.keys.Refresh):
		return m.loadCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *dashboardModel) expandableIDs() []string {
	if m.resp == nil {
		return nil
	}
	var ids []string
	m.resp.Walk(func(o *contract.ObjectiveView, _ int) {
		ids = append(ids, o.ID)
		for _, kr := range o.KeyResults {
			ids = append(ids, kr.ID)
			for _, in := range kr.Initiatives {
				ids = append(ids, in.ID)
			}
		}
	})
	return ids
}

// rebuild flattens the visible part of the tree and keeps the cursor on
// the same item when it is still visible.
func (m *dashboardModel) rebuild() {
	var selected string
	if m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].id
	}
	m.rows = m.rows[:0]
	if m.resp != nil {
		for i := range m.resp.Objectives {
			m.addObjective(&m.resp.Objectives[i], 0)
		}
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	for i, r := range m.rows {
		if r.id == selected {
			m.cursor = i
			break
		}
	}
}

func (m *dashboardModel) addObjective(o *contract.ObjectiveView, depth int) {
	m.rows = append(m.rows, dashboardRow{
		kind: rowObjective, id: o.ID, depth: depth,
		label:      o.ShortID + "  " + o.Title,
		detail:     o.Period,
		progress:   o.Progress,
		expandable: len(o.KeyResults) > 0 || len(o.Children) > 0,
	})
	if !m.expanded[o.ID] {
		return
	}
	for _, kr := range o.KeyResults {
		m.rows = append(m.rows, dashboardRow{
			kind: rowKeyResult, id: kr.ID, depth: depth + 1,
			label: kr.Title,
			detail: progress.FormatValue(kr.Measure.CurrentValue, kr.Measure.Unit) + " / " +
				progress.FormatValue(&kr.Measure.TargetValue, kr.Measure.Unit),
			progress:   kr.Progress,
			expandable: len(kr.Initiatives) > 0,
		})
		if !m.expanded[kr.ID] {
			continue
		}
		for _, in := range kr.Initiatives {
			detail := string(in.Status)
			if in.TasksTotal > 0 {
				detail += fmt.Sprintf(", %d/%d tasks", in.TasksDone, in.TasksTotal)
			}
			m.rows = append(m.rows, dashboardRow{
				kind: rowInitiative, id: in.ID, depth: depth + 2,
				label: in.Title, detail: detail, progress: in.Progress,
				expandable: len(in.Metrics) > 0,
			})
			if !m.expanded[in.ID] {
				continue
			}
			for _, mt := range in.Metrics {
				m.rows = append(m.rows, dashboardRow{
					kind: rowMetric, id: mt.ID, depth: depth + 3,
					label: mt.Title, progress: mt.Progress,
				})
			}
		}
	}
	for i := range o.Children {
		m.addObjective(&o.Children[i], depth+1)
	}
}

func (m *dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("OKR Dashboard"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.resp == nil:
		b.WriteString(formatter.Dim("Loading…") + "\n")
	case len(m.rows) == 0:
		b.WriteString(formatter.Dim("No objectives yet.") + "\n")
	default:
		for i, r := range m.rows {
			b.WriteString(m.renderRow(r, i == m.cursor))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(formatter.FormatSummary(m.resp.Summary))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *dashboardModel) renderRow(r dashboardRow, selected bool) string {
	cursor := "  "
	if selected {
		cursor = formatter.StylePurple.Render("› ")
	}
	marker := "  "
	if r.expandable {
		marker = "▸ "
		if m.expanded[r.id] {
			marker = "▾ "
		}
	}
	label := r.label
	switch r.kind {
	case rowObjective:
		label = formatter.Bold(label)
	case rowMetric:
		label = formatter.Dim("◦ ") + label
	}
	line := cursor + strings.Repeat("  ", r.depth) + marker + label
	line += "  " + formatter.RenderProgress(r.progress.Percentage, r.progress.Status, 12)
	if r.detail != "" {
		line += "  " + formatter.Dim(r.detail)
	}
	return line
}
