// Package ui is the interactive terminal viewer: a bubbletea model that
// windows a loaded outline through the stickytree engine and paints the
// visible rows under pinned ancestor headers.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/stickytree/pkg/config"
	"github.com/vanderheijden86/stickytree/pkg/debug"
	"github.com/vanderheijden86/stickytree/pkg/model"
	"github.com/vanderheijden86/stickytree/pkg/stickytree"
	"github.com/vanderheijden86/stickytree/pkg/watcher"
)

// Default dimensions used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Model is the viewer's bubbletea model.
type Model struct {
	doc      *model.Document
	tree     *stickytree.Tree[*model.Node]
	acc      *nodeAccessor
	renderer *NodeRenderer
	theme    Theme
	keys     KeyMap
	help     help.Model
	input    textinput.Model

	prompting  bool
	showHelp   bool
	scrollStep int
	wrap       int

	watcher *watcher.Watcher
	reload  Reloader

	width, height int

	statusMsg     string
	statusIsError bool
}

// Option configures a Model.
type Option func(*Model)

// WithWatcher reloads the document whenever w reports a change.
func WithWatcher(w *watcher.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithReloader sets how the document is reloaded.
func WithReloader(r Reloader) Option {
	return func(m *Model) { m.reload = r }
}

// WithTheme overrides the default theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithBodyRenderer supplies the markdown renderer instead of creating one on
// first use.
func WithBodyRenderer(b *BodyRenderer) Option {
	return func(m *Model) { m.acc.bodies = b }
}

// NewModel creates a viewer for doc.
func NewModel(doc *model.Document, cfg config.ViewConfig, opts ...Option) Model {
	m := Model{
		acc: &nodeAccessor{
			renderRoot: cfg.RenderRoot,
			showBodies: cfg.ShowBodies,
		},
		theme:      DefaultTheme(lipgloss.DefaultRenderer()),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		scrollStep: max(cfg.ScrollStep, 1),
		wrap:       cfg.BodyWordWrap,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.input = textinput.New()
	m.input.Prompt = ":"
	m.input.Placeholder = "offset, 50% or @id"
	m.input.PromptStyle = m.theme.Prompt

	if m.acc.showBodies {
		m.ensureBodies()
	}
	m.renderer = &NodeRenderer{Theme: m.theme, Bodies: m.acc.bodies, ShowBodies: m.acc.showBodies}
	m.tree = stickytree.New[*model.Node](m.acc, stickytree.Options{
		OverscanRowCount: cfg.OverscanRowCount,
		RenderRoot:       cfg.RenderRoot,
	})
	m.resize()
	m.setDocument(doc)
	return m
}

// ensureBodies creates the markdown renderer on first use. Bodies stay hidden
// if it cannot be created.
func (m *Model) ensureBodies() bool {
	if m.acc.bodies != nil {
		return true
	}
	b, err := NewBodyRenderer(m.wrap)
	if err != nil {
		debug.Log("ui: markdown renderer unavailable: %v", err)
		m.acc.showBodies = false
		return false
	}
	m.acc.bodies = b
	if m.renderer != nil {
		m.renderer.Bodies = b
	}
	return true
}

func (m *Model) setDocument(doc *model.Document) {
	m.doc = doc
	if doc == nil || doc.Root == nil {
		return
	}
	m.acc.root = doc.Root
	m.tree.SetRoot(doc.Root)
}

// footerLines is the number of lines below the frame.
func (m Model) footerLines() int {
	return 1 + lipgloss.Height(m.helpView())
}

func (m Model) helpView() string {
	m.help.ShowAll = m.showHelp
	m.help.Width = m.width
	return m.help.View(m.keys)
}

func (m *Model) resize() {
	frame := max(m.height-1-m.footerLines(), 1)
	m.tree.SetSize(m.width, frame)
	// Keep the offset inside the new scroll range.
	m.tree.ScrollBy(0)
}

// relayout rebuilds after a change to row heights, keeping the first visible
// node at the top.
func (m *Model) relayout() {
	records := m.tree.Records()
	if len(records) == 0 {
		m.tree.Rebuild()
		return
	}
	anchor := records[m.tree.State().CurrentIndex].Node
	m.tree.Rebuild()
	if i, ok := m.tree.IndexOf(anchor); ok {
		m.tree.ScrollToIndex(i)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.tree.ScrollBy(-m.scrollStep)
		case tea.MouseButtonWheelDown:
			m.tree.ScrollBy(m.scrollStep)
		}

	case FileChangedMsg:
		debug.Log("ui: source changed")
		if m.reload != nil {
			cmds = append(cmds, ReloadCmd(m.reload))
		}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}

	case ReloadedMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err), true)
			break
		}
		if msg.Doc == nil || msg.Doc.Root == nil {
			m.setStatus(fmt.Sprintf("reload failed: %v", model.ErrNoRoot), true)
			break
		}
		prev := m.tree.State().ScrollTop
		m.setDocument(msg.Doc)
		m.tree.Scroll(min(prev, m.tree.MaxScroll()))
		m.setStatus(fmt.Sprintf("reloaded %d nodes", m.tree.Len()), false)

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	page := max(m.tree.Options().Height-1, 1)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.tree.ScrollBy(1)
	case key.Matches(msg, m.keys.Up):
		m.tree.ScrollBy(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.tree.ScrollBy(page)
	case key.Matches(msg, m.keys.PageUp):
		m.tree.ScrollBy(-page)
	case key.Matches(msg, m.keys.HalfDown):
		m.tree.ScrollBy(max(page/2, 1))
	case key.Matches(msg, m.keys.HalfUp):
		m.tree.ScrollBy(-max(page/2, 1))
	case key.Matches(msg, m.keys.Top):
		m.tree.Scroll(0)
	case key.Matches(msg, m.keys.Bottom):
		m.tree.Scroll(m.tree.MaxScroll())
	case key.Matches(msg, m.keys.Parent):
		m.scrollToHeader()
	case key.Matches(msg, m.keys.NextSibling):
		if i := nextSibling(m.tree.Records(), m.tree.State().CurrentIndex); i >= 0 {
			m.tree.ScrollToIndex(i)
		}
	case key.Matches(msg, m.keys.PrevSibling):
		m.scrollToPrevSibling()
	case key.Matches(msg, m.keys.Goto):
		m.prompting = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.ToggleBodies):
		show := !m.acc.showBodies
		if show && !m.ensureBodies() {
			m.setStatus("markdown renderer unavailable", true)
			break
		}
		m.acc.showBodies = show
		m.renderer.ShowBodies = show
		m.relayout()
	case key.Matches(msg, m.keys.ToggleRoot):
		render := !m.acc.renderRoot
		m.acc.renderRoot = render
		m.tree.SetRenderRoot(render)
		m.relayout()
	case key.Matches(msg, m.keys.MoreOverscan):
		m.tree.SetOverscan(m.tree.Options().OverscanRowCount + 1)
	case key.Matches(msg, m.keys.LessOverscan):
		m.tree.SetOverscan(m.tree.Options().OverscanRowCount - 1)
	case key.Matches(msg, m.keys.Copy):
		crumb := m.Breadcrumb()
		if err := clipboard.WriteAll(crumb); err != nil {
			m.setStatus(fmt.Sprintf("clipboard: %v", err), true)
		} else {
			m.setStatus("copied "+crumb, false)
		}
	case key.Matches(msg, m.keys.Reload):
		if m.reload != nil {
			return m, ReloadCmd(m.reload)
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.resize()
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.prompting = false
		m.input.Blur()
		if err := m.Goto(m.input.Value()); err != nil {
			m.setStatus(err.Error(), true)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Goto scrolls to a target: a row offset ("120"), a percentage of the
// scroll range ("50%") or a node ID ("@intro").
func (m *Model) Goto(target string) error {
	target = strings.TrimSpace(target)
	switch {
	case target == "":
		return nil
	case strings.HasPrefix(target, "@"):
		id := target[1:]
		var found *model.Node
		if m.doc != nil {
			model.Walk(m.doc.Root, func(n *model.Node, _ int) bool {
				if n.ID == id {
					found = n
					return false
				}
				return true
			})
		}
		if found == nil {
			return fmt.Errorf("no node with id %q", id)
		}
		i, _ := m.tree.IndexOf(found)
		m.tree.ScrollToIndex(i)
	case strings.HasSuffix(target, "%"):
		pct, err := strconv.Atoi(strings.TrimSuffix(target, "%"))
		if err != nil || pct < 0 || pct > 100 {
			return fmt.Errorf("invalid percentage %q", target)
		}
		m.tree.Scroll(m.tree.MaxScroll() * pct / 100)
	default:
		offset, err := strconv.Atoi(target)
		if err != nil {
			return fmt.Errorf("invalid offset %q", target)
		}
		m.tree.Scroll(min(max(offset, 0), m.tree.MaxScroll()))
	}
	return nil
}

// scrollToHeader scrolls to the nearest header above the viewport top.
func (m *Model) scrollToHeader() {
	st := m.tree.State()
	path := m.tree.StickyPath()
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Top < st.ScrollTop && path[i].RowHeight > 0 {
			m.tree.ScrollToIndex(path[i].Index)
			return
		}
	}
	m.tree.Scroll(0)
}

func (m *Model) scrollToPrevSibling() {
	records := m.tree.Records()
	if len(records) == 0 {
		return
	}
	st := m.tree.State()
	cur := records[st.CurrentIndex]
	if cur.Top < st.ScrollTop {
		m.tree.ScrollToIndex(cur.Index)
		return
	}
	if cur.ParentIndex == stickytree.NoParent {
		return
	}
	kids := records[cur.ParentIndex].Children
	for i, k := range kids {
		if k == cur.Index {
			if i > 0 {
				m.tree.ScrollToIndex(kids[i-1])
			} else {
				m.tree.ScrollToIndex(cur.ParentIndex)
			}
			return
		}
	}
}

// nextSibling returns the record after i's subtree at i's depth or above,
// or -1 when i's subtree runs to the end.
func nextSibling[N any](records []stickytree.Record[N], i int) int {
	for i >= 0 && i < len(records) {
		p := records[i].ParentIndex
		if p == stickytree.NoParent {
			return -1
		}
		kids := records[p].Children
		for k, c := range kids {
			if c == i && k+1 < len(kids) {
				return kids[k+1]
			}
		}
		i = p
	}
	return -1
}

// Breadcrumb returns the titles of the sticky path.
func (m Model) Breadcrumb() string {
	path := m.tree.StickyPath()
	nodes := make([]*model.Node, 0, len(path))
	for _, rec := range path {
		if rec.IsRoot() && !m.acc.renderRoot {
			continue
		}
		nodes = append(nodes, rec.Node)
	}
	return Breadcrumb(nodes)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

// Tree exposes the windowing engine.
func (m Model) Tree() *stickytree.Tree[*model.Node] {
	return m.tree
}

// Document returns the displayed document.
func (m Model) Document() *model.Document {
	return m.doc
}

// StatusMessage returns the transient status line text.
func (m Model) StatusMessage() (string, bool) {
	return m.statusMsg, m.statusIsError
}

// Frame paints the current viewport.
func (m Model) Frame() Frame {
	return Paint[*model.Node](m.tree, m.renderer)
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	title := "stv"
	if m.doc != nil && m.doc.Title != "" {
		title += " · " + m.doc.Title
	}
	sb.WriteString(m.theme.Header.Width(m.width).MaxWidth(m.width).Render(truncate(title, max(m.width-2, 1))))
	sb.WriteString("\n")

	if m.tree.Len() == 0 {
		sb.WriteString(m.theme.MutedText.Render("Nothing to display."))
		sb.WriteString("\n")
	} else {
		frame := m.Frame()
		sb.WriteString(strings.Join(frame.Lines, "\n"))
		sb.WriteString("\n")
		sb.WriteString(m.statusLine(frame))
		sb.WriteString("\n")
	}
	sb.WriteString(m.helpView())
	return sb.String()
}

func (m Model) statusLine(frame Frame) string {
	switch {
	case m.prompting:
		return m.input.View()
	case m.statusMsg != "" && m.statusIsError:
		return m.theme.ErrorText.Render(truncate(m.statusMsg, m.width))
	case m.statusMsg != "":
		return m.theme.MutedText.Render(truncate(m.statusMsg, m.width))
	}
	return m.renderPositionIndicator(frame)
}

// renderPositionIndicator shows the scroll offset, the render range and how
// many records were materialized.
func (m Model) renderPositionIndicator(frame Frame) string {
	st := m.tree.State()
	pct := 100
	if ms := m.tree.MaxScroll(); ms > 0 {
		pct = st.ScrollTop * 100 / ms
	}
	indicator := fmt.Sprintf(" %d%% · row %d/%d · records %d-%d of %d · rendered %d · overscan %d",
		pct, st.ScrollTop, m.tree.TotalHeight(),
		frame.Range.Start+1, frame.Range.End+1, m.tree.Len(),
		frame.Materialized, m.tree.Options().OverscanRowCount)
	return m.theme.MutedText.Render(truncate(indicator, m.width))
}
