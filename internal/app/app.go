package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vidyasagar/doctrail/internal/browser"
	"github.com/vidyasagar/doctrail/internal/storage"
	"github.com/vidyasagar/doctrail/internal/theme"
	"github.com/vidyasagar/doctrail/internal/trail"
	"github.com/vidyasagar/doctrail/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert      // URL bar focused
	ModeFollow      // link follow mode
	ModeTrail       // trail panel focused
)

// headingState holds the current document's heading where the tracker's
// heading provider can see it across model copies.
type headingState struct {
	text string
}

// Model is the top-level bubbletea model for doctrail.
type Model struct {
	// UI components
	urlBar     ui.URLBar
	statusBar  ui.StatusBar
	trailPanel ui.TrailPanel
	viewport   ui.PageViewport

	// Reader state
	fetcher    *browser.Fetcher
	pageCache  *lru.Cache[string, *browser.RenderedPage] // rendered pages for instant back/forward
	stack      *browser.Stack
	page       *browser.RenderedPage
	loading    bool
	cancelFunc context.CancelFunc
	currentURL string
	followBuf  string

	// Trail
	tracker *trail.Tracker
	heading *headingState

	// Shared state
	keys     KeyMap
	mode     Mode
	width    int
	height   int
	lastGKey bool // for "gg" detection
	ready    bool
	startURL string
	siteURL  string // base for resolving site-relative paths

	// Storage
	kv     *storage.KV
	config *storage.Config
}

// pageLoadedMsg is sent when a page finishes loading.
type pageLoadedMsg struct {
	gen  uint64
	page *browser.RenderedPage
	url  string
	err  error
}

// refineMsg triggers the deferred label refinement for one navigation.
type refineMsg struct {
	gen uint64
}

// New creates a new doctrail Model. siteURL is the documentation site root
// that bare paths resolve against; startURL optionally opens a page.
func New(siteURL, startURL string) Model {
	pageCache, _ := lru.New[string, *browser.RenderedPage](50)

	m := Model{
		urlBar:    ui.NewURLBar(),
		statusBar: ui.NewStatusBar(),
		viewport:  ui.NewPageViewport(),
		fetcher:   browser.NewFetcher(),
		pageCache: pageCache,
		stack:     browser.NewStack(200),
		heading:   &headingState{},
		keys:      DefaultKeyMap(),
		mode:      ModeNormal,
		startURL:  startURL,
		siteURL:   siteURL,
	}

	m.config, _ = storage.LoadConfig()
	if m.siteURL == "" && m.config != nil {
		m.siteURL = m.config.SiteURL
	}

	// Trail backend: SQLite, falling back to a session-only store.
	var backend trail.Backend
	dataDir, err := storage.DataDir()
	if err == nil {
		if kv, kvErr := storage.OpenKV(dataDir); kvErr == nil {
			m.kv = kv
			backend = kv
		}
	}
	if backend == nil {
		backend = storage.NewMemKV()
	}

	opts := trail.Options{}
	if m.config != nil {
		opts = trail.Options{
			StorageKey:     m.config.StorageKey,
			MaxHistory:     m.config.MaxHistory,
			DefaultVisible: m.config.DefaultVisible,
			BasePath:       m.config.BasePath,
			IgnorePaths:    m.config.IgnorePaths,
		}
	}
	heading := m.heading
	m.tracker = trail.NewTracker(backend, func() string { return heading.text }, opts)
	m.trailPanel = ui.NewTrailPanel(m.tracker.Options().DefaultVisible)
	m.trailPanel.SetEntries(m.tracker.Entries())

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.startURL != "" {
		return m.navigateTo(m.resolveInput(m.startURL))
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case refineMsg:
		if m.tracker.Refine(msg.gen) {
			m.trailPanel.SetEntries(m.tracker.Entries())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	vp, cmd := m.viewport.Update(msg)
	m.viewport = *vp
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading doctrail..."
	}

	m.syncStatusBar()

	main := m.viewport.View()
	if m.trailPanel.IsVisible() {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, m.trailPanel.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.urlBar.View(),
		main,
		m.statusBar.View(),
	)
}

// layout distributes the window between the bars, viewport and trail panel.
func (m *Model) layout() {
	barHeight := 3 // url bar with border
	statusHeight := 1
	contentHeight := m.height - barHeight - statusHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	panelWidth := 0
	if m.trailPanel.IsVisible() {
		panelWidth = m.width / 3
		if panelWidth > 48 {
			panelWidth = 48
		}
		if panelWidth < 24 {
			panelWidth = 24
		}
	}

	m.urlBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.viewport.SetSize(m.width-panelWidth, contentHeight)
	m.trailPanel.SetSize(panelWidth, contentHeight)
}

func (m *Model) syncStatusBar() {
	m.statusBar.SetScrollInfo(m.viewport.ScrollInfo())
	if m.page != nil {
		m.statusBar.SetLinkCount(len(m.page.Links))
	}
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeInsert:
		return m.handleInsertMode(msg)
	case ModeFollow:
		return m.handleFollowMode(msg)
	case ModeTrail:
		return m.handleTrailMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// "gg" detection.
	if keyStr == "g" {
		if m.lastGKey {
			m.lastGKey = false
			m.viewport.GotoTop()
			return m, nil
		}
		m.lastGKey = true
		return m, nil
	}
	m.lastGKey = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.kv != nil {
			m.kv.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(1)

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)

	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()

	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()

	case key.Matches(msg, m.keys.GotoBottom):
		m.viewport.GotoBottom()

	case key.Matches(msg, m.keys.OpenPath):
		m.mode = ModeInsert
		m.statusBar.SetMode("INSERT")
		m.urlBar.SetValue("")
		return m, m.urlBar.Focus()

	case key.Matches(msg, m.keys.Back):
		if url, ok := m.stack.Back(); ok {
			cmd := m.loadPage(url, false)
			return m, cmd
		}
		m.statusBar.SetMessage("Already at the oldest page")

	case key.Matches(msg, m.keys.Forward):
		if url, ok := m.stack.Forward(); ok {
			cmd := m.loadPage(url, false)
			return m, cmd
		}
		m.statusBar.SetMessage("Already at the newest page")

	case key.Matches(msg, m.keys.Reload):
		if m.currentURL != "" {
			m.pageCache.Remove(m.currentURL)
			cmd := m.loadPage(m.currentURL, false)
			return m, cmd
		}

	case key.Matches(msg, m.keys.FollowLink):
		if m.page != nil && len(m.page.Links) > 0 {
			m.mode = ModeFollow
			m.followBuf = ""
			m.statusBar.SetMode("FOLLOW")
			m.statusBar.SetMessage("Link number:")
		}

	case key.Matches(msg, m.keys.TrailToggle):
		m.trailPanel.Toggle()
		if m.trailPanel.IsVisible() {
			m.trailPanel.SetEntries(m.tracker.Entries())
			m.mode = ModeTrail
			m.statusBar.SetMode("TRAIL")
		} else {
			m.mode = ModeNormal
			m.statusBar.SetMode("NORMAL")
		}
		m.layout()

	case key.Matches(msg, m.keys.Help):
		m.showHelp()
	}

	return m, nil
}

func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.urlBar.Blur()
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		return m, nil

	case "enter":
		target := strings.TrimSpace(m.urlBar.Value())
		m.urlBar.Blur()
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		if target == "" {
			return m, nil
		}
		cmd := m.navigateTo(m.resolveInput(target))
		return m, cmd
	}

	ub, cmd := m.urlBar.Update(msg)
	m.urlBar = *ub
	return m, cmd
}

func (m Model) handleFollowMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keyStr == "esc":
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		m.statusBar.SetMessage("")

	case keyStr == "enter":
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		m.statusBar.SetMessage("")
		return m.followLink(m.followBuf)

	case keyStr == "backspace":
		if len(m.followBuf) > 0 {
			m.followBuf = m.followBuf[:len(m.followBuf)-1]
		}
		m.statusBar.SetMessage("Link number: " + m.followBuf)

	case len(keyStr) == 1 && keyStr[0] >= '0' && keyStr[0] <= '9':
		m.followBuf += keyStr
		m.statusBar.SetMessage("Link number: " + m.followBuf)
	}
	return m, nil
}

func (m Model) handleTrailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+h":
		m.trailPanel.Hide()
		m.mode = ModeNormal
		m.statusBar.SetMode("NORMAL")
		m.layout()

	case "j", "down":
		m.trailPanel.CursorDown()

	case "k", "up":
		m.trailPanel.CursorUp()

	case "tab":
		m.trailPanel.ToggleExpand()

	case "enter":
		if e := m.trailPanel.SelectedEntry(); e != nil {
			m.trailPanel.Hide()
			m.mode = ModeNormal
			m.statusBar.SetMode("NORMAL")
			m.layout()
			cmd := m.navigateTo(m.resolveInput(e.URL))
			return m, cmd
		}

	case "d":
		if e := m.trailPanel.SelectedEntry(); e != nil {
			m.tracker.Remove(e.Key)
			m.trailPanel.SetEntries(m.tracker.Entries())
		}

	case "C":
		m.tracker.Clear()
		m.trailPanel.SetEntries(m.tracker.Entries())

	case "q", "ctrl+c":
		if m.kv != nil {
			m.kv.Close()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) followLink(input string) (tea.Model, tea.Cmd) {
	if m.page == nil || input == "" {
		return m, nil
	}
	var idx int
	if _, err := fmt.Sscanf(input, "%d", &idx); err != nil {
		return m, nil
	}
	for _, l := range m.page.Links {
		if l.Index == idx {
			cmd := m.navigateTo(browser.Resolve(m.currentURL, l.URL))
			return m, cmd
		}
	}
	m.statusBar.SetMessage(fmt.Sprintf("No link [%d]", idx))
	return m, nil
}

// resolveInput turns user input (absolute URL or site-relative path) into
// a fetchable URL.
func (m Model) resolveInput(input string) string {
	if strings.HasPrefix(input, "/") {
		base := m.siteURL
		if base == "" {
			base = m.currentURL
		}
		return browser.Resolve(base, input)
	}
	return browser.NormalizeURL(input)
}

// navigateTo loads a URL in the reader and pushes it onto the back stack.
func (m *Model) navigateTo(url string) tea.Cmd {
	return m.loadPage(url, true)
}

// loadPage performs the phase-1 trail capture for the navigation event,
// then fetches and renders the page. If pushStack is true the URL is added
// to the back/forward stack.
func (m *Model) loadPage(url string, pushStack bool) tea.Cmd {
	// Cancel previous load if any.
	if m.cancelFunc != nil {
		m.cancelFunc()
		m.cancelFunc = nil
	}

	// The new document has not rendered: its heading is not available to
	// the immediate resolution pass.
	m.heading.text = ""
	m.currentURL = url

	var cmds []tea.Cmd

	// Phase-1 capture. gen stays zero for ignored paths so that a page
	// load there never refines a previous entry's label.
	var gen uint64
	path, query := browser.SitePath(url)
	if g, captured := m.tracker.Visit(path, query); captured {
		gen = g
		m.trailPanel.SetEntries(m.tracker.Entries())
		cmds = append(cmds, tea.Tick(trail.RefineDelay, func(time.Time) tea.Msg {
			return refineMsg{gen: g}
		}))
	}

	if pushStack {
		m.stack.Push(url)
	}

	m.urlBar.SetValue(url)

	// Cached pages render instantly.
	if cachedPage, ok := m.pageCache.Get(url); ok {
		m.loading = false
		cmds = append(cmds, func() tea.Msg {
			return pageLoadedMsg{gen: gen, page: cachedPage, url: url}
		})
		return tea.Batch(cmds...)
	}

	m.loading = true
	m.statusBar.SetLoading(true)
	m.statusBar.SetMessage("")

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFunc = cancel

	fetcher := m.fetcher
	pageCache := m.pageCache
	renderWidth := m.viewport.Width()
	if renderWidth <= 0 {
		renderWidth = 80
	}

	cmds = append(cmds, func() tea.Msg {
		result, err := fetcher.FetchWithContext(ctx, url)
		if err != nil {
			return pageLoadedMsg{gen: gen, err: err, url: url}
		}

		article, err := browser.Extract(result)
		if err != nil {
			return pageLoadedMsg{gen: gen, err: err, url: url}
		}

		page := browser.Render(article, renderWidth)
		pageCache.Add(result.FinalURL, page)

		return pageLoadedMsg{gen: gen, page: page, url: result.FinalURL}
	})

	return tea.Batch(cmds...)
}

// handlePageLoaded processes a completed page load.
func (m Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.cancelFunc = nil
	m.statusBar.SetLoading(false)

	if msg.err != nil {
		// Superseded loads are cancelled; their errors are not news.
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.statusBar.SetMessage(fmt.Sprintf("Error: %s", msg.err))

		errStyle := lipgloss.NewStyle().
			Foreground(theme.Current.Error).
			Bold(true).
			Padding(2, 4)
		detailStyle := lipgloss.NewStyle().
			Foreground(theme.Current.TextDim).
			Padding(0, 4)

		m.viewport.SetContent(errStyle.Render("Failed to load page") + "\n\n" +
			detailStyle.Render(fmt.Sprintf("URL: %s\nError: %s", msg.url, msg.err)))
		return m, nil
	}

	m.page = msg.page
	m.currentURL = msg.url
	m.viewport.SetContent(msg.page.Content)
	m.urlBar.SetValue(msg.url)
	m.statusBar.SetTitle(msg.page.Title)
	m.statusBar.SetURL(msg.url)
	m.statusBar.SetLinkCount(len(msg.page.Links))

	// The document has rendered: publish its heading and refine the label
	// for this navigation if the deferred timer has not done so already.
	m.heading.text = msg.page.Heading
	if m.tracker.Refine(msg.gen) {
		m.trailPanel.SetEntries(m.tracker.Entries())
	}

	return m, nil
}

func (m *Model) showHelp() {
	var sb strings.Builder
	sb.WriteString("\n  doctrail keybindings\n\n")
	bindings := []key.Binding{
		m.keys.ScrollDown, m.keys.ScrollUp, m.keys.HalfPageDown,
		m.keys.HalfPageUp, m.keys.GotoTop, m.keys.GotoBottom,
		m.keys.OpenPath, m.keys.Back, m.keys.Forward, m.keys.Reload,
		m.keys.FollowLink, m.keys.TrailToggle, m.keys.Help, m.keys.Quit,
	}
	for _, b := range bindings {
		h := b.Help()
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
	}
	m.viewport.SetContent(sb.String())
}
