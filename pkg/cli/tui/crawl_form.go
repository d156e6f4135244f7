package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"image-crawler-go/pkg/cli/logger"
	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/gallery"
	"image-crawler-go/pkg/models"
	"image-crawler-go/pkg/notify"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	focusKey = iota
	focusURL
	focusResults
)

const (
	tickInterval  = 100 * time.Millisecond
	toastLifetime = 4 * time.Second
)

// ImageLoader fetches image data for lazy loading.
type ImageLoader interface {
	Load(ctx context.Context, resourceURL string) error
}

// Deps are the collaborators of the crawl form. Loader may be nil, in
// which case entries stay loading.
type Deps struct {
	Invoker *crawler.Invoker
	Gallery *gallery.Gallery
	Queue   *notify.Queue
	Loader  ImageLoader
}

type toast struct {
	note    notify.Notification
	expires time.Time
}

// crawlForm is the Bubble Tea model for the single-screen crawl flow.
type crawlForm struct {
	deps Deps

	// Inputs
	keyInput   textinput.Model
	urlInput   textinput.Model
	keyVisible bool
	focus      int

	// Crawl state
	pending bool
	ticking bool
	cancel  context.CancelFunc
	err     error
	bar     progress.Model

	// Results
	selected int
	toasts   []toast

	now func() time.Time
}

// Messages for async work.
type crawlDoneMsg struct {
	outcome *models.Success
	err     error
}

type imageLoadedMsg struct {
	outcome *models.Success
	index   int
	err     error
}

type credentialLoadedMsg struct {
	key string
	err error
}

type downloadDoneMsg struct{}

// progressTickMsg drives the progress bar and toast expiry.
type progressTickMsg struct{}

func newCrawlForm(deps Deps) *crawlForm {
	keyInput := textinput.New()
	keyInput.Placeholder = "Your API key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '•'
	keyInput.CharLimit = 256
	keyInput.Width = 60
	keyInput.Focus()

	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com"
	urlInput.CharLimit = 2048
	urlInput.Width = 60

	if deps.Queue == nil {
		deps.Queue = notify.NewQueue()
	}

	return &crawlForm{
		deps:     deps,
		keyInput: keyInput,
		urlInput: urlInput,
		focus:    focusKey,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
		now:      time.Now,
	}
}

// Init implements tea.Model.
func (m *crawlForm) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCredential())
}

// CapturingInput reports whether a text input has focus.
func (m *crawlForm) CapturingInput() bool {
	return m.focus != focusResults
}

// Shutdown cancels a running crawl.
func (m *crawlForm) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Update implements tea.Model.
func (m *crawlForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 80 {
			width = 80
		}
		if width > 20 {
			m.bar.Width = width
		}
		return m, nil

	case credentialLoadedMsg:
		if msg.err != nil {
			logger.LogError(msg.err, "failed to read saved API key")
			return m, nil
		}
		if msg.key != "" && m.keyInput.Value() == "" {
			m.keyInput.SetValue(msg.key)
		}
		return m, nil

	case progressTickMsg:
		m.drainNotifications()
		if m.needsTick() {
			return m, m.tick()
		}
		m.ticking = false
		return m, nil

	case crawlDoneMsg:
		m.pending = false
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.drainNotifications()
		if msg.err != nil {
			m.err = userFacingError(msg.err)
			logger.LogError(msg.err, "crawl failed")
			return m, m.ensureTicking()
		}
		m.err = nil
		m.selected = 0
		return m, tea.Batch(m.ensureTicking(), m.loadImages(msg.outcome))

	case imageLoadedMsg:
		if msg.err != nil {
			logger.LogError(msg.err, "failed to load image %d", msg.index)
			return m, nil
		}
		m.deps.Gallery.MarkLoaded(msg.outcome, msg.index)
		return m, nil

	case downloadDoneMsg:
		m.drainNotifications()
		return m, m.ensureTicking()
	}

	return m.updateFocused(msg)
}

func (m *crawlForm) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.pending && m.cancel != nil {
			m.cancel()
			return m, nil
		}
		return m, tea.Quit

	case "ctrl+k":
		m.keyVisible = !m.keyVisible
		if m.keyVisible {
			m.keyInput.EchoMode = textinput.EchoNormal
		} else {
			m.keyInput.EchoMode = textinput.EchoPassword
		}
		return m, nil

	case "tab":
		return m, m.setFocus(m.nextFocus(1))

	case "shift+tab":
		return m, m.setFocus(m.nextFocus(-1))

	case "enter":
		if m.focus == focusResults {
			return m, nil
		}
		return m.submit()
	}

	if m.focus == focusResults {
		return m.handleResultsKey(msg)
	}
	return m.updateFocused(msg)
}

func (m *crawlForm) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if selected, ok := handleListNavigation(key, m.selected, m.deps.Gallery.Len()); ok {
		m.selected = selected
		return m, nil
	}
	if key == "d" {
		return m, m.download(m.selected)
	}
	return m, nil
}

func (m *crawlForm) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusKey:
		m.keyInput, cmd = m.keyInput.Update(msg)
	case focusURL:
		m.urlInput, cmd = m.urlInput.Update(msg)
	}
	return m, cmd
}

// nextFocus cycles through the inputs, and the results once there are any.
func (m *crawlForm) nextFocus(delta int) int {
	n := 2
	if m.deps.Gallery.HasOutcome() && m.deps.Gallery.Len() > 0 {
		n = 3
	}
	return ((m.focus+delta)%n + n) % n
}

func (m *crawlForm) setFocus(focus int) tea.Cmd {
	m.focus = focus
	m.keyInput.Blur()
	m.urlInput.Blur()
	switch focus {
	case focusKey:
		return m.keyInput.Focus()
	case focusURL:
		return m.urlInput.Focus()
	}
	return nil
}

// canSubmit mirrors the disabled state of the submit button.
func (m *crawlForm) canSubmit() bool {
	return !m.pending && strings.TrimSpace(m.urlInput.Value()) != ""
}

func (m *crawlForm) submit() (tea.Model, tea.Cmd) {
	if !m.canSubmit() {
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.pending = true
	m.err = nil

	return m, tea.Batch(
		m.runCrawl(ctx, m.urlInput.Value(), m.keyInput.Value()),
		m.ensureTicking(),
	)
}

// runCrawl submits through the invoker, which validates, persists the key,
// drives progress and hands a success to the gallery.
func (m *crawlForm) runCrawl(ctx context.Context, rawURL, rawKey string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.deps.Invoker.Submit(ctx, rawURL, rawKey)
		return crawlDoneMsg{outcome: outcome, err: err}
	}
}

func (m *crawlForm) loadCredential() tea.Cmd {
	return func() tea.Msg {
		key, err := m.deps.Invoker.StoredCredential(context.Background())
		return credentialLoadedMsg{key: key, err: err}
	}
}

func (m *crawlForm) loadImages(outcome *models.Success) tea.Cmd {
	if m.deps.Loader == nil || outcome == nil {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(outcome.Items))
	for i, item := range outcome.Items {
		cmds = append(cmds, func() tea.Msg {
			err := m.deps.Loader.Load(context.Background(), item.ResourceURL)
			return imageLoadedMsg{outcome: outcome, index: i, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (m *crawlForm) download(i int) tea.Cmd {
	return func() tea.Msg {
		m.deps.Gallery.Download(context.Background(), i)
		return downloadDoneMsg{}
	}
}

func (m *crawlForm) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// ensureTicking starts the tick loop unless it is already running.
func (m *crawlForm) ensureTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return m.tick()
}

func (m *crawlForm) needsTick() bool {
	return m.pending || m.deps.Invoker.Progress().Value() > 0 || len(m.toasts) > 0
}

func (m *crawlForm) drainNotifications() {
	now := m.now()
	for _, n := range m.deps.Queue.Drain() {
		m.toasts = append(m.toasts, toast{note: n, expires: now.Add(toastLifetime)})
	}
	live := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			live = append(live, t)
		}
	}
	m.toasts = live
}

// View implements tea.Model.
func (m *crawlForm) View() string {
	var b strings.Builder

	b.WriteString(renderTitle("Website Image Crawler"))
	b.WriteString(subtitleStyle.Render("Extract every image from a website"))
	b.WriteString("\n\n")

	b.WriteString(m.label("API Key", focusKey))
	b.WriteString(" " + mutedStyle.Render("(ctrl+k to "+m.toggleVerb()+")"))
	b.WriteString("\n")
	b.WriteString(m.keyInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.label("Website URL", focusURL))
	b.WriteString("\n")
	b.WriteString(m.urlInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderButton())
	b.WriteString("\n")

	if v := m.deps.Invoker.Progress().Value(); v > 0 {
		b.WriteString("\n")
		b.WriteString(renderProgress(m.bar.ViewAs(float64(v)/100), v))
		b.WriteString("\n")
	}

	if m.err != nil && !m.pending {
		b.WriteString("\n")
		b.WriteString(renderInlineError(m.err))
		b.WriteString("\n")
	}

	for _, t := range m.toasts {
		b.WriteString("\n")
		b.WriteString(renderToast(t.note))
	}

	b.WriteString("\n")
	b.WriteString(renderDivider(60))
	b.WriteString("\n")
	b.WriteString(m.renderResults())

	return b.String()
}

func (m *crawlForm) label(text string, focus int) string {
	if m.focus == focus {
		return focusedLabelStyle.Render(text + ":")
	}
	return fieldLabelStyle.Render(text + ":")
}

func (m *crawlForm) toggleVerb() string {
	if m.keyVisible {
		return "hide"
	}
	return "show"
}

func (m *crawlForm) renderButton() string {
	if m.pending {
		return disabledButtonStyle.Render("Crawling...")
	}
	if !m.canSubmit() {
		return disabledButtonStyle.Render("Start Crawl")
	}
	return buttonStyle.Render("Start Crawl")
}

func (m *crawlForm) renderResults() string {
	if !m.deps.Gallery.HasOutcome() {
		return renderEmptyResults() + "\n" + HowToUseContent() + "\n"
	}

	selected := -1
	if m.focus == focusResults {
		selected = m.selected
	}
	out := m.deps.Gallery.Render(selected)
	if m.deps.Gallery.Len() > 0 {
		out += helpStyle.Render("Tab to the results, ↑/↓ to select, d to download") + "\n"
	}
	return out
}

// Run starts the interactive crawl form.
func Run(deps Deps) error {
	if deps.Invoker == nil || deps.Gallery == nil {
		return errors.New("tui: invoker and gallery are required")
	}

	form := newCrawlForm(deps)
	frame := NewFrame(form, FrameConfig{
		Footer:    true,
		Help:      CrawlFormHelpContent,
		MinWidth:  60,
		MinHeight: 20,
	})

	p := tea.NewProgram(frame, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	form.Shutdown()
	return nil
}
