package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"image-crawler-go/pkg/cli/logger"
)

// InputCapturer is implemented by models with text inputs. While it returns
// true, printable keys go to the model instead of the frame.
type InputCapturer interface {
	CapturingInput() bool
}

// Shutdowner is implemented by models that hold work to cancel on quit.
type Shutdowner interface {
	Shutdown()
}

// FrameConfig controls the chrome drawn around a screen.
type FrameConfig struct {
	Footer    bool
	MinWidth  int
	MinHeight int
	// Help, when set, is shown as an overlay on '?'.
	Help func() string
}

// Frame scrolls a screen that may outgrow the terminal (the results panel
// does with many items) and owns the global keys: ctrl+c, q and ?.
type Frame struct {
	screen tea.Model
	pager  viewport.Model
	cfg    FrameConfig

	width, height int
	help          string // non-empty while the overlay is open
}

func NewFrame(screen tea.Model, cfg FrameConfig) *Frame {
	pager := viewport.New(80, 24)
	// arrows and letters belong to the screen
	pager.KeyMap.Up.SetEnabled(false)
	pager.KeyMap.Down.SetEnabled(false)
	pager.KeyMap.PageUp.SetKeys("pgup")
	pager.KeyMap.PageDown.SetKeys("pgdown")
	pager.KeyMap.HalfPageUp.SetKeys("ctrl+u")
	pager.KeyMap.HalfPageDown.SetKeys("ctrl+d")

	f := &Frame{screen: screen, pager: pager, cfg: cfg}
	f.resize(80, 24)
	return f
}

func (f *Frame) Init() tea.Cmd {
	return f.screen.Init()
}

func (f *Frame) resize(width, height int) {
	f.width = max(width, f.cfg.MinWidth)
	f.height = max(height, f.cfg.MinHeight)

	body := f.height
	if f.cfg.Footer {
		body--
	}
	f.pager.Width = f.width
	f.pager.Height = max(body, 1)
}

func (f *Frame) capturing() bool {
	c, ok := f.screen.(InputCapturer)
	return ok && c.CapturingInput()
}

func (f *Frame) quit() (tea.Model, tea.Cmd) {
	if s, ok := f.screen.(Shutdowner); ok {
		s.Shutdown()
	}
	return f, tea.Quit
}

func (f *Frame) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		logger.Log("Frame: resize to %dx%d", msg.Width, msg.Height)
		f.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		f.screen, cmd = f.screen.Update(msg)
		return f, cmd

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return f.quit()
		}
		if f.help != "" {
			if key == "?" || key == "esc" || key == "q" {
				f.help = ""
			}
			return f, nil
		}
		if !f.capturing() {
			switch {
			case key == "q":
				return f.quit()
			case key == "?" && f.cfg.Help != nil:
				f.help = f.cfg.Help()
				return f, nil
			}
		}
	}

	var cmd, pagerCmd tea.Cmd
	f.screen, cmd = f.screen.Update(msg)
	f.pager, pagerCmd = f.pager.Update(msg)
	return f, tea.Batch(cmd, pagerCmd)
}

func (f *Frame) View() string {
	if f.help != "" {
		return f.helpOverlay()
	}

	f.pager.SetContent(f.screen.View())
	if !f.cfg.Footer {
		return f.pager.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, f.pager.View(), f.footer())
}

func (f *Frame) footer() string {
	keys := []string{"pgup/pgdown scroll", "ctrl+c quit"}
	if f.cfg.Help != nil {
		keys = append([]string{"? help"}, keys...)
	}
	return helpStyle.Render(strings.Join(keys, " • "))
}

func (f *Frame) helpOverlay() string {
	box := lipgloss.NewStyle().
		Width(f.width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		f.help,
		"",
		helpStyle.Render("Press '?' or Esc to close"),
	))
}
