package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foodshare/ladle/internal/location"
	"github.com/foodshare/ladle/internal/prefs"
	"github.com/foodshare/ladle/internal/search"
	"github.com/foodshare/ladle/internal/state"
	"github.com/foodshare/ladle/internal/submit"
)

// Options configure the UI runtime.
type Options struct {
	Context   context.Context
	Composer  *search.Composer
	Submitter *submit.Coordinator
	Store     *state.Store
	Location  *location.Service
	Profiles  ProfileSaver
	PollTick  time.Duration
	ThemeName string
	Prefs     prefs.Prefs
	PrefsPath string
}

const defaultUITick = time.Second

// Run starts the bubbletea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	if opts.Composer == nil {
		return fmt.Errorf("ui requires a search composer")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	p := tea.NewProgram(newModel(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if err == tea.ErrProgramKilled && opts.Context.Err() != nil {
		return nil // context cancellation is a clean shutdown
	}
	return err
}

type tabID int

const (
	tabHome tabID = iota
	tabDiscover
	tabDonate
	tabProfile
	tabCount
)

func (t tabID) String() string {
	switch t {
	case tabHome:
		return "Home"
	case tabDiscover:
		return "Discover"
	case tabDonate:
		return "Donate"
	case tabProfile:
		return "Profile"
	}
	return "?"
}

// tickMsg drives the home tab's periodic snapshot refresh.
type tickMsg time.Time

type model struct {
	opts   Options
	keys   keyMap
	styles Styles
	theme  string

	width  int
	height int

	active   tabID
	showHelp bool

	home     homeModel
	discover discoverModel
	donate   donateModel
	profile  profileModel
}

func newModel(opts Options) model {
	theme := GetTheme(opts.ThemeName)
	styles := theme.Styles()
	return model{
		opts:     opts,
		keys:     DefaultKeyMap(),
		styles:   styles,
		theme:    theme.Name,
		home:     newHomeModel(opts.Store),
		discover: newDiscoverModel(opts.Context, opts.Composer, opts.Location, opts.Prefs.LastCategory),
		donate:   newDonateModel(opts.Context, opts.Submitter, opts.Location),
		profile:  newProfileModel(opts.Context, opts.Composer, opts.Profiles, opts.Location),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tick(),
		m.discover.loadCategories(),
		m.profile.load(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(defaultUITick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.discover.resize(msg.Width, msg.Height)
		m.donate.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.home.snapshot = m.opts.Store.Snapshot()
		return m, tick()

	case tea.KeyMsg:
		// Text inputs swallow printable keys, so global bindings only
		// apply when the active tab is not capturing input.
		if !m.capturingInput() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.showHelp = !m.showHelp
				return m, nil
			case key.Matches(msg, m.keys.CycleTheme):
				m.cycleTheme()
				return m, nil
			case key.Matches(msg, m.keys.TabHome):
				m.active = tabHome
				return m, nil
			case key.Matches(msg, m.keys.TabDiscover):
				m.active = tabDiscover
				return m, nil
			case key.Matches(msg, m.keys.TabDonate):
				m.active = tabDonate
				return m, nil
			case key.Matches(msg, m.keys.TabProfile):
				m.active = tabProfile
				return m, m.profile.load()
			case key.Matches(msg, m.keys.Tab):
				m.active = (m.active + 1) % tabCount
				return m, nil
			case key.Matches(msg, m.keys.ShiftTab):
				m.active = (m.active + tabCount - 1) % tabCount
				return m, nil
			}
		} else if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	return m.updateActiveTab(msg)
}

// capturingInput reports whether the focused tab owns the keyboard.
func (m model) capturingInput() bool {
	switch m.active {
	case tabDiscover:
		return m.discover.capturingInput()
	case tabDonate:
		return m.donate.capturingInput()
	case tabProfile:
		return m.profile.capturingInput()
	}
	return false
}

// updateActiveTab routes key presses to the focused tab only. Everything
// else (fetch results, spinner ticks) fans out to all tabs, since a result
// can arrive after the user has switched away.
func (m model) updateActiveTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); isKey {
		var cmd tea.Cmd
		switch m.active {
		case tabDiscover:
			prevCat := m.discover.categoryName()
			m.discover, cmd = m.discover.update(msg, m.keys)
			if cat := m.discover.categoryName(); cat != prevCat {
				m.opts.Prefs.LastCategory = cat
				_ = prefs.Save(m.opts.PrefsPath, m.opts.Prefs)
			}
		case tabDonate:
			m.donate, cmd = m.donate.update(msg, m.keys)
		case tabProfile:
			m.profile, cmd = m.profile.update(msg, m.keys)
		}
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.discover, cmd = m.discover.update(msg, m.keys)
	cmds = append(cmds, cmd)
	m.donate, cmd = m.donate.update(msg, m.keys)
	cmds = append(cmds, cmd)
	m.profile, cmd = m.profile.update(msg, m.keys)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) cycleTheme() {
	m.theme = NextTheme(m.theme)
	m.styles = GetTheme(m.theme).Styles()
	m.opts.Prefs.Theme = m.theme
	_ = prefs.Save(m.opts.PrefsPath, m.opts.Prefs)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	switch m.active {
	case tabHome:
		b.WriteString(m.home.view(m.styles, time.Now()))
	case tabDiscover:
		b.WriteString(m.discover.view(m.styles, time.Now()))
	case tabDonate:
		b.WriteString(m.donate.view(m.styles))
	case tabProfile:
		b.WriteString(m.profile.view(m.styles))
	}

	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m model) headerView() string {
	parts := make([]string, 0, int(tabCount))
	for t := tabHome; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.active {
			parts = append(parts, m.styles.TabActive.Render(label))
		} else {
			parts = append(parts, m.styles.TabInactive.Render(label))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	title := m.styles.AccentText.Bold(true).Render("Ladle")
	line := title + "  " + tabs
	if m.opts.Store.Snapshot().IsOffline() {
		line += "  " + m.styles.StatusStyle("offline").Render("OFFLINE")
	}
	return line
}

func (m model) footerView() string {
	if m.showHelp {
		return m.styles.Footer.Render(m.helpText())
	}
	return m.styles.Footer.Render("tab switch · / search · c category · T theme · ? help · q quit")
}

func (m model) helpText() string {
	hints := []string{
		"1-4 jump to tab",
		"tab/shift+tab cycle tabs",
		"/ search listings",
		"c cycle category",
		"l toggle nearby",
		"r refresh",
		"ctrl+s submit listing",
		"T cycle theme",
		"q quit",
	}
	return strings.Join(hints, " · ")
}
