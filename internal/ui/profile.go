package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foodshare/ladle/internal/foodshare"
	"github.com/foodshare/ladle/internal/location"
	"github.com/foodshare/ladle/internal/search"
)

// ProfileSaver persists the user profile. *foodshare.Client implements it.
type ProfileSaver interface {
	SaveProfile(ctx context.Context, profile foodshare.UserProfile) (*foodshare.UserProfile, error)
}

type profileLoadedMsg struct {
	profile *foodshare.UserProfile
	stats   foodshare.UserStats
	err     error
}

type profileSavedMsg struct {
	profile *foodshare.UserProfile
	err     error
}

type profileLocationMsg struct {
	fix location.Fix
	err error
}

// Profile setup form fields.
const (
	profFieldName = iota
	profFieldPhone
	profFieldAddress
	profFieldOrg
	profFieldCount
)

var profFieldLabels = [profFieldCount]string{
	"Full name",
	"Phone",
	"Address",
	"Organization",
}

// profileModel shows the signed-in user's profile and impact stats, or the
// first-run setup form while no profile is on record.
type profileModel struct {
	ctx      context.Context
	composer *search.Composer
	saver    ProfileSaver
	location *location.Service

	loaded  bool
	profile *foodshare.UserProfile
	stats   foodshare.UserStats
	err     error

	// setup form
	inputs   [profFieldCount]textinput.Model
	focus    int
	userType string
	coords   *location.Coordinates
	saving   bool
}

func newProfileModel(ctx context.Context, composer *search.Composer, saver ProfileSaver, loc *location.Service) profileModel {
	p := profileModel{
		ctx:      ctx,
		composer: composer,
		saver:    saver,
		location: loc,
		userType: foodshare.UserTypeDonor,
	}
	for i := range p.inputs {
		input := textinput.New()
		input.Placeholder = profFieldLabels[i]
		input.CharLimit = 120
		input.Width = 40
		p.inputs[i] = input
	}
	p.inputs[profFieldName].Focus()
	return p
}

func (p profileModel) capturingInput() bool {
	return p.loaded && p.profile == nil && !p.saving
}

func (p profileModel) load() tea.Cmd {
	composer, ctx := p.composer, p.ctx
	return func() tea.Msg {
		profile, err := composer.Profile(ctx)
		if err != nil {
			return profileLoadedMsg{err: err}
		}
		stats, err := composer.Stats(ctx)
		if err != nil {
			return profileLoadedMsg{profile: profile, err: err}
		}
		return profileLoadedMsg{profile: profile, stats: stats}
	}
}

func (p profileModel) save() tea.Cmd {
	saver, composer, ctx := p.saver, p.composer, p.ctx
	profile := foodshare.UserProfile{
		UserType:         p.userType,
		FullName:         p.inputs[profFieldName].Value(),
		Phone:            p.inputs[profFieldPhone].Value(),
		Address:          p.inputs[profFieldAddress].Value(),
		OrganizationName: p.inputs[profFieldOrg].Value(),
	}
	if p.coords != nil {
		lat := p.coords.Latitude
		lng := p.coords.Longitude
		profile.Latitude = &lat
		profile.Longitude = &lng
	}
	return func() tea.Msg {
		if saver == nil {
			return profileSavedMsg{err: fmt.Errorf("profile saving is not wired")}
		}
		saved, err := saver.SaveProfile(ctx, profile)
		if err != nil {
			return profileSavedMsg{err: err}
		}
		// The cached read is now stale.
		composer.Cache().Invalidate(search.GroupProfile)
		return profileSavedMsg{profile: saved}
	}
}

func (p profileModel) acquireLocation() tea.Cmd {
	svc, ctx := p.location, p.ctx
	return func() tea.Msg {
		if svc == nil {
			return profileLocationMsg{err: location.ErrUnavailable}
		}
		fix, err := svc.Acquire(ctx)
		return profileLocationMsg{fix: fix, err: err}
	}
}

func (p profileModel) update(msg tea.Msg, keys keyMap) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		p.loaded = true
		if msg.err != nil {
			// A stats failure must not hide an existing profile, or the
			// first-run setup form would offer to overwrite it.
			if msg.profile != nil {
				p.profile = msg.profile
			}
			p.err = msg.err
			return p, nil
		}
		p.err = nil
		p.profile = msg.profile
		p.stats = msg.stats
		return p, nil

	case profileSavedMsg:
		p.saving = false
		if msg.err != nil {
			p.err = msg.err
			return p, nil
		}
		p.err = nil
		p.profile = msg.profile
		return p, nil

	case profileLocationMsg:
		if msg.err != nil {
			p.err = msg.err
			return p, nil
		}
		coords := msg.fix.Coords
		p.coords = &coords
		if line := msg.fix.Address.Line(); line != "" && p.inputs[profFieldAddress].Value() == "" {
			p.inputs[profFieldAddress].SetValue(line)
		}
		p.err = nil
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg, keys)
	}
	return p, nil
}

func (p profileModel) handleKey(msg tea.KeyMsg, keys keyMap) (profileModel, tea.Cmd) {
	if !p.capturingInput() {
		if key.Matches(msg, keys.Refresh) {
			p.composer.Cache().Invalidate(search.GroupProfile)
			p.composer.Cache().Invalidate(search.GroupStats)
			return p, p.load()
		}
		return p, nil
	}

	switch {
	case msg.Type == tea.KeyCtrlT:
		if p.userType == foodshare.UserTypeDonor {
			p.userType = foodshare.UserTypeRecipient
		} else {
			p.userType = foodshare.UserTypeDonor
		}
		return p, nil

	case msg.Type == tea.KeyCtrlL:
		return p, p.acquireLocation()

	case key.Matches(msg, keys.NextField):
		p.setFocus((p.focus + 1) % profFieldCount)
		return p, nil

	case key.Matches(msg, keys.PrevField):
		p.setFocus((p.focus + profFieldCount - 1) % profFieldCount)
		return p, nil

	case key.Matches(msg, keys.Submit):
		p.saving = true
		return p, p.save()

	case key.Matches(msg, keys.Confirm):
		if p.focus == profFieldCount-1 {
			p.saving = true
			return p, p.save()
		}
		p.setFocus(p.focus + 1)
		return p, nil
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return p, cmd
}

func (p *profileModel) setFocus(idx int) {
	p.inputs[p.focus].Blur()
	p.focus = idx
	p.inputs[p.focus].Focus()
}

func (p profileModel) view(styles Styles) string {
	var b strings.Builder

	if !p.loaded {
		return styles.MutedText.Render("loading profile...")
	}

	if p.profile == nil {
		b.WriteString(styles.Text.Bold(true).Render("Set up your profile"))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("You need a profile before you can share food."))
		b.WriteString("\n\n")

		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-16s", "I am a")))
		b.WriteString(styles.StatusStyle(p.userType).Render(p.userType))
		b.WriteString(styles.FaintText.Render("  (ctrl+t to switch)"))
		b.WriteString("\n")

		for i := range p.inputs {
			label := fmt.Sprintf("%-16s", profFieldLabels[i])
			if i == p.focus {
				b.WriteString(styles.AccentText.Render(label))
			} else {
				b.WriteString(styles.MutedText.Render(label))
			}
			b.WriteString(p.inputs[i].View())
			b.WriteString("\n")
		}

		b.WriteString("\n")
		if p.coords != nil {
			b.WriteString(styles.InfoText.Render("pinned at "+p.coords.String()) + "\n")
		}
		switch {
		case p.saving:
			b.WriteString(styles.MutedText.Render("saving..."))
		case p.err != nil:
			b.WriteString(styles.DangerText.Render(p.err.Error()))
		default:
			b.WriteString(styles.FaintText.Render("enter next field · ctrl+l use my location · ctrl+s save"))
		}
		return b.String()
	}

	b.WriteString(styles.Text.Bold(true).Render(p.profile.FullName))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(p.profile.UserType).Render(p.profile.UserType))
	b.WriteString("\n")

	if p.profile.OrganizationName != "" {
		b.WriteString(styles.InfoText.Render(p.profile.OrganizationName) + "\n")
	}
	if p.profile.Address != "" {
		b.WriteString(styles.MutedText.Render(p.profile.Address) + "\n")
	}
	if p.profile.Phone != "" {
		b.WriteString(styles.MutedText.Render(p.profile.Phone) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Text.Bold(true).Render("Impact"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  donated %s · received %s · %s kg CO₂ · %s\n",
		styles.SuccessText.Render(fmt.Sprintf("%d", p.stats.ItemsDonated)),
		styles.InfoText.Render(fmt.Sprintf("%d", p.stats.ItemsReceived)),
		styles.AccentText.Render(fmt.Sprintf("%.1f", p.stats.CO2Saved)),
		styles.AccentText.Render(fmt.Sprintf("$%.2f", p.stats.ValueSaved))))

	if p.err != nil {
		b.WriteString("\n" + styles.DangerText.Render(p.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("r refresh"))
	return b.String()
}
