package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foodshare/ladle/internal/foodshare"
	"github.com/foodshare/ladle/internal/location"
	"github.com/foodshare/ladle/internal/querycache"
	"github.com/foodshare/ladle/internal/search"
)

type categoriesMsg struct {
	categories []foodshare.Category
	err        error
}

type listingsMsg struct {
	key      querycache.Key
	listings []foodshare.Listing
	err      error
}

type locationMsg struct {
	fix location.Fix
	err error
}

// discoverModel is the multi-criterion search tab: free text, category
// filter, and optional proximity from the location service.
type discoverModel struct {
	ctx      context.Context
	composer *search.Composer
	location *location.Service

	input textinput.Model
	spin  spinner.Model

	searching bool // input focused
	loading   bool

	categories  []foodshare.Category
	categoryIdx int // -1 = all categories
	initialCat  string

	useLocation bool
	coords      *location.Coordinates
	address     string

	committed string // last confirmed search text
	listings  []foodshare.Listing
	cursor    int
	err       error

	width  int
	height int
}

func newDiscoverModel(ctx context.Context, composer *search.Composer, loc *location.Service, lastCategory string) discoverModel {
	input := textinput.New()
	input.Placeholder = "search for food..."
	input.CharLimit = 80

	return discoverModel{
		ctx:         ctx,
		composer:    composer,
		location:    loc,
		input:       input,
		spin:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		categoryIdx: -1,
		initialCat:  lastCategory,
	}
}

func (d *discoverModel) resize(width, height int) {
	d.width = width
	d.height = height
	d.input.Width = min(width-8, 60)
}

func (d discoverModel) capturingInput() bool {
	return d.searching
}

// categoryName returns the active category filter, empty for all.
func (d discoverModel) categoryName() string {
	if d.categoryIdx < 0 || d.categoryIdx >= len(d.categories) {
		return ""
	}
	return d.categories[d.categoryIdx].Name
}

func (d discoverModel) query() search.Query {
	q := search.Query{Text: d.committed, Category: d.categoryName()}
	if d.useLocation && d.coords != nil {
		q.Coords = d.coords
	}
	return q
}

func (d discoverModel) loadCategories() tea.Cmd {
	composer, ctx := d.composer, d.ctx
	return func() tea.Msg {
		cats, err := composer.Categories(ctx)
		return categoriesMsg{categories: cats, err: err}
	}
}

func (d discoverModel) fetch() tea.Cmd {
	composer, ctx, q := d.composer, d.ctx, d.query()
	return func() tea.Msg {
		items, err := composer.Listings(ctx, q)
		return listingsMsg{key: q.CacheKey(), listings: items, err: err}
	}
}

func (d discoverModel) acquireLocation() tea.Cmd {
	svc, ctx := d.location, d.ctx
	return func() tea.Msg {
		if svc == nil {
			return locationMsg{err: location.ErrUnavailable}
		}
		fix, err := svc.Acquire(ctx)
		return locationMsg{fix: fix, err: err}
	}
}

func (d discoverModel) update(msg tea.Msg, keys keyMap) (discoverModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesMsg:
		if msg.err != nil {
			d.err = msg.err
			return d, nil
		}
		d.categories = msg.categories
		if d.initialCat != "" {
			for i, cat := range d.categories {
				if cat.Name == d.initialCat {
					d.categoryIdx = i
					break
				}
			}
			d.initialCat = ""
		}
		d.loading = true
		return d, tea.Batch(d.fetch(), d.spin.Tick)

	case listingsMsg:
		if msg.key != d.query().CacheKey() {
			return d, nil // stale response for a superseded query
		}
		d.loading = false
		if msg.err != nil {
			d.err = msg.err
			return d, nil
		}
		d.err = nil
		d.listings = msg.listings
		if d.cursor >= len(d.listings) {
			d.cursor = max(len(d.listings)-1, 0)
		}
		return d, nil

	case locationMsg:
		if msg.err != nil {
			d.err = msg.err
			d.useLocation = false
			return d, nil
		}
		coords := msg.fix.Coords
		d.coords = &coords
		d.address = msg.fix.Address.Line()
		d.err = nil
		d.loading = true
		return d, tea.Batch(d.fetch(), d.spin.Tick)

	case spinner.TickMsg:
		if !d.loading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spin, cmd = d.spin.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		return d.handleKey(msg, keys)
	}
	return d, nil
}

func (d discoverModel) handleKey(msg tea.KeyMsg, keys keyMap) (discoverModel, tea.Cmd) {
	if d.searching {
		switch {
		case key.Matches(msg, keys.Confirm):
			d.searching = false
			d.input.Blur()
			d.committed = d.input.Value()
			d.loading = true
			return d, tea.Batch(d.fetch(), d.spin.Tick)
		case key.Matches(msg, keys.Escape):
			d.searching = false
			d.input.Blur()
			d.input.SetValue(d.committed)
			return d, nil
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}

	switch {
	case key.Matches(msg, keys.Search):
		d.searching = true
		return d, d.input.Focus()

	case key.Matches(msg, keys.CycleCategory):
		if len(d.categories) == 0 {
			return d, nil
		}
		d.categoryIdx++
		if d.categoryIdx >= len(d.categories) {
			d.categoryIdx = -1
		}
		d.loading = true
		return d, tea.Batch(d.fetch(), d.spin.Tick)

	case key.Matches(msg, keys.UseLocation):
		if d.useLocation {
			d.useLocation = false
			d.coords = nil
			d.address = ""
			d.loading = true
			return d, tea.Batch(d.fetch(), d.spin.Tick)
		}
		d.useLocation = true
		return d, d.acquireLocation()

	case key.Matches(msg, keys.Refresh):
		d.composer.Cache().Invalidate(search.GroupListings)
		d.loading = true
		return d, tea.Batch(d.fetch(), d.spin.Tick)

	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
		return d, nil

	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.listings)-1 {
			d.cursor++
		}
		return d, nil

	case key.Matches(msg, keys.Escape):
		if d.committed != "" {
			d.committed = ""
			d.input.SetValue("")
			d.loading = true
			return d, tea.Batch(d.fetch(), d.spin.Tick)
		}
		return d, nil
	}
	return d, nil
}

func (d discoverModel) view(styles Styles, now time.Time) string {
	var b strings.Builder

	prompt := d.input.View()
	if d.searching {
		b.WriteString(styles.PanelFocus.Render(prompt))
	} else {
		b.WriteString(styles.Panel.Render(prompt))
	}
	b.WriteString("\n")

	filters := "category: " + orAll(d.categoryName())
	if d.useLocation && d.coords != nil {
		near := "near you"
		if d.address != "" {
			near = "near " + d.address
		}
		filters += " · " + near
	}
	b.WriteString(styles.MutedText.Render(filters))
	b.WriteString("\n\n")

	switch {
	case d.loading:
		b.WriteString(d.spin.View() + styles.MutedText.Render(" searching..."))
		b.WriteString("\n")
	case d.err != nil:
		b.WriteString(styles.DangerText.Render(describeError(d.err)))
		b.WriteString("\n")
	case len(d.listings) == 0:
		b.WriteString(styles.MutedText.Render("no listings match"))
		b.WriteString("\n")
	default:
		for i, l := range d.listings {
			line := fmt.Sprintf("%s  %s  %s  %s",
				truncate(l.Title, 30),
				quantityLabel(l),
				distanceLabel(l.DistanceKm),
				expiryLabel(l, now))
			if i == d.cursor {
				b.WriteString(styles.Selected.Render("> " + line))
			} else {
				b.WriteString(styles.Text.Render("  " + line))
			}
			b.WriteString("\n")
			if i == d.cursor {
				detail := donorLabel(l) + " · " + truncate(l.PickupLocation, 48)
				if l.Description != "" {
					detail += "\n    " + truncate(l.Description, 64)
				}
				b.WriteString(styles.FaintText.Render("    " + detail))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func orAll(value string) string {
	if value == "" {
		return "all"
	}
	return value
}

// describeError maps location failures to actionable copy and passes API
// errors through as-is.
func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, location.ErrPermissionDenied):
		return "location permission denied - enable it in config.toml"
	case errors.Is(err, location.ErrUnavailable):
		return "location unavailable - set coordinates in config.toml"
	}
	return err.Error()
}
