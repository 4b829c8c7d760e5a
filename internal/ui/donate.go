package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foodshare/ladle/internal/foodshare"
	"github.com/foodshare/ladle/internal/location"
	"github.com/foodshare/ladle/internal/submit"
	"github.com/foodshare/ladle/internal/upload"
)

type submitDoneMsg struct {
	result *submit.Result
	err    error
}

type donateLocationMsg struct {
	fix location.Fix
	err error
}

// Form field order. Images holds comma-separated local paths.
const (
	fieldTitle = iota
	fieldDescription
	fieldQuantity
	fieldUnit
	fieldExpiry
	fieldPickup
	fieldInstructions
	fieldSafety
	fieldDietary
	fieldImages
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title",
	"Description",
	"Quantity",
	"Unit",
	"Expiry (YYYY-MM-DD)",
	"Pickup location",
	"Pickup instructions",
	"Safety notes",
	"Dietary info",
	"Image files",
}

// donateModel is the listing submission form. It owns the keyboard while
// focused and hands the completed draft to the submission coordinator.
type donateModel struct {
	ctx       context.Context
	submitter *submit.Coordinator
	location  *location.Service

	inputs [fieldCount]textinput.Model
	focus  int
	spin   spinner.Model

	categories  []foodshare.Category
	categoryIdx int // -1 = uncategorized

	coords     *location.Coordinates
	address    string
	editing    bool
	submitting bool

	lastErr  error
	success  string
	warnings []string

	width int
}

func newDonateModel(ctx context.Context, submitter *submit.Coordinator, loc *location.Service) donateModel {
	d := donateModel{
		ctx:         ctx,
		submitter:   submitter,
		location:    loc,
		spin:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		categoryIdx: -1,
		editing:     true,
	}
	for i := range d.inputs {
		input := textinput.New()
		input.Placeholder = fieldLabels[i]
		input.CharLimit = 200
		d.inputs[i] = input
	}
	d.inputs[fieldTitle].Focus()
	return d
}

func (d *donateModel) resize(width, height int) {
	d.width = width
	for i := range d.inputs {
		d.inputs[i].Width = min(width-28, 60)
	}
}

func (d donateModel) capturingInput() bool {
	return d.editing && !d.submitting
}

// categoryName returns the selected category label, empty for none.
func (d donateModel) categoryName() string {
	if d.categoryIdx < 0 || d.categoryIdx >= len(d.categories) {
		return ""
	}
	return d.categories[d.categoryIdx].Name
}

func (d donateModel) draft() submit.Draft {
	draft := submit.Draft{
		Title:              d.inputs[fieldTitle].Value(),
		Description:        d.inputs[fieldDescription].Value(),
		Quantity:           d.inputs[fieldQuantity].Value(),
		Unit:               d.inputs[fieldUnit].Value(),
		ExpiryDate:         d.inputs[fieldExpiry].Value(),
		PickupLocation:     d.inputs[fieldPickup].Value(),
		PickupInstructions: d.inputs[fieldInstructions].Value(),
		SafetyNotes:        d.inputs[fieldSafety].Value(),
		DietaryInfo:        d.inputs[fieldDietary].Value(),
		Coords:             d.coords,
		Assets:             parseAssets(d.inputs[fieldImages].Value()),
	}
	if d.categoryIdx >= 0 && d.categoryIdx < len(d.categories) {
		id := d.categories[d.categoryIdx].ID
		draft.CategoryID = &id
	}
	return draft
}

// parseAssets splits a comma-separated path list into upload assets.
func parseAssets(raw string) []upload.LocalAsset {
	var assets []upload.LocalAsset
	for _, part := range strings.Split(raw, ",") {
		path := strings.TrimSpace(part)
		if path == "" {
			continue
		}
		assets = append(assets, upload.NewLocalAsset(path))
	}
	return assets
}

func (d donateModel) submit() tea.Cmd {
	submitter, ctx, draft := d.submitter, d.ctx, d.draft()
	return func() tea.Msg {
		result, err := submitter.Submit(ctx, draft)
		return submitDoneMsg{result: result, err: err}
	}
}

func (d donateModel) acquireLocation() tea.Cmd {
	svc, ctx := d.location, d.ctx
	return func() tea.Msg {
		if svc == nil {
			return donateLocationMsg{err: location.ErrUnavailable}
		}
		fix, err := svc.Acquire(ctx)
		return donateLocationMsg{fix: fix, err: err}
	}
}

func (d donateModel) update(msg tea.Msg, keys keyMap) (donateModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesMsg:
		if msg.err == nil {
			d.categories = msg.categories
		}
		return d, nil

	case submitDoneMsg:
		d.submitting = false
		if msg.err != nil {
			d.lastErr = msg.err
			return d, nil
		}
		d.lastErr = nil
		d.success = fmt.Sprintf("%q is now shared", msg.result.Listing.Title)
		d.warnings = nil
		for _, failed := range msg.result.FailedUploads {
			d.warnings = append(d.warnings, fmt.Sprintf("photo %s not uploaded: %v", failed.AssetID, failed.Err))
		}
		d.reset()
		return d, nil

	case donateLocationMsg:
		if msg.err != nil {
			d.lastErr = msg.err
			return d, nil
		}
		coords := msg.fix.Coords
		d.coords = &coords
		d.address = msg.fix.Address.Line()
		if d.address != "" && d.inputs[fieldPickup].Value() == "" {
			d.inputs[fieldPickup].SetValue(d.address)
		}
		d.lastErr = nil
		return d, nil

	case spinner.TickMsg:
		if !d.submitting {
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

func (d donateModel) handleKey(msg tea.KeyMsg, keys keyMap) (donateModel, tea.Cmd) {
	if d.submitting {
		return d, nil // ignore typing mid-submission
	}

	if !d.editing {
		if key.Matches(msg, keys.Confirm) {
			d.editing = true
			d.inputs[d.focus].Focus()
		}
		return d, nil
	}

	switch {
	case key.Matches(msg, keys.Escape):
		d.editing = false
		d.inputs[d.focus].Blur()
		return d, nil

	case key.Matches(msg, keys.Submit):
		d.success = ""
		d.warnings = nil
		d.submitting = true
		return d, tea.Batch(d.submit(), d.spin.Tick)

	case msg.Type == tea.KeyCtrlL:
		return d, d.acquireLocation()

	case msg.Type == tea.KeyCtrlK:
		if len(d.categories) == 0 {
			return d, nil
		}
		d.categoryIdx++
		if d.categoryIdx >= len(d.categories) {
			d.categoryIdx = -1
		}
		return d, nil

	case key.Matches(msg, keys.NextField):
		d.setFocus((d.focus + 1) % fieldCount)
		return d, nil

	case key.Matches(msg, keys.PrevField):
		d.setFocus((d.focus + fieldCount - 1) % fieldCount)
		return d, nil

	case key.Matches(msg, keys.Confirm):
		if d.focus == fieldCount-1 {
			d.success = ""
			d.warnings = nil
			d.submitting = true
			return d, tea.Batch(d.submit(), d.spin.Tick)
		}
		d.setFocus(d.focus + 1)
		return d, nil
	}

	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return d, cmd
}

func (d *donateModel) setFocus(idx int) {
	d.inputs[d.focus].Blur()
	d.focus = idx
	d.inputs[d.focus].Focus()
}

// reset clears the form after a successful submission. The pin and the
// category are per-listing too, not sticky state.
func (d *donateModel) reset() {
	for i := range d.inputs {
		d.inputs[i].SetValue("")
	}
	d.coords = nil
	d.address = ""
	d.categoryIdx = -1
	d.setFocus(fieldTitle)
}

func (d donateModel) view(styles Styles) string {
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Share food"))
	b.WriteString("\n\n")

	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-20s", "Category")))
	b.WriteString(styles.AccentText.Render(orUncategorized(d.categoryName())))
	b.WriteString(styles.FaintText.Render("  (ctrl+k to change)"))
	b.WriteString("\n")

	for i := range d.inputs {
		label := fmt.Sprintf("%-20s", fieldLabels[i])
		if i == d.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(d.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if d.coords != nil {
		pin := "pinned at " + d.coords.String()
		if d.address != "" {
			pin = "pinned near " + d.address
		}
		b.WriteString(styles.InfoText.Render(pin) + "\n")
	} else {
		b.WriteString(styles.FaintText.Render("ctrl+l to pin your location") + "\n")
	}

	switch {
	case d.submitting:
		b.WriteString(d.spin.View() + styles.MutedText.Render(" "+d.submitter.Phase().String()+"..."))
		b.WriteString("\n")
	case d.lastErr != nil:
		b.WriteString(styles.DangerText.Render(submitErrorText(d.lastErr)) + "\n")
	case d.success != "":
		b.WriteString(styles.SuccessText.Render(d.success) + "\n")
		for _, w := range d.warnings {
			b.WriteString(styles.WarningText.Render(w) + "\n")
		}
	}

	b.WriteString("\n")
	if d.editing {
		b.WriteString(styles.FaintText.Render("enter next field · ctrl+k category · ctrl+l pin location · ctrl+s submit · esc leave form"))
	} else {
		b.WriteString(styles.FaintText.Render("enter to edit the form"))
	}
	return b.String()
}

func orUncategorized(name string) string {
	if name == "" {
		return "uncategorized"
	}
	return name
}

// submitErrorText flattens validation failures into the field list and
// leaves other errors untouched.
func submitErrorText(err error) string {
	var vErr *submit.ValidationError
	if errors.As(err, &vErr) {
		return "fix these fields: " + strings.Join(vErr.Fields, ", ")
	}
	return err.Error()
}
