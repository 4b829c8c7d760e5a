package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodshare/ladle/internal/state"
)

// homeModel renders the home tab from the poller's latest snapshot. It has
// no update loop of its own; the root model refreshes the snapshot on each
// UI tick.
type homeModel struct {
	store    *state.Store
	snapshot state.Snapshot
}

func newHomeModel(store *state.Store) homeModel {
	return homeModel{store: store, snapshot: store.Snapshot()}
}

func (h homeModel) view(styles Styles, now time.Time) string {
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Your impact"))
	b.WriteString("\n")
	if h.snapshot.HasStats {
		stats := h.snapshot.Stats
		b.WriteString(fmt.Sprintf("  %s donated   %s received   %s kg CO₂ saved   %s saved\n",
			styles.SuccessText.Render(fmt.Sprintf("%d", stats.ItemsDonated)),
			styles.InfoText.Render(fmt.Sprintf("%d", stats.ItemsReceived)),
			styles.AccentText.Render(fmt.Sprintf("%.1f", stats.CO2Saved)),
			styles.AccentText.Render(fmt.Sprintf("$%.2f", stats.ValueSaved))))
	} else {
		b.WriteString(styles.MutedText.Render("  waiting for stats...") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Text.Bold(true).Render("Recently shared nearby"))
	b.WriteString("\n")

	if len(h.snapshot.Recent) == 0 {
		b.WriteString(styles.MutedText.Render("  nothing shared recently") + "\n")
	}
	for _, l := range h.snapshot.Recent {
		badge := styles.StatusStyle(expiryStatus(l, now)).Render(expiryLabel(l, now))
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			styles.Text.Render(truncate(l.Title, 32)),
			styles.MutedText.Render(quantityLabel(l)),
			badge))
		b.WriteString(fmt.Sprintf("    %s\n",
			styles.FaintText.Render(donorLabel(l)+" · "+truncate(l.PickupLocation, 40))))
	}

	if h.snapshot.LastError != nil {
		b.WriteString("\n")
		when := ""
		if !h.snapshot.LastUpdated.IsZero() {
			when = " (last attempt " + h.snapshot.LastUpdated.Format("15:04:05") + ")"
		}
		b.WriteString(styles.DangerText.Render("FoodShare unreachable"+when) + "\n")
	}

	return b.String()
}
