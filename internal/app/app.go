package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/foodshare/ladle/internal/config"
	"github.com/foodshare/ladle/internal/foodshare"
	"github.com/foodshare/ladle/internal/location"
	"github.com/foodshare/ladle/internal/prefs"
	"github.com/foodshare/ladle/internal/querycache"
	"github.com/foodshare/ladle/internal/search"
	"github.com/foodshare/ladle/internal/state"
	"github.com/foodshare/ladle/internal/submit"
	"github.com/foodshare/ladle/internal/ui"
	"github.com/foodshare/ladle/internal/upload"
)

// Options configure the Ladle application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/ladle/prefs.toml
	PollEvery  int    // seconds; zero uses default
}

// Run boots the Ladle TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := foodshare.NewClient(cfg.APIBase, cfg.SessionToken)
	if err != nil {
		return fmt.Errorf("init foodshare client: %w", err)
	}

	cache := querycache.New()
	composer := search.NewComposer(cache, client)

	locService := buildLocationService(cfg)

	pipeline := upload.NewPipeline(client)
	coordinator := submit.NewCoordinator(client, pipeline, composer, composer.Profile)

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller and populate the store before the UI starts.
	refresh(ctx, store, composer)
	StartPoller(ctx, store, composer, interval)

	uiOpts := ui.Options{
		Context:   ctx,
		Composer:  composer,
		Submitter: coordinator,
		Store:     store,
		Location:  locService,
		Profiles:  client,
		PollTick:  interval,
		ThemeName: userPrefs.Theme,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// buildLocationService assembles the location capability from config. A
// geocoder init failure degrades to coordinates-only acquisition.
func buildLocationService(cfg config.Config) *location.Service {
	source := location.FixedSource{Enabled: cfg.LocationEnabled}
	if cfg.Latitude != nil && cfg.Longitude != nil {
		source.Coords = &location.Coordinates{Latitude: *cfg.Latitude, Longitude: *cfg.Longitude}
	}

	var geocoder location.Geocoder
	if gc, err := location.NewHTTPGeocoder(cfg.GeocoderBase); err != nil {
		log.Printf("geocoder disabled: %v", err)
	} else {
		geocoder = gc
	}

	return location.NewService(source, geocoder)
}
