package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/internal/config"
	wifilog "github.com/shazow/wifiselect/internal/log"
	"github.com/shazow/wifiselect/wifi"
	"github.com/shazow/wifiselect/wifi/mock"
	"github.com/shazow/wifiselect/wifi/savednetworks"
	"github.com/shazow/wifiselect/wifi/scan"
	"github.com/shazow/wifiselect/wifi/selection"
)

// options are the global flags.
type options struct {
	configPath string
	backend    string
	iface      string
	storePath  string
	debug      bool

	// openRadio is swapped out in tests.
	openRadio func(name, iface string, logger zerolog.Logger) (wifi.IfaceManager, error)
}

// session is everything a subcommand works with.
type session struct {
	cfg      config.Config
	log      zerolog.Logger
	radio    wifi.IfaceManager
	store    *savednetworks.Store
	scanner  *scan.Orchestrator
	selector *selection.Selector
	// sinks are extra consumers of every scan round.
	sinks   []scan.Sink
	closers []func()
}

// open loads the config and wires the store, radio, orchestrator and
// selector. interactive keeps log output off the terminal.
func (o *options) open(ctx context.Context, interactive bool) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Log.Debug = true
	}
	if o.storePath != "" {
		cfg.Store.Path = o.storePath
	}
	if interactive {
		cfg.Log.Output = "none"
	}
	logger, err := wifilog.Init(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("%w: log: %w", config.ErrInvalidConfig, err)
	}

	s := &session{cfg: cfg, log: logger}

	openRadio := o.openRadio
	if openRadio == nil {
		openRadio = openBackend
	}
	s.radio, err = openRadio(o.backend, o.iface, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open backend: %w", err)
	}

	s.store, err = savednetworks.Open(ctx, cfg.Store.Path, logger)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() {
		if err := s.store.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close store")
		}
	})
	if o.backend == backendMock {
		if err := seedMockNetworks(ctx, s.store); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.scanner = scan.New(s.radio, s.store, cfg.ScanConfig(), logger)
	s.selector = selection.New(s.store, s.radio, s.scanner, cfg.SelectionConfig(), logger)

	if cfg.Location.NATSURL != "" {
		sink, closer, err := scan.ConnectLocationSink(cfg.Location.NATSURL, cfg.Location.Subject, logger)
		if err != nil {
			// Publishing observations is optional.
			logger.Warn().Err(err).Str("url", cfg.Location.NATSURL).Msg("Location publishing disabled")
		} else {
			s.closers = append(s.closers, closer)
			s.sinks = append(s.sinks, sink)
			s.selector.AddObserver(sink)
		}
	}
	return s, nil
}

// Close releases the session in reverse order of opening.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// seedMockNetworks saves the mock radio's credentials into an empty store
// so the mock backend has something to select.
func seedMockNetworks(ctx context.Context, store wifi.SavedNetworkStore) error {
	existing, err := store.GetNetworks(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	var errs []error
	for _, n := range mock.SavedNetworks() {
		errs = append(errs, store.Store(ctx, n.ID, n.Credential))
		if n.HasEverConnected {
			errs = append(errs, store.RecordConnectResult(ctx, n.ID, wifi.BSSID{}, wifi.ConnectSuccess))
		}
	}
	return errors.Join(errs...)
}
