// Package selection picks the best saved network to connect to from recent
// scan results.
package selection

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
	"github.com/shazow/wifiselect/wifi/scan"
)

// Scanner is the part of the scan orchestrator the selector drives.
type Scanner interface {
	RunScanRound(ctx context.Context, requester *scan.Iterator, consumers []scan.Sink, decide scan.ActiveScanDecider) error
	DirectedActiveScan(ctx context.Context, ssid wifi.SSID, channels []uint8) ([]wifi.ScanResult, error)
}

// Selector picks connection candidates. It caches the latest scan results it
// was given and triggers a new round when they are stale.
type Selector struct {
	store   wifi.SavedNetworkStore
	ifaces  wifi.IfaceManager
	scanner Scanner
	cfg     Config
	log     zerolog.Logger
	hasher  *hasher

	selections *SelectionLog

	// now is swapped out in tests.
	now func() time.Time

	mu        sync.Mutex
	updatedAt time.Time
	results   []wifi.ScanResult
	observers []scan.Sink
}

func New(store wifi.SavedNetworkStore, ifaces wifi.IfaceManager, scanner Scanner, cfg Config, logger zerolog.Logger) *Selector {
	return &Selector{
		store:      store,
		ifaces:     ifaces,
		scanner:    scanner,
		cfg:        cfg,
		log:        logger.With().Str("component", "selection").Logger(),
		hasher:     newHasher(),
		selections: NewSelectionLog(cfg.SelectionLogLimit),
		now:        time.Now,
	}
}

// AddObserver registers a sink that also receives rounds the selector starts.
func (s *Selector) AddObserver(sink scan.Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, sink)
}

// Selections returns the retained selection records, oldest first.
func (s *Selector) Selections() []SelectionRecord {
	return s.selections.Records()
}

// ScanSink returns the consumer that refreshes the selector's cache.
func (s *Selector) ScanSink() scan.Sink {
	return scan.SinkFunc(func(ctx context.Context, results []wifi.ScanResult) error {
		s.mu.Lock()
		s.updatedAt = s.now()
		s.results = results
		s.mu.Unlock()

		s.logScanMetrics(ctx, results)
		return nil
	})
}

// FindBestConnectionCandidate returns the best compatible saved network in
// range that is not in ignore. A nil candidate with a nil error means
// nothing qualified.
func (s *Selector) FindBestConnectionCandidate(ctx context.Context, ignore []wifi.NetworkIdentifier) (*wifi.ConnectionCandidate, error) {
	results := s.refreshScanResults(ctx)

	networks, err := s.store.GetNetworks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading saved networks: %w", err)
	}
	table := buildSavedNetworkTable(networks, s.now().Add(-s.cfg.RecentFailureWindow), s.hasher, s.log)
	wpa3 := s.ifaces.HasWPA3CapableClient(ctx)

	best, ok := s.selectBest(buildCandidates(table, results, wpa3), ignore)
	if !ok {
		return nil, nil
	}
	out := s.augment(ctx, best.connectionCandidate(), best.bss.Channel)
	return &out, nil
}

// FindConnectionCandidateForNetwork runs a directed active scan for id and
// returns the best BSS of that saved network. ObservedInPassiveScan is
// always nil on the result.
func (s *Selector) FindConnectionCandidateForNetwork(ctx context.Context, id wifi.NetworkIdentifier, wpa3Capable bool) (*wifi.ConnectionCandidate, error) {
	results, err := s.scanner.DirectedActiveScan(ctx, id.SSID, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("Directed scan for network failed")
		return nil, nil
	}

	networks, err := s.store.Lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("looking up saved network: %w", err)
	}
	table := buildSavedNetworkTable(networks, s.now().Add(-s.cfg.RecentFailureWindow), s.hasher, s.log)

	best, ok := s.selectBest(buildCandidates(table, results, wpa3Capable), nil)
	if !ok {
		return nil, nil
	}
	out := best.connectionCandidate()
	out.ObservedInPassiveScan = nil
	return &out, nil
}

// refreshScanResults returns the cached results, scanning first if they are
// missing or stale. A failed round yields no results.
func (s *Selector) refreshScanResults(ctx context.Context) []wifi.ScanResult {
	s.mu.Lock()
	age := s.now().Sub(s.updatedAt)
	if !s.updatedAt.IsZero() {
		s.log.Info().Dur("last_scan_age", age).Msg("Scan results requested")
		if age < s.cfg.StaleScanAge {
			results := s.results
			s.mu.Unlock()
			return results
		}
	}
	s.updatedAt = time.Time{}
	s.results = nil
	consumers := append([]scan.Sink{s.ScanSink()}, slices.Clone(s.observers)...)
	s.mu.Unlock()

	if err := s.scanner.RunScanRound(ctx, nil, consumers, s.ActiveScanDecider(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("Scan round for selection failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}
