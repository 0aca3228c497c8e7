package scan

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shazow/wifiselect/wifi"
)

// Config holds the scan tunables.
type Config struct {
	RetryDelay          time.Duration
	ChunkSize           int
	IteratorIdleTimeout time.Duration
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		RetryDelay:          DefaultRetryDelay,
		ChunkSize:           DefaultChunkSize,
		IteratorIdleTimeout: DefaultIdleTimeout,
	}
}

// Orchestrator runs scan rounds: a passive scan, an optional active scan,
// and fan-out of the merged results.
type Orchestrator struct {
	ifaces    wifi.IfaceManager
	store     wifi.SavedNetworkStore
	transport *Transport
	cfg       Config
	log       zerolog.Logger
}

// New creates an Orchestrator. store may be nil, in which case scan
// observations are not recorded.
func New(ifaces wifi.IfaceManager, store wifi.SavedNetworkStore, cfg Config, logger zerolog.Logger) *Orchestrator {
	logger = logger.With().Str("component", "scan").Logger()
	return &Orchestrator{
		ifaces:    ifaces,
		store:     store,
		transport: NewTransport(cfg.RetryDelay, logger),
		cfg:       cfg,
		log:       logger,
	}
}

// NewIterator returns a requester iterator configured for this orchestrator.
func (o *Orchestrator) NewIterator() *Iterator {
	return NewIterator(o.cfg.ChunkSize, o.cfg.IteratorIdleTimeout, o.log)
}

// RunScanRound runs one scan round. requester may be nil. The returned error
// is the one delivered to requester, wrapping ErrGeneral.
//
// Consumers are only invoked if the passive scan succeeded. If the active
// scan fails, consumers still get the passive results and only the requester
// sees the error.
func (o *Orchestrator) RunScanRound(ctx context.Context, requester *Iterator, consumers []Sink, decide ActiveScanDecider) error {
	log := o.log.With().Str("round", uuid.New().String()).Logger()

	handle, err := o.ifaces.ScanHandle(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get scan handle")
		return o.fail(log, requester, fmt.Errorf("%w: %w", ErrGeneral, wifi.ErrNoScanHandle))
	}

	passive, err := o.transport.Scan(ctx, handle, wifi.ScanRequest{Kind: wifi.ScanPassive})
	if err != nil {
		log.Error().Err(err).Msg("Passive scan failed")
		return o.fail(log, requester, fmt.Errorf("%w: %w", ErrGeneral, wifi.ErrScanFailed))
	}

	b := newBuckets()
	b.add(passive, true)
	o.record(ctx, log, wifi.ScanPassive, nil, observedIDs(passive, nil))

	var requesterErr error
	if decide != nil {
		if wanted := decide(b.ssids()); len(wanted) > 0 {
			if err := o.activeScan(ctx, log, handle, wanted, b); err != nil {
				log.Error().Err(err).Int("requested", len(wanted)).Msg("Active scan failed")
				requesterErr = fmt.Errorf("%w: %w", ErrGeneral, wifi.ErrScanFailed)
			}
		}
	}

	results := b.results()
	wifi.SortScanResults(results)
	log.Debug().Int("networks", len(results)).Int("consumers", len(consumers)).Msg("Scan round complete")

	o.deliver(ctx, log, results, requester, requesterErr, consumers)
	return requesterErr
}

func (o *Orchestrator) activeScan(ctx context.Context, log zerolog.Logger, handle wifi.ScanHandle, wanted []wifi.NetworkIdentifier, b *buckets) error {
	var ssids []wifi.SSID
	for _, id := range wanted {
		if !slices.Contains(ssids, id.SSID) {
			ssids = append(ssids, id.SSID)
		}
	}

	raw, err := o.transport.Scan(ctx, handle, wifi.ScanRequest{Kind: wifi.ScanActive, SSIDs: ssids})
	if err != nil {
		o.record(ctx, log, wifi.ScanActive, wanted, nil)
		return err
	}
	b.add(raw, false)
	o.record(ctx, log, wifi.ScanActive, wanted, observedIDs(raw, wanted))
	return nil
}

func (o *Orchestrator) record(ctx context.Context, log zerolog.Logger, kind wifi.ScanKind, requested, observed []wifi.NetworkIdentifier) {
	if o.store == nil {
		return
	}
	if err := o.store.RecordScanResult(ctx, kind, requested, observed); err != nil {
		log.Warn().Err(err).Stringer("kind", kind).Msg("Failed to record scan result")
	}
}

func (o *Orchestrator) fail(log zerolog.Logger, requester *Iterator, err error) error {
	if requester != nil {
		if derr := requester.deliver(nil, err); derr != nil {
			log.Warn().Err(derr).Msg("Failed to send scan error to requester")
		}
	}
	return err
}

// deliver fans results out to every target. Each target gets its own
// goroutine and reports its own errors so no target can fail another.
func (o *Orchestrator) deliver(ctx context.Context, log zerolog.Logger, results []wifi.ScanResult, requester *Iterator, requesterErr error, consumers []Sink) {
	var g errgroup.Group
	for i, c := range consumers {
		g.Go(func() error {
			if err := c.UpdateScanResults(ctx, cloneResults(results)); err != nil {
				log.Warn().Err(err).Int("consumer", i).Msg("Failed to deliver scan results")
			}
			return nil
		})
	}
	if requester != nil {
		g.Go(func() error {
			if err := requester.deliver(cloneResults(results), requesterErr); err != nil {
				log.Warn().Err(err).Msg("Failed to deliver scan results to requester")
			}
			return nil
		})
	}
	_ = g.Wait()
}

// DirectedActiveScan probes for a single SSID, optionally only on the given
// channels. Every returned BSS is marked as not observed passively.
func (o *Orchestrator) DirectedActiveScan(ctx context.Context, ssid wifi.SSID, channels []uint8) ([]wifi.ScanResult, error) {
	handle, err := o.ifaces.ScanHandle(ctx)
	if err != nil {
		return nil, fmt.Errorf("directed scan: %w: %w", wifi.ErrNoScanHandle, err)
	}
	raw, err := o.transport.Scan(ctx, handle, wifi.ScanRequest{
		Kind:     wifi.ScanActive,
		SSIDs:    []wifi.SSID{ssid},
		Channels: channels,
	})
	if err != nil {
		return nil, err
	}

	b := newBuckets()
	for _, r := range raw {
		if r.SSID == ssid {
			b.add([]wifi.RawBss{r}, false)
		}
	}
	results := b.results()
	wifi.SortScanResults(results)
	return results, nil
}

// observedIDs lists the identities a set of observations could satisfy. If
// wanted is set, only those identities are returned.
func observedIDs(raw []wifi.RawBss, wanted []wifi.NetworkIdentifier) []wifi.NetworkIdentifier {
	var ids []wifi.NetworkIdentifier
	add := func(id wifi.NetworkIdentifier) {
		if wanted != nil && !slices.Contains(wanted, id) {
			return
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, r := range raw {
		for _, wpa3 := range []bool{false, true} {
			sec, ok := wifi.SecurityFromProtection(r.Protection, wpa3)
			if !ok {
				continue
			}
			add(wifi.NetworkIdentifier{SSID: r.SSID, Security: sec})
			if sec == wifi.SecurityWPA2 {
				add(wifi.NetworkIdentifier{SSID: r.SSID, Security: wifi.SecurityWPA})
			}
		}
	}
	return ids
}

func cloneResults(results []wifi.ScanResult) []wifi.ScanResult {
	out := make([]wifi.ScanResult, len(results))
	for i, r := range results {
		r.Entries = slices.Clone(r.Entries)
		out[i] = r
	}
	return out
}
