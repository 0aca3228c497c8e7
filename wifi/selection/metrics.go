package selection

import (
	"context"

	"github.com/shazow/wifiselect/wifi"
)

// logScanMetrics summarizes how saved networks showed up in a scan round.
func (s *Selector) logScanMetrics(ctx context.Context, results []wifi.ScanResult) {
	networks, err := s.store.GetNetworks(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Skipping scan metrics, saved networks unavailable")
		return
	}
	table := buildSavedNetworkTable(networks, s.now().Add(-s.cfg.RecentFailureWindow), s.hasher, s.log)
	wpa3 := s.ifaces.HasWPA3CapableClient(ctx)

	var (
		observed   = map[wifi.NetworkIdentifier]int{}
		activeOnly = map[wifi.NetworkIdentifier]bool{}
	)
	for _, c := range buildCandidates(table, results, wpa3) {
		id := c.id()
		if _, ok := observed[id]; !ok {
			activeOnly[id] = true
		}
		observed[id]++
		if c.bss.ObservedInPassiveScan {
			activeOnly[id] = false
		}
	}

	var single, multiple, hidden int
	for id, n := range observed {
		if n > 1 {
			multiple++
		} else {
			single++
		}
		if activeOnly[id] {
			hidden++
		}
	}
	s.log.Info().
		Int("networks", len(results)).
		Int("saved", len(networks)).
		Int("saved_observed", len(observed)).
		Int("saved_active_only", hidden).
		Int("saved_single_bss", single).
		Int("saved_multi_bss", multiple).
		Msg("Scan metrics")
}
