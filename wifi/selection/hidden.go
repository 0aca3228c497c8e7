package selection

import (
	"context"
	"slices"

	"github.com/shazow/wifiselect/wifi"
	"github.com/shazow/wifiselect/wifi/scan"
)

// ActiveScanDecider picks saved networks likely to be hidden and not seen in
// the passive scan. Higher hidden probabilities go first, store order breaks
// ties, and at most MaxActiveScanNetworks are returned.
func (s *Selector) ActiveScanDecider(ctx context.Context) scan.ActiveScanDecider {
	return func(seen []wifi.SSID) []wifi.NetworkIdentifier {
		networks, err := s.store.GetNetworks(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to load saved networks for active scan")
			return nil
		}
		var likely []wifi.SavedNetwork
		for _, n := range networks {
			if n.HiddenProbability <= s.cfg.HiddenProbabilityThreshold || slices.Contains(seen, n.ID.SSID) {
				continue
			}
			likely = append(likely, n)
		}
		slices.SortStableFunc(likely, func(a, b wifi.SavedNetwork) int {
			switch {
			case a.HiddenProbability > b.HiddenProbability:
				return -1
			case a.HiddenProbability < b.HiddenProbability:
				return 1
			}
			return 0
		})
		if limit := s.cfg.MaxActiveScanNetworks; limit > 0 && len(likely) > limit {
			likely = likely[:limit]
		}

		ids := make([]wifi.NetworkIdentifier, 0, len(likely))
		for _, n := range likely {
			ids = append(ids, n.ID)
		}
		if len(ids) > 0 {
			s.log.Debug().Int("networks", len(ids)).Msg("Probing for hidden networks")
		}
		return ids
	}
}
