package selection

import (
	"context"
	"slices"

	"github.com/shazow/wifiselect/wifi"
)

// augment replaces the descriptor of a passively observed candidate with the
// one from a directed active scan on its channel. Any failure returns the
// candidate unchanged.
func (s *Selector) augment(ctx context.Context, c wifi.ConnectionCandidate, ch wifi.Channel) wifi.ConnectionCandidate {
	if c.ObservedInPassiveScan == nil {
		s.log.Error().Err(wifi.ErrAugmentationUnavailable).Msg("Candidate has no scan origin, not augmenting")
		return c
	}
	if !*c.ObservedInPassiveScan {
		return c
	}

	results, err := s.scanner.DirectedActiveScan(ctx, c.Network.SSID, []uint8{ch.Primary})
	if err != nil {
		s.log.Info().Err(err).Msg("Directed scan for augmentation failed")
		return c
	}
	for _, r := range results {
		for _, bss := range r.Entries {
			if bss.BSSID == c.BSSID {
				c.Descriptor = slices.Clone(bss.Descriptor)
				return c
			}
		}
	}
	s.log.Info().Err(wifi.ErrAugmentationUnavailable).Msg("Selected BSS not found by directed scan")
	return c
}
