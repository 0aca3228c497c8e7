package selection

import (
	"slices"

	"github.com/google/uuid"

	"github.com/shazow/wifiselect/wifi"
)

// selectBest drops ignored and incompatible candidates and returns the one
// with the highest score. On ties the earliest candidate wins. Every call is
// appended to the selection log.
func (s *Selector) selectBest(cands []candidate, ignore []wifi.NetworkIdentifier) (candidate, bool) {
	record := SelectionRecord{
		ID:   uuid.New(),
		Time: s.now(),
	}

	var (
		best      candidate
		bestScore int8
		found     bool
	)
	for _, c := range cands {
		if !c.bss.Compatible || slices.Contains(ignore, c.id()) {
			continue
		}
		sc := score(c, s.cfg)
		record.Candidates = append(record.Candidates, s.scored(c, sc))
		s.log.Debug().Str("candidate", c.render(s.hasher, sc)).Msg("Scored candidate")
		if !found || sc > bestScore {
			best, bestScore, found = c, sc, true
		}
	}

	if found {
		sel := s.scored(best, bestScore)
		record.Selected = &sel
		s.log.Info().
			Str("selected", best.render(s.hasher, bestScore)).
			Int("candidates", len(record.Candidates)).
			Msg("Selected connection candidate")
	} else {
		s.log.Info().Int("considered", len(cands)).Msg("No connection candidate")
	}
	s.selections.Add(record)
	return best, found
}

func (s *Selector) scored(c candidate, sc int8) ScoredCandidate {
	return ScoredCandidate{
		Network:          s.hasher.hash([]byte(c.id().SSID)),
		BSSID:            s.hasher.hash(c.bss.BSSID[:]),
		RSSI:             c.bss.RSSI,
		Channel:          c.bss.Channel.Primary,
		Score:            sc,
		Compatible:       c.bss.Compatible,
		RecentFailures:   c.recentFailuresOn(),
		HasEverConnected: c.saved.network.HasEverConnected,
	}
}
