package selection

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
)

// savedEntry is one saved network as seen by a single selection round.
// network.ID is always the native identity, even when the entry is keyed
// under an upgraded one.
type savedEntry struct {
	network        wifi.SavedNetwork
	recentFailures []wifi.ConnectFailure
}

// buildSavedNetworkTable keys every saved network under its own identity and
// under its one-step security upgrade. Collisions keep the last write.
//
// When two different saved networks upgrade into the same identity the
// winner depends on store order. This is logged rather than resolved.
func buildSavedNetworkTable(networks []wifi.SavedNetwork, since time.Time, h *hasher, log zerolog.Logger) map[wifi.NetworkIdentifier]savedEntry {
	table := make(map[wifi.NetworkIdentifier]savedEntry, len(networks)*2)
	insert := func(key wifi.NetworkIdentifier, e savedEntry) {
		if prev, ok := table[key]; ok {
			log.Warn().
				Err(wifi.ErrSavedNetworkCollision).
				Str("ssid", h.hash([]byte(key.SSID))).
				Stringer("security", key.Security).
				Stringer("replaced", prev.network.ID.Security).
				Stringer("by", e.network.ID.Security).
				Msg("Saved network collision, last write wins")
		}
		table[key] = e
	}

	for _, n := range networks {
		e := savedEntry{
			network:        n,
			recentFailures: n.RecentFailures(since),
		}
		insert(n.ID, e)
		if up, ok := wifi.UpgradeSecurity(n.ID.Security); ok {
			insert(wifi.NetworkIdentifier{SSID: n.ID.SSID, Security: up}, e)
		}
	}
	return table
}
