package selection

import (
	"fmt"
	"strings"

	"github.com/shazow/wifiselect/wifi"
)

// candidate is one saved network paired with one BSS for a single round.
type candidate struct {
	saved       savedEntry
	bss         wifi.Bss
	multipleBss bool
}

// buildCandidates joins scan results with the saved-network table. BSSs with
// an unrecognized protection are dropped.
func buildCandidates(table map[wifi.NetworkIdentifier]savedEntry, results []wifi.ScanResult, wpa3Capable bool) []candidate {
	var out []candidate
	for _, r := range results {
		id, ok := r.Identifier(wpa3Capable)
		if !ok {
			continue
		}
		saved, ok := table[id]
		if !ok {
			continue
		}
		for _, bss := range r.Entries {
			out = append(out, candidate{
				saved:       saved,
				bss:         bss,
				multipleBss: len(r.Entries) > 1,
			})
		}
	}
	return out
}

func (c candidate) id() wifi.NetworkIdentifier {
	return c.saved.network.ID
}

func (c candidate) connectionCandidate() wifi.ConnectionCandidate {
	passive := c.bss.ObservedInPassiveScan
	multiple := c.multipleBss
	return wifi.ConnectionCandidate{
		Network:               c.id(),
		Credential:            c.saved.network.Credential,
		BSSID:                 c.bss.BSSID,
		Descriptor:            c.bss.Descriptor,
		ObservedInPassiveScan: &passive,
		MultipleBssCandidates: &multiple,
	}
}

// render describes the candidate without revealing the SSID or BSSID.
func (c candidate) render(h *hasher, score int8) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{ssid: %s, bssid: %s, rssi: %d, channel: %d, score: %d",
		h.hash([]byte(c.id().SSID)), h.hash(c.bss.BSSID[:]), c.bss.RSSI, c.bss.Channel.Primary, score)
	if !c.bss.Compatible {
		b.WriteString(", NOT compatible")
	}
	if n := c.recentFailuresOn(); n > 0 {
		fmt.Fprintf(&b, ", %d recent failures", n)
	}
	if !c.saved.network.HasEverConnected {
		b.WriteString(", never used yet")
	}
	b.WriteString("}")
	return b.String()
}

func (c candidate) recentFailuresOn() int {
	n := 0
	for _, f := range c.saved.recentFailures {
		if f.BSSID == c.bss.BSSID {
			n++
		}
	}
	return n
}
