package selection

import (
	"math"

	"github.com/shazow/wifiselect/wifi"
)

// score rates a candidate BSS. Higher is better. All arithmetic saturates.
func score(c candidate, cfg Config) int8 {
	s := c.bss.RSSI
	if c.bss.Channel.Is5GHz() && c.bss.RSSI >= cfg.RSSICutoff5G {
		s = saturatingAdd(s, cfg.Boost5G)
	}
	for _, f := range c.saved.recentFailures {
		if f.BSSID != c.bss.BSSID {
			continue
		}
		penalty := cfg.GeneralFailurePenalty
		if f.Reason == wifi.FailureCredentialRejected {
			penalty = cfg.CredentialRejectedPenalty
		}
		s = saturatingAdd(s, -penalty)
	}
	return s
}

func saturatingAdd(a, b int8) int8 {
	r := int16(a) + int16(b)
	switch {
	case r > math.MaxInt8:
		return math.MaxInt8
	case r < math.MinInt8:
		return math.MinInt8
	}
	return int8(r)
}
