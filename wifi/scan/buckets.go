package scan

import "github.com/shazow/wifiselect/wifi"

type bucketKey struct {
	ssid       wifi.SSID
	protection wifi.Protection
}

type bucket struct {
	result wifi.ScanResult
	seen   map[wifi.BSSID]struct{}
}

// buckets groups observations by (SSID, protection), keeping the first BSS
// seen for each BSSID. Insertion order is preserved.
type buckets struct {
	order []bucketKey
	byKey map[bucketKey]*bucket
}

func newBuckets() *buckets {
	return &buckets{byKey: make(map[bucketKey]*bucket)}
}

func (b *buckets) add(raw []wifi.RawBss, passive bool) {
	for _, r := range raw {
		key := bucketKey{ssid: r.SSID, protection: r.Protection}
		bk, ok := b.byKey[key]
		if !ok {
			bk = &bucket{
				result: wifi.ScanResult{SSID: r.SSID, Protection: r.Protection},
				seen:   make(map[wifi.BSSID]struct{}),
			}
			b.byKey[key] = bk
			b.order = append(b.order, key)
		}
		if _, dup := bk.seen[r.BSSID]; dup {
			continue
		}
		bk.seen[r.BSSID] = struct{}{}

		bss := r.Bss
		bss.ObservedInPassiveScan = passive
		bk.result.Entries = append(bk.result.Entries, bss)
		bk.result.Compatible = bk.result.Compatible || bss.Compatible
	}
}

// ssids returns every distinct SSID in insertion order.
func (b *buckets) ssids() []wifi.SSID {
	seen := make(map[wifi.SSID]struct{}, len(b.order))
	var out []wifi.SSID
	for _, k := range b.order {
		if _, ok := seen[k.ssid]; ok {
			continue
		}
		seen[k.ssid] = struct{}{}
		out = append(out, k.ssid)
	}
	return out
}

func (b *buckets) results() []wifi.ScanResult {
	out := make([]wifi.ScanResult, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.byKey[k].result)
	}
	return out
}
