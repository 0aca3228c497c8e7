package wifi

import "sort"

// SortScanResults sorts scan results in place.
// The sorting order is:
// 1. SSID, bytewise.
// 2. Protection, so identical SSIDs with different security are stable.
// Entries within a result keep the order they were observed in.
func SortScanResults(results []ScanResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a := results[i]
		b := results[j]
		if a.SSID != b.SSID {
			return a.SSID < b.SSID
		}
		return a.Protection < b.Protection
	})
}

// StrongestRSSI returns the highest RSSI among the entries of a result, or
// the minimum int8 if there are none.
func (r ScanResult) StrongestRSSI() int8 {
	best := int8(-128)
	for _, e := range r.Entries {
		if e.RSSI > best {
			best = e.RSSI
		}
	}
	return best
}

// SortByStrength orders results strongest first, falling back to SSID. Used
// for display only; the scan pipeline always uses SortScanResults.
func SortByStrength(results []ScanResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].StrongestRSSI(), results[j].StrongestRSSI()
		if a != b {
			return a > b
		}
		return results[i].SSID < results[j].SSID
	})
}
