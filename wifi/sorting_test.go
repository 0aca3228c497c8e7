package wifi

import (
	"reflect"
	"testing"
)

func TestSortScanResults(t *testing.T) {
	tests := []struct {
		name     string
		results  []ScanResult
		expected []ScanResult
	}{
		{
			name: "Sort by SSID",
			results: []ScanResult{
				{SSID: "B"},
				{SSID: "A"},
			},
			expected: []ScanResult{
				{SSID: "A"},
				{SSID: "B"},
			},
		},
		{
			name: "Same SSID sorts by protection",
			results: []ScanResult{
				{SSID: "Cafe", Protection: ProtectionWPA3Personal},
				{SSID: "Cafe", Protection: ProtectionOpen},
				{SSID: "Cafe", Protection: ProtectionWPA2Personal},
			},
			expected: []ScanResult{
				{SSID: "Cafe", Protection: ProtectionOpen},
				{SSID: "Cafe", Protection: ProtectionWPA2Personal},
				{SSID: "Cafe", Protection: ProtectionWPA3Personal},
			},
		},
		{
			name: "Entries keep their order",
			results: []ScanResult{
				{SSID: "Z", Entries: []Bss{{RSSI: -80}, {RSSI: -20}}},
				{SSID: "M", Entries: []Bss{{RSSI: -30}, {RSSI: -90}}},
			},
			expected: []ScanResult{
				{SSID: "M", Entries: []Bss{{RSSI: -30}, {RSSI: -90}}},
				{SSID: "Z", Entries: []Bss{{RSSI: -80}, {RSSI: -20}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortScanResults(tt.results)
			if !reflect.DeepEqual(tt.results, tt.expected) {
				t.Errorf("SortScanResults() got = %v, want %v", tt.results, tt.expected)
			}
		})
	}
}

func TestSortByStrength(t *testing.T) {
	results := []ScanResult{
		{SSID: "Weak", Entries: []Bss{{RSSI: -85}}},
		{SSID: "Empty"},
		{SSID: "Strong", Entries: []Bss{{RSSI: -90}, {RSSI: -40}}},
		{SSID: "AlsoWeak", Entries: []Bss{{RSSI: -85}}},
	}
	SortByStrength(results)

	var got []SSID
	for _, r := range results {
		got = append(got, r.SSID)
	}
	want := []SSID{"Strong", "AlsoWeak", "Weak", "Empty"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortByStrength() got = %v, want %v", got, want)
	}
}
