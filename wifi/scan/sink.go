package scan

import (
	"context"

	"github.com/shazow/wifiselect/wifi"
)

// Sink receives the merged results of every scan round it is registered for.
type Sink interface {
	UpdateScanResults(ctx context.Context, results []wifi.ScanResult) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, results []wifi.ScanResult) error

func (f SinkFunc) UpdateScanResults(ctx context.Context, results []wifi.ScanResult) error {
	return f(ctx, results)
}

// ActiveScanDecider is given the SSIDs seen by the passive scan and returns
// the networks worth probing for. An empty return skips the active scan.
type ActiveScanDecider func(seen []wifi.SSID) []wifi.NetworkIdentifier
