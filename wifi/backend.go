package wifi

import "context"

//go:generate mockgen -destination=mock_wifi.go -package=wifi github.com/shazow/wifiselect/wifi IfaceManager,ScanHandle,SavedNetworkStore

// ScanKind selects between listening for beacons and probing for SSIDs.
type ScanKind int

const (
	ScanPassive ScanKind = iota
	ScanActive
)

func (k ScanKind) String() string {
	if k == ScanActive {
		return "active"
	}
	return "passive"
}

// ScanRequest describes one scan transaction. SSIDs and Channels are only
// meaningful for active scans; empty Channels means all channels.
type ScanRequest struct {
	Kind     ScanKind
	SSIDs    []SSID
	Channels []uint8
}

// RawBss is a single observation as reported by the radio, before it is
// grouped into a ScanResult.
type RawBss struct {
	SSID       SSID
	Protection Protection
	Bss
}

// ScanEventKind discriminates ScanEvent.
type ScanEventKind int

const (
	ScanEventResult ScanEventKind = iota
	ScanEventFinished
	ScanEventError
)

// ScanErrorCode is the reason carried by a ScanEventError.
type ScanErrorCode int

const (
	ScanErrorInternal ScanErrorCode = iota
	ScanErrorNotSupported
	ScanErrorShouldWait
	ScanErrorCanceledByDriverOrFirmware
)

// Transient reports whether the transaction may succeed if retried.
func (c ScanErrorCode) Transient() bool {
	return c == ScanErrorShouldWait || c == ScanErrorCanceledByDriverOrFirmware
}

func (c ScanErrorCode) String() string {
	switch c {
	case ScanErrorNotSupported:
		return "not_supported"
	case ScanErrorShouldWait:
		return "should_wait"
	case ScanErrorCanceledByDriverOrFirmware:
		return "canceled_by_driver_or_firmware"
	}
	return "internal"
}

// ScanEvent is one message of a scan transaction. A transaction yields any
// number of Result events followed by exactly one Finished or Error event.
type ScanEvent struct {
	Kind    ScanEventKind
	Results []RawBss
	Code    ScanErrorCode
}

// ScanHandle starts scan transactions on a single interface.
type ScanHandle interface {
	// Scan starts a transaction. The returned channel is closed after the
	// terminal event, or early if the transaction breaks.
	Scan(ctx context.Context, req ScanRequest) (<-chan ScanEvent, error)
}

// IfaceManager is the radio driver collaborator.
type IfaceManager interface {
	// ScanHandle returns a handle on a scan capable client interface.
	ScanHandle(ctx context.Context) (ScanHandle, error)
	// HasWPA3CapableClient reports whether any client interface supports WPA3.
	HasWPA3CapableClient(ctx context.Context) bool
}

// ConnectOutcome is recorded after a connection attempt.
type ConnectOutcome int

const (
	ConnectSuccess ConnectOutcome = iota
	ConnectFailed
	ConnectCredentialRejected
)

// SavedNetworkStore is the persistence collaborator for saved credentials,
// failure history and hidden-network bookkeeping.
type SavedNetworkStore interface {
	// GetNetworks returns every saved network in store order.
	GetNetworks(ctx context.Context) ([]SavedNetwork, error)
	// Lookup returns saved networks with exactly this identity.
	Lookup(ctx context.Context, id NetworkIdentifier) ([]SavedNetwork, error)
	// Store saves or replaces the credential for an identity.
	Store(ctx context.Context, id NetworkIdentifier, credential Credential) error
	// Remove forgets a saved network.
	Remove(ctx context.Context, id NetworkIdentifier) error
	// RecordConnectResult appends a failure, or marks the network as having
	// connected.
	RecordConnectResult(ctx context.Context, id NetworkIdentifier, bssid BSSID, outcome ConnectOutcome) error
	// RecordScanResult tunes the hidden probability of saved networks. For a
	// passive scan requested is empty and observed lists what was seen. For
	// an active scan, requested networks missing from observed were not found.
	RecordScanResult(ctx context.Context, kind ScanKind, requested, observed []NetworkIdentifier) error
}
