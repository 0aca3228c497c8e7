package mock

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/shazow/wifiselect/wifi"
)

var DefaultActionSleep = 500 * time.Millisecond

// Network is a network the fake radio can see.
type Network struct {
	SSID       wifi.SSID
	Protection wifi.Protection
	// Hidden networks only show up in active scans that name them.
	Hidden bool
	APs    []wifi.Bss
}

// Response is a scripted scan transaction. If Events has no terminal event the
// transaction closes without finishing.
type Response struct {
	Events []wifi.ScanEvent
}

// Radio is a fake radio implementing wifi.IfaceManager and wifi.ScanHandle.
type Radio struct {
	mu sync.Mutex

	Networks    []Network
	WPA3Capable bool

	// Script is consumed one response per Scan call before falling back to
	// Networks.
	Script []Response

	ScanHandleError error
	ScanError       error

	// Jitter re-randomizes signal strength on every scan.
	Jitter bool

	// ActionSleep is a delay before every scan, to better emulate a real radio for the frontend. Set to 0 during testing.
	ActionSleep time.Duration

	requests []wifi.ScanRequest
}

func bssid(last byte) wifi.BSSID {
	return wifi.BSSID{0x02, 0x00, 0x5e, 0x00, 0x00, last}
}

func ap(last byte, rssi int8, mhz uint32) wifi.Bss {
	return wifi.Bss{
		BSSID:      bssid(last),
		RSSI:       rssi,
		SNR:        rssi + 100,
		Channel:    wifi.ChannelFromFrequency(mhz),
		Compatible: true,
	}
}

func incompatible(b wifi.Bss) wifi.Bss {
	b.Compatible = false
	return b
}

// New creates a fake radio with a list of fun wifi networks.
func New() *Radio {
	networks := []Network{
		{SSID: "HideYoKidsHideYoWiFi", Protection: wifi.ProtectionWPA2Personal, Hidden: true, APs: []wifi.Bss{ap(1, -55, 2437)}},
		{SSID: "GET off my LAN", Protection: wifi.ProtectionWPA1, APs: []wifi.Bss{ap(2, -70, 2412)}},
		{SSID: "NeverGonnaGiveYouIP", Protection: wifi.ProtectionWEP, APs: []wifi.Bss{ap(3, -80, 2462)}},
		{SSID: "Unencrypted_Honeypot", Protection: wifi.ProtectionOpen, APs: []wifi.Bss{ap(4, -48, 2412)}},
		{SSID: "Dunder MiffLAN", Protection: wifi.ProtectionWPA2WPA3Personal, APs: []wifi.Bss{ap(5, -62, 5180)}},
		{SSID: "Police Surveillance 2", Protection: wifi.ProtectionWPA3Personal, APs: []wifi.Bss{ap(6, -66, 5745)}},
		{SSID: "Password is password", Protection: wifi.ProtectionWPA2Personal, APs: []wifi.Bss{ap(7, -58, 2437), ap(8, -60, 5220)}},
		{SSID: "TacoBoutAGoodSignal", Protection: wifi.ProtectionWPA2Enterprise, APs: []wifi.Bss{ap(9, -35, 5240)}},
		{SSID: "Multi-AP Network", Protection: wifi.ProtectionWPA2Personal, APs: []wifi.Bss{
			ap(10, -50, 2412),
			ap(11, -60, 5180),
			ap(12, -72, 5240),
		}},
		{SSID: "Legacy Toaster", Protection: wifi.ProtectionUnknown, APs: []wifi.Bss{incompatible(ap(13, -40, 2437))}},
	}
	return &Radio{
		Networks:    networks,
		WPA3Capable: true,
		Jitter:      true,
		ActionSleep: DefaultActionSleep,
	}
}

// SavedNetworks returns credentials matching some of the networks from New.
func SavedNetworks() []wifi.SavedNetwork {
	return []wifi.SavedNetwork{
		{
			ID:                wifi.NetworkIdentifier{SSID: "Password is password", Security: wifi.SecurityWPA2},
			Credential:        wifi.Credential{Kind: wifi.CredentialPassword, Value: []byte("password")},
			HasEverConnected:  true,
			HiddenProbability: 0.9,
		},
		{
			ID:                wifi.NetworkIdentifier{SSID: "HideYoKidsHideYoWiFi", Security: wifi.SecurityWPA2},
			Credential:        wifi.Credential{Kind: wifi.CredentialPassword, Value: []byte("hidden")},
			HiddenProbability: 0.9,
		},
		{
			ID:                wifi.NetworkIdentifier{SSID: "Unencrypted_Honeypot", Security: wifi.SecurityNone},
			HiddenProbability: 0.9,
		},
		{
			ID:                wifi.NetworkIdentifier{SSID: "Multi-AP Network", Security: wifi.SecurityWPA},
			Credential:        wifi.Credential{Kind: wifi.CredentialPassword, Value: []byte("multi-pass")},
			HiddenProbability: 0.9,
		},
	}
}

// ScanHandle implements wifi.IfaceManager.
func (r *Radio) ScanHandle(ctx context.Context) (wifi.ScanHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ScanHandleError != nil {
		return nil, r.ScanHandleError
	}
	return r, nil
}

// HasWPA3CapableClient implements wifi.IfaceManager.
func (r *Radio) HasWPA3CapableClient(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.WPA3Capable
}

// Requests returns a copy of every scan request seen so far.
func (r *Radio) Requests() []wifi.ScanRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.requests)
}

// Scan implements wifi.ScanHandle.
func (r *Radio) Scan(ctx context.Context, req wifi.ScanRequest) (<-chan wifi.ScanEvent, error) {
	select {
	case <-time.After(r.ActionSleep):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)

	if r.ScanError != nil {
		return nil, r.ScanError
	}

	var events []wifi.ScanEvent
	if len(r.Script) > 0 {
		events = r.Script[0].Events
		r.Script = r.Script[1:]
	} else {
		events = []wifi.ScanEvent{
			{Kind: wifi.ScanEventResult, Results: r.observe(req)},
			{Kind: wifi.ScanEventFinished},
		}
	}

	ch := make(chan wifi.ScanEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

// observe returns what the radio would see for req. Must hold r.mu.
func (r *Radio) observe(req wifi.ScanRequest) []wifi.RawBss {
	var rnd *rand.Rand
	if r.Jitter {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var out []wifi.RawBss
	for _, n := range r.Networks {
		named := slices.Contains(req.SSIDs, n.SSID)
		if req.Kind == wifi.ScanActive && len(req.SSIDs) > 0 && !named {
			continue
		}
		if n.Hidden && !named {
			continue
		}
		for _, b := range n.APs {
			if len(req.Channels) > 0 && !slices.Contains(req.Channels, b.Channel.Primary) {
				continue
			}
			if rnd != nil {
				b.RSSI = int8(-30 - rnd.Intn(60))
			}
			b.Descriptor = []byte(fmt.Sprintf("%s:%s:%s", req.Kind, n.SSID, b.BSSID))
			out = append(out, wifi.RawBss{SSID: n.SSID, Protection: n.Protection, Bss: b})
		}
	}
	return out
}
