//go:build linux

package networkmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gonetworkmanager "github.com/Wifx/gonetworkmanager/v3"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
)

const (
	nmBusName         = "org.freedesktop.NetworkManager"
	requestScanMethod = "org.freedesktop.NetworkManager.Device.Wireless.RequestScan"
	// Returned by RequestScan while a scan is running or was just done.
	errNameNotAllowed = "org.freedesktop.NetworkManager.Device.NotAllowed"

	defaultPollInterval = 250 * time.Millisecond
	defaultScanTimeout  = 15 * time.Second
)

// Manager implements wifi.IfaceManager on top of NetworkManager.
type Manager struct {
	NM gonetworkmanager.NetworkManager
	// Interface restricts scanning to one device name. Empty picks the
	// first wireless device.
	Interface    string
	PollInterval time.Duration
	ScanTimeout  time.Duration

	log zerolog.Logger

	mu     sync.Mutex
	device gonetworkmanager.DeviceWireless
}

// New connects to NetworkManager on the system bus.
func New(iface string, logger zerolog.Logger) (*Manager, error) {
	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create network manager client: %w: %w", wifi.ErrNotAvailable, err)
	}
	return &Manager{
		NM:           nm,
		Interface:    iface,
		PollInterval: defaultPollInterval,
		ScanTimeout:  defaultScanTimeout,
		log:          logger.With().Str("component", "networkmanager").Logger(),
	}, nil
}

// getWirelessDevice returns the cached wireless device, looking it up on
// first use.
func (m *Manager) getWirelessDevice() (gonetworkmanager.DeviceWireless, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device != nil {
		return m.device, nil
	}

	devices, err := m.NM.GetDevices()
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		dev, ok := device.(gonetworkmanager.DeviceWireless)
		if !ok {
			continue
		}
		if m.Interface != "" {
			name, err := dev.GetPropertyInterface()
			if err != nil || name != m.Interface {
				continue
			}
		}
		m.device = dev
		return dev, nil
	}
	return nil, fmt.Errorf("no wireless device found: %w", wifi.ErrNotFound)
}

// ScanHandle returns a handle for the wireless device. It fails if wireless
// is disabled.
func (m *Manager) ScanHandle(ctx context.Context) (wifi.ScanHandle, error) {
	enabled, err := m.NM.GetPropertyWirelessEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, wifi.ErrWirelessDisabled
	}
	dev, err := m.getWirelessDevice()
	if err != nil {
		return nil, err
	}
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("system bus: %w: %w", wifi.ErrNotAvailable, err)
	}
	return &scanHandle{
		dev:      dev,
		obj:      conn.Object(nmBusName, dev.GetPath()),
		poll:     m.PollInterval,
		timeout:  m.ScanTimeout,
		log:      m.log,
		property: dev.GetPropertyLastScan,
	}, nil
}

// HasWPA3CapableClient asks wpa_supplicant whether the device's interface
// supports SAE key management.
func (m *Manager) HasWPA3CapableClient(ctx context.Context) bool {
	dev, err := m.getWirelessDevice()
	if err != nil {
		return false
	}
	name, err := dev.GetPropertyInterface()
	if err != nil {
		return false
	}
	ok, err := supplicantSupportsSAE(ctx, name)
	if err != nil {
		m.log.Debug().Err(err).Str("iface", name).Msg("Could not query WPA3 support")
		return false
	}
	return ok
}

type scanHandle struct {
	dev      gonetworkmanager.DeviceWireless
	obj      dbus.BusObject
	poll     time.Duration
	timeout  time.Duration
	log      zerolog.Logger
	property func() (int64, error)
}

// Scan triggers a scan and waits for NetworkManager's LastScan to move.
// Passive requests are plain scans since NetworkManager picks the probing
// mode itself.
func (h *scanHandle) Scan(ctx context.Context, req wifi.ScanRequest) (<-chan wifi.ScanEvent, error) {
	before, err := h.property()
	if err != nil {
		return nil, err
	}

	options := map[string]dbus.Variant{}
	if req.Kind == wifi.ScanActive && len(req.SSIDs) > 0 {
		ssids := make([][]byte, len(req.SSIDs))
		for i, s := range req.SSIDs {
			ssids[i] = []byte(s)
		}
		options["ssids"] = dbus.MakeVariant(ssids)
	}
	if call := h.obj.CallWithContext(ctx, requestScanMethod, 0, options); call.Err != nil {
		if dbusErrorName(call.Err) == errNameNotAllowed {
			return nil, fmt.Errorf("%w: %w", wifi.ErrTransportBusy, call.Err)
		}
		return nil, call.Err
	}

	events := make(chan wifi.ScanEvent, 2)
	go h.wait(ctx, before, req, events)
	return events, nil
}

func (h *scanHandle) wait(ctx context.Context, before int64, req wifi.ScanRequest, events chan<- wifi.ScanEvent) {
	defer close(events)

	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()
	deadline := time.NewTimer(h.timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			h.log.Warn().Stringer("kind", req.Kind).Msg("Timed out waiting for scan")
			events <- wifi.ScanEvent{Kind: wifi.ScanEventError, Code: wifi.ScanErrorShouldWait}
			return
		case <-ticker.C:
		}

		last, err := h.property()
		if err != nil || last == before {
			continue
		}
		raw, err := h.accessPoints()
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to read access points")
			events <- wifi.ScanEvent{Kind: wifi.ScanEventError, Code: wifi.ScanErrorInternal}
			return
		}
		events <- wifi.ScanEvent{Kind: wifi.ScanEventResult, Results: filterRaw(raw, req)}
		events <- wifi.ScanEvent{Kind: wifi.ScanEventFinished}
		return
	}
}

func (h *scanHandle) accessPoints() ([]wifi.RawBss, error) {
	aps, err := h.dev.GetAllAccessPoints()
	if err != nil {
		return nil, err
	}
	raw := make([]wifi.RawBss, 0, len(aps))
	for _, ap := range aps {
		path := string(ap.GetPath())
		info, err := readAccessPoint(path, ap)
		if err != nil {
			// Access points can vanish between listing and reading.
			h.log.Debug().Err(err).Str("path", path).Msg("Skipping access point")
			continue
		}
		r, err := toRawBss(info)
		if err != nil {
			h.log.Debug().Err(err).Str("path", path).Msg("Skipping access point")
			continue
		}
		raw = append(raw, r)
	}
	return raw, nil
}

func dbusErrorName(err error) string {
	var v dbus.Error
	if errors.As(err, &v) {
		return v.Name
	}
	var p *dbus.Error
	if errors.As(err, &p) {
		return p.Name
	}
	return ""
}
