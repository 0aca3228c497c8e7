//go:build linux

package iwd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
)

const (
	errNameBusy       = "net.connman.iwd.Busy"
	errNameInProgress = "net.connman.iwd.InProgress"

	defaultPollInterval = 250 * time.Millisecond
	defaultScanTimeout  = 15 * time.Second
)

// busObject is the part of dbus.BusObject used here.
type busObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
	GetProperty(p string) (dbus.Variant, error)
}

// Manager implements wifi.IfaceManager on top of iwd.
type Manager struct {
	// Interface restricts scanning to one device name. Empty picks the
	// first powered station.
	Interface    string
	PollInterval time.Duration
	ScanTimeout  time.Duration

	log    zerolog.Logger
	object func(path dbus.ObjectPath) busObject
}

// New connects to iwd on the system bus.
func New(iface string, logger zerolog.Logger) (*Manager, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", wifi.ErrNotAvailable, err)
	}
	m := &Manager{
		Interface:    iface,
		PollInterval: defaultPollInterval,
		ScanTimeout:  defaultScanTimeout,
		log:          logger.With().Str("component", "iwd").Logger(),
		object: func(path dbus.ObjectPath) busObject {
			return conn.Object(iwdDest, path)
		},
	}
	// A simple way to check for availability is to list its objects.
	if _, err := m.managedObjects(context.Background()); err != nil {
		return nil, fmt.Errorf("iwd is not available: %w: %w", wifi.ErrNotAvailable, err)
	}
	return m, nil
}

func (m *Manager) managedObjects(ctx context.Context) (managedObjects, error) {
	var objs managedObjects
	err := m.object(iwdRoot).CallWithContext(ctx, objectManagerCall, 0).Store(&objs)
	return objs, err
}

// station finds the station object for the configured interface.
func (m *Manager) station(ctx context.Context) (dbus.ObjectPath, error) {
	objs, err := m.managedObjects(ctx)
	if err != nil {
		return "", err
	}
	disabled := false
	for path, ifaces := range objs {
		if _, ok := ifaces[iwdStationIface]; !ok {
			continue
		}
		dev := ifaces[iwdDeviceIface]
		if name, _ := prop[string](dev, "Name"); m.Interface != "" && name != m.Interface {
			continue
		}
		if powered, _ := prop[bool](dev, "Powered"); !powered {
			disabled = true
			continue
		}
		return path, nil
	}
	if disabled {
		return "", wifi.ErrWirelessDisabled
	}
	return "", fmt.Errorf("no station device found: %w", wifi.ErrNotFound)
}

// ScanHandle implements wifi.IfaceManager.
func (m *Manager) ScanHandle(ctx context.Context) (wifi.ScanHandle, error) {
	path, err := m.station(ctx)
	if err != nil {
		return nil, err
	}
	return &scanHandle{
		obj:     m.object(path),
		objects: m.managedObjects,
		poll:    m.PollInterval,
		timeout: m.ScanTimeout,
		log:     m.log.With().Str("station", string(path)).Logger(),
	}, nil
}

// HasWPA3CapableClient implements wifi.IfaceManager. iwd does not publish
// key management capabilities, so SAE support is never assumed.
func (m *Manager) HasWPA3CapableClient(ctx context.Context) bool {
	return false
}

type scanHandle struct {
	obj     busObject
	objects func(ctx context.Context) (managedObjects, error)
	poll    time.Duration
	timeout time.Duration
	log     zerolog.Logger
}

// Scan triggers a station scan and waits for Scanning to drop.
func (h *scanHandle) Scan(ctx context.Context, req wifi.ScanRequest) (<-chan wifi.ScanEvent, error) {
	if call := h.obj.CallWithContext(ctx, iwdStationIface+".Scan", 0); call.Err != nil {
		switch dbusErrorName(call.Err) {
		case errNameBusy, errNameInProgress:
			return nil, fmt.Errorf("%w: %w", wifi.ErrTransportBusy, call.Err)
		}
		return nil, call.Err
	}

	events := make(chan wifi.ScanEvent, 2)
	go h.wait(ctx, req, events)
	return events, nil
}

func (h *scanHandle) wait(ctx context.Context, req wifi.ScanRequest, events chan<- wifi.ScanEvent) {
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

		v, err := h.obj.GetProperty(iwdStationIface + ".Scanning")
		if err != nil {
			continue
		}
		if scanning, ok := v.Value().(bool); !ok || scanning {
			continue
		}
		raw, err := h.networks(ctx)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to read networks")
			events <- wifi.ScanEvent{Kind: wifi.ScanEventError, Code: wifi.ScanErrorInternal}
			return
		}
		events <- wifi.ScanEvent{Kind: wifi.ScanEventResult, Results: filterRaw(raw, req)}
		events <- wifi.ScanEvent{Kind: wifi.ScanEventFinished}
		return
	}
}

func (h *scanHandle) networks(ctx context.Context) ([]wifi.RawBss, error) {
	var ordered []orderedNetwork
	if err := h.obj.CallWithContext(ctx, iwdStationIface+".GetOrderedNetworks", 0).Store(&ordered); err != nil {
		return nil, err
	}
	objs, err := h.objects(ctx)
	if err != nil {
		return nil, err
	}
	var raw []wifi.RawBss
	for _, info := range networkInfos(ordered, objs) {
		bss := toRawBss(info)
		if len(bss) == 0 {
			// Older iwd releases do not list access points per network.
			h.log.Debug().Str("path", info.Path).Msg("Skipping network without access points")
			continue
		}
		raw = append(raw, bss...)
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
