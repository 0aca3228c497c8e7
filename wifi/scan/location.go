package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
)

// DefaultLocationSubject is where scan observations are published.
const DefaultLocationSubject = "wifi.scan.observations"

// Publisher is the subset of *nats.Conn used by LocationSink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// LocationSink publishes every scan round to a location service. SSIDs are
// not published; a location fix only needs BSSIDs and signal.
type LocationSink struct {
	pub     Publisher
	subject string
	now     func() time.Time
	log     zerolog.Logger
}

type locationObservation struct {
	BSSID   wifi.BSSID `json:"bssid"`
	RSSI    int8       `json:"rssi"`
	Channel uint8      `json:"channel"`
	Passive bool       `json:"passive"`
}

type locationMessage struct {
	ID           string                `json:"id"`
	Time         time.Time             `json:"time"`
	Observations []locationObservation `json:"observations"`
}

// NewLocationSink returns a sink publishing to subject.
func NewLocationSink(pub Publisher, subject string, logger zerolog.Logger) *LocationSink {
	if subject == "" {
		subject = DefaultLocationSubject
	}
	return &LocationSink{
		pub:     pub,
		subject: subject,
		now:     time.Now,
		log:     logger.With().Str("component", "location").Logger(),
	}
}

// ConnectLocationSink dials NATS at url. The returned close function drains
// the connection.
func ConnectLocationSink(url, subject string, logger zerolog.Logger, opts ...nats.Option) (*LocationSink, func(), error) {
	opts = append([]nats.Option{nats.Name("wifiselect")}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	closer := func() {
		if err := nc.Drain(); err != nil {
			logger.Warn().Err(err).Msg("Failed to drain NATS connection")
		}
	}
	return NewLocationSink(nc, subject, logger), closer, nil
}

// UpdateScanResults implements Sink.
func (s *LocationSink) UpdateScanResults(ctx context.Context, results []wifi.ScanResult) error {
	msg := locationMessage{
		ID:   uuid.New().String(),
		Time: s.now(),
	}
	for _, r := range results {
		for _, e := range r.Entries {
			msg.Observations = append(msg.Observations, locationObservation{
				BSSID:   e.BSSID,
				RSSI:    e.RSSI,
				Channel: e.Channel.Primary,
				Passive: e.ObservedInPassiveScan,
			})
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal scan observations: %w", err)
	}
	if err := s.pub.Publish(s.subject, data); err != nil {
		return fmt.Errorf("failed to publish scan observations: %w", err)
	}
	s.log.Debug().Str("id", msg.ID).Int("observations", len(msg.Observations)).Msg("Published scan observations")
	return nil
}
