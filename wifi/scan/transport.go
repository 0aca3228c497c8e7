package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
)

// DefaultRetryDelay is how long to wait before retrying a busy scan.
const DefaultRetryDelay = 100 * time.Millisecond

// Transport runs a single scan transaction, retrying once if the radio is
// busy.
type Transport struct {
	RetryDelay time.Duration
	log        zerolog.Logger
}

// NewTransport returns a Transport that waits retryDelay between attempts.
func NewTransport(retryDelay time.Duration, logger zerolog.Logger) *Transport {
	return &Transport{RetryDelay: retryDelay, log: logger}
}

// Scan runs req on h and returns every reported BSS. Errors wrap
// wifi.ErrScanFailed unless the context ended.
func (t *Transport) Scan(ctx context.Context, h wifi.ScanHandle, req wifi.ScanRequest) ([]wifi.RawBss, error) {
	results, err := scanOnce(ctx, h, req)
	if errors.Is(err, wifi.ErrTransportBusy) {
		t.log.Debug().Err(err).Stringer("kind", req.Kind).Dur("delay", t.RetryDelay).Msg("Scan busy, retrying")
		select {
		case <-time.After(t.RetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		results, err = scanOnce(ctx, h, req)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s scan: %w: %w", req.Kind, wifi.ErrScanFailed, err)
	}
	return results, nil
}

func scanOnce(ctx context.Context, h wifi.ScanHandle, req wifi.ScanRequest) ([]wifi.RawBss, error) {
	events, err := h.Scan(ctx, req)
	if err != nil {
		return nil, err
	}

	var results []wifi.RawBss
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil, errors.New("transaction closed without finishing")
			}
			switch ev.Kind {
			case wifi.ScanEventResult:
				results = append(results, ev.Results...)
			case wifi.ScanEventFinished:
				return results, nil
			case wifi.ScanEventError:
				if ev.Code.Transient() {
					return nil, fmt.Errorf("%w: %s", wifi.ErrTransportBusy, ev.Code)
				}
				return nil, fmt.Errorf("scan error: %s", ev.Code)
			}
		}
	}
}
