package wifi

import "errors"

var (
	ErrNotSupported     = errors.New("not supported")
	ErrNotFound         = errors.New("not found")
	ErrNotAvailable     = errors.New("not available")
	ErrOperationFailed  = errors.New("operation failed")
	ErrWirelessDisabled = errors.New("wireless is disabled")

	// ErrTransportBusy is returned by a scan handle when the radio asked us
	// to wait, or firmware canceled the scan.
	ErrTransportBusy = errors.New("scan transport busy")
	// ErrScanFailed is a terminal scan failure for the current round.
	ErrScanFailed = errors.New("scan failed")
	// ErrNoScanHandle is returned when no interface can scan.
	ErrNoScanHandle = errors.New("no scan handle available")
	// ErrAugmentationUnavailable is logged when the active-scan refresh of a
	// selected candidate could not be done.
	ErrAugmentationUnavailable = errors.New("augmentation unavailable")
	// ErrSavedNetworkCollision is logged when two saved networks map to the
	// same identity.
	ErrSavedNetworkCollision = errors.New("saved network collision")
)
