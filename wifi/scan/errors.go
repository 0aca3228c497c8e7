package scan

import "errors"

var (
	// ErrGeneral is the only error a requester ever sees from a scan round.
	ErrGeneral = errors.New("scan error")
	// ErrPeerClosed means the requester went away before receiving anything.
	ErrPeerClosed = errors.New("peer closed before receiving any results")
	// ErrIteratorClosed is returned by GetNext after the iterator is done.
	ErrIteratorClosed = errors.New("iterator closed")
)
