package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shazow/wifiselect/wifi"
)

const (
	// DefaultChunkSize is the number of networks returned per GetNext.
	DefaultChunkSize = 5
	// DefaultIdleTimeout closes an iterator that nobody pulls from.
	DefaultIdleTimeout = 30 * time.Second
)

type payload struct {
	results []wifi.ScanResult
	err     error
}

// Iterator is the requester side of a scan round. The caller pulls results
// in chunks with GetNext until it returns an empty chunk. GetNext is not safe
// for concurrent use; Close is.
type Iterator struct {
	chunkSize int
	log       zerolog.Logger

	incoming chan payload
	done     chan struct{}
	once     sync.Once
	idle     *time.Timer
	timeout  time.Duration

	mu        sync.Mutex
	pending   []wifi.ScanResult
	received  bool
	pulled    bool
	delivered int
	closeErr  error
}

// NewIterator returns an iterator that serves chunkSize results per pull and
// closes itself after idle without a pull. The idle clock does not run while
// a GetNext is in progress.
func NewIterator(chunkSize int, idle time.Duration, logger zerolog.Logger) *Iterator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	it := &Iterator{
		chunkSize: chunkSize,
		log:       logger,
		incoming:  make(chan payload, 1),
		done:      make(chan struct{}),
		timeout:   idle,
	}
	if idle > 0 {
		it.idle = time.AfterFunc(idle, func() {
			it.log.Debug().Msg("Iterator idle, closing")
			it.Close()
		})
	}
	return it
}

// deliver hands the round's outcome to the iterator without blocking.
func (it *Iterator) deliver(results []wifi.ScanResult, err error) error {
	select {
	case <-it.done:
		it.mu.Lock()
		defer it.mu.Unlock()
		if it.closeErr != nil {
			return it.closeErr
		}
		return ErrIteratorClosed
	default:
	}
	select {
	case it.incoming <- payload{results: results, err: err}:
		return nil
	default:
		return errors.New("iterator already has results")
	}
}

// GetNext returns the next chunk. It blocks until the scan round delivers.
// An empty chunk means there is nothing left; after that the iterator is
// closed and GetNext returns ErrIteratorClosed.
func (it *Iterator) GetNext(ctx context.Context) ([]wifi.ScanResult, error) {
	it.mu.Lock()
	it.pulled = true
	received := it.received
	it.mu.Unlock()
	// A blocked pull is not idle. The timer restarts once the chunk is out.
	it.pause()
	defer it.touch()

	if !received {
		var p payload
		select {
		case p = <-it.incoming:
		case <-it.done:
			return nil, ErrIteratorClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		it.mu.Lock()
		it.received = true
		it.pending = p.results
		it.mu.Unlock()
		if p.err != nil {
			it.Close()
			return nil, p.err
		}
	}

	select {
	case <-it.done:
		return nil, ErrIteratorClosed
	default:
	}

	it.mu.Lock()
	if len(it.pending) == 0 {
		it.mu.Unlock()
		it.Close()
		return []wifi.ScanResult{}, nil
	}
	n := min(it.chunkSize, len(it.pending))
	chunk := it.pending[:n:n]
	it.pending = it.pending[n:]
	it.delivered += n
	it.mu.Unlock()
	return chunk, nil
}

// Close releases the iterator. Closing before exhaustion is fine, but
// closing without ever pulling or receiving anything is reported as
// ErrPeerClosed by Err.
func (it *Iterator) Close() {
	it.once.Do(func() {
		if it.idle != nil {
			it.idle.Stop()
		}
		it.mu.Lock()
		if !it.pulled && it.delivered == 0 {
			it.closeErr = ErrPeerClosed
		}
		it.pending = nil
		it.mu.Unlock()
		close(it.done)
		if it.closeErr != nil {
			it.log.Error().Err(it.closeErr).Msg("Scan iterator closed")
		}
	})
}

// Err returns ErrPeerClosed if the iterator closed before the caller
// received anything.
func (it *Iterator) Err() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.closeErr
}

// Done is closed once the iterator is closed.
func (it *Iterator) Done() <-chan struct{} {
	return it.done
}

func (it *Iterator) pause() {
	if it.idle != nil {
		it.idle.Stop()
	}
}

func (it *Iterator) touch() {
	if it.idle == nil {
		return
	}
	select {
	case <-it.done:
	default:
		it.idle.Reset(it.timeout)
	}
}
