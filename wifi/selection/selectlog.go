package selection

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScoredCandidate is a log-safe view of one candidate considered by a
// selection. Network and BSSID are keyed hashes.
type ScoredCandidate struct {
	Network          string `json:"network"`
	BSSID            string `json:"bssid"`
	RSSI             int8   `json:"rssi"`
	Channel          uint8  `json:"channel"`
	Score            int8   `json:"score"`
	Compatible       bool   `json:"compatible"`
	RecentFailures   int    `json:"recent_failures"`
	HasEverConnected bool   `json:"has_ever_connected"`
}

// SelectionRecord is one pass of candidate selection.
type SelectionRecord struct {
	ID         uuid.UUID         `json:"id"`
	Time       time.Time         `json:"time"`
	Candidates []ScoredCandidate `json:"candidates"`
	Selected   *ScoredCandidate  `json:"selected,omitempty"`
}

// SelectionLog keeps the most recent selections, oldest first.
type SelectionLog struct {
	mu      sync.Mutex
	limit   int
	records []SelectionRecord
}

func NewSelectionLog(limit int) *SelectionLog {
	if limit < 1 {
		limit = 1
	}
	return &SelectionLog{limit: limit}
}

// Add appends a record, evicting the oldest when full.
func (l *SelectionLog) Add(r SelectionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) >= l.limit {
		l.records = slices.Delete(l.records, 0, len(l.records)-l.limit+1)
	}
	l.records = append(l.records, r)
}

// Records returns a copy of the retained records.
func (l *SelectionLog) Records() []SelectionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.records)
}
