package selection

import "time"

// Config holds the selection tunables.
type Config struct {
	// StaleScanAge is how long cached scan results are reused. It is kept
	// tiny so a selection request almost always triggers a fresh scan.
	StaleScanAge        time.Duration
	RecentFailureWindow time.Duration

	RSSICutoff5G              int8
	Boost5G                   int8
	GeneralFailurePenalty     int8
	CredentialRejectedPenalty int8

	SelectionLogLimit int

	// Saved networks whose hidden probability is strictly above this are
	// probed with an active scan when not seen passively.
	HiddenProbabilityThreshold float64
	MaxActiveScanNetworks      int
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		StaleScanAge:               50 * time.Millisecond,
		RecentFailureWindow:        5 * time.Minute,
		RSSICutoff5G:               -64,
		Boost5G:                    20,
		GeneralFailurePenalty:      5,
		CredentialRejectedPenalty:  30,
		SelectionLogLimit:          10,
		HiddenProbabilityThreshold: 0.25,
		MaxActiveScanNetworks:      8,
	}
}
