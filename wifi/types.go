package wifi

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// SSID is a network name. It is a byte string and may not be valid UTF-8.
type SSID string

// BSSID is the radio address of a single access point.
type BSSID [6]byte

func (b BSSID) String() string {
	return net.HardwareAddr(b[:]).String()
}

// MarshalText implements encoding.TextMarshaler.
func (b BSSID) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BSSID) UnmarshalText(text []byte) error {
	parsed, err := ParseBSSID(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBSSID parses a colon separated MAC address like "00:11:22:33:44:55".
func ParseBSSID(s string) (BSSID, error) {
	var b BSSID
	hw, err := net.ParseMAC(s)
	if err != nil {
		return b, fmt.Errorf("invalid bssid %q: %w", s, err)
	}
	if len(hw) != len(b) {
		return b, fmt.Errorf("invalid bssid %q: expected 6 bytes, got %d", s, len(hw))
	}
	copy(b[:], hw)
	return b, nil
}

// SecurityType is the coarse security category used to identify saved networks.
type SecurityType int

const (
	SecurityNone SecurityType = iota
	SecurityWEP
	SecurityWPA
	SecurityWPA2
	SecurityWPA3
)

func (s SecurityType) String() string {
	switch s {
	case SecurityNone:
		return "none"
	case SecurityWEP:
		return "wep"
	case SecurityWPA:
		return "wpa"
	case SecurityWPA2:
		return "wpa2"
	case SecurityWPA3:
		return "wpa3"
	}
	return fmt.Sprintf("security(%d)", int(s))
}

// ParseSecurityType is the inverse of SecurityType.String. "open" is accepted
// as an alias for "none".
func ParseSecurityType(s string) (SecurityType, error) {
	switch strings.ToLower(s) {
	case "none", "open":
		return SecurityNone, nil
	case "wep":
		return SecurityWEP, nil
	case "wpa", "wpa1":
		return SecurityWPA, nil
	case "wpa2":
		return SecurityWPA2, nil
	case "wpa3":
		return SecurityWPA3, nil
	}
	return SecurityNone, fmt.Errorf("invalid security type %q: %w", s, ErrNotSupported)
}

// NetworkIdentifier is the identity of a saved network. It is comparable and
// used as a map key.
type NetworkIdentifier struct {
	SSID     SSID
	Security SecurityType
}

func (id NetworkIdentifier) String() string {
	return fmt.Sprintf("%s:%s", id.SSID, id.Security)
}

// ParseNetworkIdentifier parses "ssid:security". The security suffix is split
// on the last colon so SSIDs may contain colons.
func ParseNetworkIdentifier(s string) (NetworkIdentifier, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return NetworkIdentifier{}, fmt.Errorf("invalid network %q: expected ssid:security", s)
	}
	sec, err := ParseSecurityType(s[i+1:])
	if err != nil {
		return NetworkIdentifier{}, err
	}
	return NetworkIdentifier{SSID: SSID(s[:i]), Security: sec}, nil
}

// CredentialKind describes what kind of secret a Credential holds.
type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialPassword
	CredentialPSK
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialPassword:
		return "password"
	case CredentialPSK:
		return "psk"
	}
	return "none"
}

// Credential is opaque secret material. It is passed through untouched.
type Credential struct {
	Kind  CredentialKind
	Value []byte
}

// String never renders the secret.
func (c Credential) String() string {
	if c.Kind == CredentialNone {
		return "none"
	}
	return c.Kind.String() + "(redacted)"
}

// FailureReason classifies a failed connection attempt.
type FailureReason int

const (
	FailureGeneral FailureReason = iota
	FailureCredentialRejected
)

func (r FailureReason) String() string {
	if r == FailureCredentialRejected {
		return "credential_rejected"
	}
	return "general"
}

// ConnectFailure is a single failed connection attempt against one BSS.
type ConnectFailure struct {
	BSSID  BSSID
	Time   time.Time
	Reason FailureReason
}

// SavedNetwork is a snapshot of one saved-network record.
type SavedNetwork struct {
	ID               NetworkIdentifier
	Credential       Credential
	HasEverConnected bool
	// HiddenProbability is the likelihood that the network does not
	// broadcast its SSID and needs an active scan to be found.
	HiddenProbability float64
	Failures          []ConnectFailure
}

// RecentFailures returns the failures that happened at or after since, in
// their original order.
func (n SavedNetwork) RecentFailures(since time.Time) []ConnectFailure {
	var recent []ConnectFailure
	for _, f := range n.Failures {
		if !f.Time.Before(since) {
			recent = append(recent, f)
		}
	}
	return recent
}

// Bandwidth is the channel width.
type Bandwidth int

const (
	Bandwidth20 Bandwidth = iota
	Bandwidth40
	Bandwidth80
	Bandwidth160
)

// Channel is the primary channel number and its bandwidth.
type Channel struct {
	Primary   uint8
	Bandwidth Bandwidth
}

// Is5GHz reports whether the channel is outside the 2.4 GHz band.
func (c Channel) Is5GHz() bool {
	return c.Primary > 14
}

func (c Channel) String() string {
	return fmt.Sprintf("%d", c.Primary)
}

// ChannelFromFrequency maps a center frequency in MHz to its channel number.
// Unknown frequencies return channel 0.
func ChannelFromFrequency(mhz uint32) Channel {
	switch {
	case mhz == 2484:
		return Channel{Primary: 14}
	case mhz >= 2412 && mhz < 2484:
		return Channel{Primary: uint8((mhz - 2407) / 5)}
	case mhz >= 5160 && mhz <= 5885:
		return Channel{Primary: uint8((mhz - 5000) / 5)}
	}
	return Channel{}
}

// Bss is one access point as seen by a scan.
type Bss struct {
	BSSID                 BSSID
	RSSI                  int8
	SNR                   int8
	Channel               Channel
	ObservedInPassiveScan bool
	Compatible            bool
	// Descriptor is consumed later to actually connect.
	Descriptor []byte
}

// ScanResult groups the BSSs for one (SSID, Protection) pair.
type ScanResult struct {
	SSID       SSID
	Protection Protection
	Entries    []Bss
	// Compatible is true if any entry is compatible.
	Compatible bool
}

// Identifier returns the saved-network identity this result would match.
// It returns false if the protection is not recognized.
func (r ScanResult) Identifier(wpa3Capable bool) (NetworkIdentifier, bool) {
	sec, ok := SecurityFromProtection(r.Protection, wpa3Capable)
	if !ok {
		return NetworkIdentifier{}, false
	}
	return NetworkIdentifier{SSID: r.SSID, Security: sec}, true
}

// ConnectionCandidate is the output of network selection: everything needed
// to attempt a connection.
type ConnectionCandidate struct {
	Network    NetworkIdentifier
	Credential Credential
	BSSID      BSSID
	Descriptor []byte
	// ObservedInPassiveScan is nil when no passive scan informed the selection.
	ObservedInPassiveScan *bool
	MultipleBssCandidates *bool
}
