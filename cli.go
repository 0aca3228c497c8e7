package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shazow/wifiselect/internal/tui"
	"github.com/shazow/wifiselect/wifi"
	"github.com/shazow/wifiselect/wifi/scan"
)

type bssView struct {
	BSSID      wifi.BSSID `json:"bssid"`
	RSSI       int8       `json:"rssi"`
	Channel    uint8      `json:"channel"`
	Passive    bool       `json:"observed_in_passive_scan"`
	Compatible bool       `json:"compatible"`
}

type resultView struct {
	SSID       string    `json:"ssid"`
	Protection string    `json:"protection"`
	Compatible bool      `json:"compatible"`
	Entries    []bssView `json:"entries"`
}

func newResultView(r wifi.ScanResult) resultView {
	v := resultView{
		SSID:       string(r.SSID),
		Protection: r.Protection.String(),
		Compatible: r.Compatible,
		Entries:    make([]bssView, len(r.Entries)),
	}
	for i, e := range r.Entries {
		v.Entries[i] = bssView{
			BSSID:      e.BSSID,
			RSSI:       e.RSSI,
			Channel:    e.Channel.Primary,
			Passive:    e.ObservedInPassiveScan,
			Compatible: e.Compatible,
		}
	}
	return v
}

// candidateView never carries the credential value.
type candidateView struct {
	Network               string     `json:"network"`
	BSSID                 wifi.BSSID `json:"bssid"`
	Credential            string     `json:"credential"`
	ObservedInPassiveScan *bool      `json:"observed_in_passive_scan,omitempty"`
	MultipleBssCandidates *bool      `json:"multiple_bss_candidates,omitempty"`
}

func newCandidateView(c *wifi.ConnectionCandidate) candidateView {
	return candidateView{
		Network:               c.Network.String(),
		BSSID:                 c.BSSID,
		Credential:            c.Credential.String(),
		ObservedInPassiveScan: c.ObservedInPassiveScan,
		MultipleBssCandidates: c.MultipleBssCandidates,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatBool(p *bool) string {
	if p == nil {
		return "unknown"
	}
	return fmt.Sprintf("%t", *p)
}

// runScan runs one scan round and pulls every chunk through an iterator, the
// way an external requester would.
func runScan(ctx context.Context, w io.Writer, s *session, asJSON bool) error {
	it := s.scanner.NewIterator()
	defer it.Close()

	consumers := append([]scan.Sink{s.selector.ScanSink()}, s.sinks...)
	done := make(chan struct{})
	go func() {
		defer close(done)
		// The round's error also reaches the iterator.
		_ = s.scanner.RunScanRound(ctx, it, consumers, s.selector.ActiveScanDecider(ctx))
	}()
	defer func() { <-done }()

	var results []wifi.ScanResult
	for {
		chunk, err := it.GetNext(ctx)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if len(chunk) == 0 {
			break
		}
		results = append(results, chunk...)
	}

	if asJSON {
		views := make([]resultView, len(results))
		for i, r := range results {
			views[i] = newResultView(r)
		}
		return writeJSON(w, views)
	}

	wifi.SortByStrength(results)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		compat := ""
		if !r.Compatible {
			compat = "incompatible"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d dBm\t%d BSS\t%s\n", r.SSID, r.Protection, r.StrongestRSSI(), len(r.Entries), compat)
	}
	return tw.Flush()
}

func parseIdentifiers(args []string) ([]wifi.NetworkIdentifier, error) {
	ids := make([]wifi.NetworkIdentifier, 0, len(args))
	for _, a := range args {
		id, err := wifi.ParseNetworkIdentifier(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeCandidate(w io.Writer, c *wifi.ConnectionCandidate, asJSON bool) error {
	if asJSON {
		if c == nil {
			return writeJSON(w, nil)
		}
		return writeJSON(w, newCandidateView(c))
	}
	if c == nil {
		fmt.Fprintln(w, "No candidate.")
		return nil
	}
	fmt.Fprintf(w, "Network: %s\n", c.Network)
	fmt.Fprintf(w, "BSSID: %s\n", c.BSSID)
	fmt.Fprintf(w, "Credential: %s\n", c.Credential)
	fmt.Fprintf(w, "Observed in passive scan: %s\n", formatBool(c.ObservedInPassiveScan))
	fmt.Fprintf(w, "Multiple BSS candidates: %s\n", formatBool(c.MultipleBssCandidates))
	return nil
}

func runSelect(ctx context.Context, w io.Writer, s *session, ignore []string, asJSON, inspect bool) error {
	ids, err := parseIdentifiers(ignore)
	if err != nil {
		return err
	}
	c, err := s.selector.FindBestConnectionCandidate(ctx, ids)
	if err != nil {
		return fmt.Errorf("selection failed: %w", err)
	}
	if err := writeCandidate(w, c, asJSON); err != nil {
		return err
	}
	if !inspect {
		return nil
	}

	records := s.selector.Selections()
	if asJSON {
		return writeJSON(w, records)
	}
	for _, r := range records {
		fmt.Fprintf(w, "\nSelection %s at %s\n", r.ID, r.Time.Format(time.RFC3339))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, sc := range r.Candidates {
			mark := " "
			if r.Selected != nil && *r.Selected == sc {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d dBm\tch %d\tscore %d\tfailures %d\tcompatible %t\n",
				mark, sc.Network, sc.BSSID, sc.RSSI, sc.Channel, sc.Score, sc.RecentFailures, sc.Compatible)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func runCandidate(ctx context.Context, w io.Writer, s *session, ssid, security string, wpa3, asJSON bool) error {
	sec, err := wifi.ParseSecurityType(security)
	if err != nil {
		return err
	}
	id := wifi.NetworkIdentifier{SSID: wifi.SSID(ssid), Security: sec}
	c, err := s.selector.FindConnectionCandidateForNetwork(ctx, id, wpa3 || s.radio.HasWPA3CapableClient(ctx))
	if err != nil {
		return fmt.Errorf("candidate lookup failed: %w", err)
	}
	return writeCandidate(w, c, asJSON)
}

type savedView struct {
	Network           string  `json:"network"`
	Credential        string  `json:"credential"`
	HasEverConnected  bool    `json:"has_ever_connected"`
	HiddenProbability float64 `json:"hidden_probability"`
	Failures          int     `json:"failures"`
}

func runSavedList(ctx context.Context, w io.Writer, s *session, asJSON bool) error {
	networks, err := s.store.GetNetworks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list saved networks: %w", err)
	}
	views := make([]savedView, len(networks))
	for i, n := range networks {
		views[i] = savedView{
			Network:           n.ID.String(),
			Credential:        n.Credential.String(),
			HasEverConnected:  n.HasEverConnected,
			HiddenProbability: n.HiddenProbability,
			Failures:          len(n.Failures),
		}
	}
	if asJSON {
		return writeJSON(w, views)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\tconnected=%t\thidden=%.2f\tfailures=%d\n",
			v.Network, v.Credential, v.HasEverConnected, v.HiddenProbability, v.Failures)
	}
	return tw.Flush()
}

func runSavedAdd(ctx context.Context, w io.Writer, s *session, ssid, security, secret string, psk bool) error {
	sec, err := wifi.ParseSecurityType(security)
	if err != nil {
		return err
	}
	cred := wifi.Credential{}
	switch {
	case sec == wifi.SecurityNone:
		if secret != "" {
			return fmt.Errorf("open networks take no passphrase")
		}
	case secret == "":
		return fmt.Errorf("%s networks need a passphrase", sec)
	case psk:
		cred = wifi.Credential{Kind: wifi.CredentialPSK, Value: []byte(secret)}
	default:
		cred = wifi.Credential{Kind: wifi.CredentialPassword, Value: []byte(secret)}
	}

	id := wifi.NetworkIdentifier{SSID: wifi.SSID(ssid), Security: sec}
	if err := s.store.Store(ctx, id, cred); err != nil {
		return fmt.Errorf("failed to save network: %w", err)
	}
	fmt.Fprintf(w, "Saved %s\n", id)
	return nil
}

func runSavedForget(ctx context.Context, w io.Writer, s *session, network string) error {
	id, err := wifi.ParseNetworkIdentifier(network)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to forget network: %w", err)
	}
	fmt.Fprintf(w, "Forgot %s\n", id)
	return nil
}

func runSavedResult(ctx context.Context, w io.Writer, s *session, network, bssid string, outcome wifi.ConnectOutcome) error {
	id, err := wifi.ParseNetworkIdentifier(network)
	if err != nil {
		return err
	}
	var b wifi.BSSID
	if bssid != "" {
		if b, err = wifi.ParseBSSID(bssid); err != nil {
			return err
		}
	}
	if err := s.store.RecordConnectResult(ctx, id, b, outcome); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	fmt.Fprintf(w, "Recorded %s for %s\n", outcomeName(outcome), id)
	return nil
}

func outcomeName(o wifi.ConnectOutcome) string {
	switch o {
	case wifi.ConnectFailed:
		return "failure"
	case wifi.ConnectCredentialRejected:
		return "credential rejection"
	}
	return "success"
}

func runWatch(ctx context.Context, s *session, interval time.Duration) error {
	if err := tui.LoadThemeFile(s.cfg.TUI.Theme); err != nil {
		return fmt.Errorf("error loading theme: %w", err)
	}
	if err := tui.Run(ctx, s.selector, interval); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
