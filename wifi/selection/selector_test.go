package selection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shazow/wifiselect/wifi"
	"github.com/shazow/wifiselect/wifi/scan"
)

type directedCall struct {
	ssid     wifi.SSID
	channels []uint8
}

// fakeScanner hands canned results to every consumer of a round.
type fakeScanner struct {
	results     []wifi.ScanResult
	roundErr    error
	directed    []wifi.ScanResult
	directedErr error

	rounds        int
	decided       []wifi.NetworkIdentifier
	directedCalls []directedCall
}

func (f *fakeScanner) RunScanRound(ctx context.Context, requester *scan.Iterator, consumers []scan.Sink, decide scan.ActiveScanDecider) error {
	f.rounds++
	if f.roundErr != nil {
		return f.roundErr
	}
	if decide != nil {
		var seen []wifi.SSID
		for _, r := range f.results {
			seen = append(seen, r.SSID)
		}
		f.decided = decide(seen)
	}
	for _, c := range consumers {
		_ = c.UpdateScanResults(ctx, f.results)
	}
	return nil
}

func (f *fakeScanner) DirectedActiveScan(ctx context.Context, ssid wifi.SSID, channels []uint8) ([]wifi.ScanResult, error) {
	f.directedCalls = append(f.directedCalls, directedCall{ssid, channels})
	return f.directed, f.directedErr
}

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *wifi.MockSavedNetworkStore
	ifaces  *wifi.MockIfaceManager
	scanner *fakeScanner
	sel     *Selector
	clock   time.Time
}

func newFixture(t *testing.T, saved ...wifi.SavedNetwork) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		store:   wifi.NewMockSavedNetworkStore(ctrl),
		ifaces:  wifi.NewMockIfaceManager(ctrl),
		scanner: &fakeScanner{},
		clock:   epoch,
	}
	f.store.EXPECT().GetNetworks(gomock.Any()).Return(saved, nil).AnyTimes()
	f.ifaces.EXPECT().HasWPA3CapableClient(gomock.Any()).Return(false).AnyTimes()
	f.sel = New(f.store, f.ifaces, f.scanner, DefaultConfig(), zerolog.Nop())
	f.sel.now = func() time.Time { return f.clock }
	return f
}

func savedNet(ssid string, sec wifi.SecurityType) wifi.SavedNetwork {
	return wifi.SavedNetwork{
		ID:                wifi.NetworkIdentifier{SSID: wifi.SSID(ssid), Security: sec},
		Credential:        wifi.Credential{Kind: wifi.CredentialPassword, Value: []byte("hunter22")},
		HiddenProbability: 0.05,
	}
}

func result(ssid string, p wifi.Protection, entries ...wifi.Bss) wifi.ScanResult {
	return wifi.ScanResult{SSID: wifi.SSID(ssid), Protection: p, Entries: entries, Compatible: true}
}

func bss(last byte, rssi int8, channel uint8, passive bool) wifi.Bss {
	return wifi.Bss{
		BSSID:                 wifi.BSSID{0x02, 0x00, 0x5e, 0x00, 0x00, last},
		RSSI:                  rssi,
		Channel:               wifi.Channel{Primary: channel},
		ObservedInPassiveScan: passive,
		Compatible:            true,
		Descriptor:            []byte(fmt.Sprintf("scan:%d", last)),
	}
}

func TestScore(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	fail := func(last byte, reason wifi.FailureReason) wifi.ConnectFailure {
		return wifi.ConnectFailure{BSSID: bss(last, 0, 0, true).BSSID, Time: now, Reason: reason}
	}

	tests := []struct {
		name     string
		bss      wifi.Bss
		failures []wifi.ConnectFailure
		want     int8
	}{
		{"2.4GHz no boost", bss(1, -8, 1, true), nil, -8},
		{"5GHz boost", bss(1, -49, 36, true), nil, -29},
		{"5GHz below cutoff", bss(1, -71, 36, true), nil, -71},
		{"5GHz at cutoff", bss(1, -64, 36, true), nil, -44},
		{"general failure", bss(1, -50, 1, true), []wifi.ConnectFailure{fail(1, wifi.FailureGeneral)}, -55},
		{"credential rejected", bss(1, -50, 1, true), []wifi.ConnectFailure{fail(1, wifi.FailureCredentialRejected)}, -80},
		{"failure on other bss", bss(1, -50, 1, true), []wifi.ConnectFailure{fail(2, wifi.FailureCredentialRejected)}, -50},
		{"saturates low", bss(1, -120, 1, true), []wifi.ConnectFailure{fail(1, wifi.FailureCredentialRejected)}, -128},
		{"saturates high", bss(1, 120, 36, true), nil, 127},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate{bss: tt.bss, saved: savedEntry{recentFailures: tt.failures}}
			assert.Equal(t, tt.want, score(c, cfg))
		})
	}
}

func TestScoreRepeatedFailuresSaturate(t *testing.T) {
	cfg := DefaultConfig()
	target := bss(1, -50, 36, true)
	prev := score(candidate{bss: target}, cfg)

	var failures []wifi.ConnectFailure
	for i := 0; i < 20; i++ {
		failures = append(failures, wifi.ConnectFailure{
			BSSID:  target.BSSID,
			Time:   time.Now(),
			Reason: wifi.FailureCredentialRejected,
		})
		got := score(candidate{bss: target, saved: savedEntry{recentFailures: failures}}, cfg)
		assert.LessOrEqual(t, got, prev, "%d failures", len(failures))
		prev = got
	}
	assert.Equal(t, int8(math.MinInt8), prev)
}

func TestBuildSavedNetworkTable(t *testing.T) {
	h := newHasher()
	table := buildSavedNetworkTable([]wifi.SavedNetwork{
		savedNet("a", wifi.SecurityWPA),
		savedNet("b", wifi.SecurityWPA2),
		savedNet("c", wifi.SecurityNone),
	}, time.Now(), h, zerolog.Nop())

	for key, native := range map[wifi.NetworkIdentifier]wifi.SecurityType{
		{SSID: "a", Security: wifi.SecurityWPA}:  wifi.SecurityWPA,
		{SSID: "a", Security: wifi.SecurityWPA2}: wifi.SecurityWPA,
		{SSID: "b", Security: wifi.SecurityWPA2}: wifi.SecurityWPA2,
		{SSID: "b", Security: wifi.SecurityWPA3}: wifi.SecurityWPA2,
		{SSID: "c", Security: wifi.SecurityNone}: wifi.SecurityNone,
	} {
		e, ok := table[key]
		require.True(t, ok, "missing %s", key)
		assert.Equal(t, native, e.network.ID.Security, key.String())
	}
	assert.Len(t, table, 5)
}

func TestBuildSavedNetworkTableCollision(t *testing.T) {
	wpa := savedNet("a", wifi.SecurityWPA)
	wpa2 := savedNet("a", wifi.SecurityWPA2)

	table := buildSavedNetworkTable([]wifi.SavedNetwork{wpa2, wpa}, time.Now(), newHasher(), zerolog.Nop())
	// The WPA upgrade overwrites the native WPA2 entry.
	assert.Equal(t, wifi.SecurityWPA, table[wpa2.ID].network.ID.Security)

	table = buildSavedNetworkTable([]wifi.SavedNetwork{wpa, wpa2}, time.Now(), newHasher(), zerolog.Nop())
	assert.Equal(t, wifi.SecurityWPA2, table[wpa2.ID].network.ID.Security)
}

func TestFindBestPrefersBoosted5GHz(t *testing.T) {
	f := newFixture(t, savedNet("home", wifi.SecurityWPA2))
	f.scanner.results = []wifi.ScanResult{
		result("home", wifi.ProtectionWPA2Personal, bss(1, -45, 6, true), bss(2, -55, 36, true)),
	}

	got, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bss(2, 0, 0, true).BSSID, got.BSSID)
	assert.Equal(t, wifi.NetworkIdentifier{SSID: "home", Security: wifi.SecurityWPA2}, got.Network)
	require.NotNil(t, got.MultipleBssCandidates)
	assert.True(t, *got.MultipleBssCandidates)
	require.NotNil(t, got.ObservedInPassiveScan)
	assert.True(t, *got.ObservedInPassiveScan)
	assert.Equal(t, []byte("hunter22"), got.Credential.Value)
}

func TestFindBestUpgradesSavedSecurity(t *testing.T) {
	f := newFixture(t, savedNet("legacy", wifi.SecurityWPA))
	f.scanner.results = []wifi.ScanResult{
		result("legacy", wifi.ProtectionWPA2Personal, bss(1, -60, 6, true)),
	}

	got, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	// The candidate carries the saved identity, not the scanned one.
	assert.Equal(t, wifi.SecurityWPA, got.Network.Security)
	require.NotNil(t, got.MultipleBssCandidates)
	assert.False(t, *got.MultipleBssCandidates)
}

func TestFindBestFilters(t *testing.T) {
	incompatible := bss(3, -20, 6, true)
	incompatible.Compatible = false

	tests := []struct {
		name    string
		results []wifi.ScanResult
		ignore  []wifi.NetworkIdentifier
		want    wifi.SSID
	}{
		{
			name: "ignored network skipped",
			results: []wifi.ScanResult{
				result("home", wifi.ProtectionWPA2Personal, bss(1, -30, 6, true)),
				result("work", wifi.ProtectionWPA2Personal, bss(2, -70, 6, true)),
			},
			ignore: []wifi.NetworkIdentifier{{SSID: "home", Security: wifi.SecurityWPA2}},
			want:   "work",
		},
		{
			name: "incompatible bss skipped",
			results: []wifi.ScanResult{
				result("home", wifi.ProtectionWPA2Personal, incompatible),
				result("work", wifi.ProtectionWPA2Personal, bss(2, -70, 6, true)),
			},
			want: "work",
		},
		{
			name: "unsaved network skipped",
			results: []wifi.ScanResult{
				result("coffee", wifi.ProtectionOpen, bss(1, -10, 6, true)),
				result("work", wifi.ProtectionWPA2Personal, bss(2, -70, 6, true)),
			},
			want: "work",
		},
		{
			name: "unknown protection skipped",
			results: []wifi.ScanResult{
				result("home", wifi.ProtectionUnknown, bss(1, -10, 6, true)),
				result("work", wifi.ProtectionWPA2Personal, bss(2, -70, 6, true)),
			},
			want: "work",
		},
		{
			name: "security mismatch skipped",
			results: []wifi.ScanResult{
				result("home", wifi.ProtectionOpen, bss(1, -10, 6, true)),
			},
		},
		{
			name: "tie keeps first",
			results: []wifi.ScanResult{
				result("home", wifi.ProtectionWPA2Personal, bss(1, -50, 6, true)),
				result("work", wifi.ProtectionWPA2Personal, bss(2, -50, 6, true)),
			},
			want: "home",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, savedNet("home", wifi.SecurityWPA2), savedNet("work", wifi.SecurityWPA2))
			f.scanner.results = tt.results

			got, err := f.sel.FindBestConnectionCandidate(context.Background(), tt.ignore)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Network.SSID)
		})
	}
}

func TestFindBestRecentFailures(t *testing.T) {
	home := savedNet("home", wifi.SecurityWPA2)
	home.Failures = []wifi.ConnectFailure{
		// Outside the window, ignored.
		{BSSID: bss(1, 0, 0, true).BSSID, Time: epoch.Add(-10 * time.Minute), Reason: wifi.FailureCredentialRejected},
		{BSSID: bss(1, 0, 0, true).BSSID, Time: epoch.Add(-time.Minute), Reason: wifi.FailureGeneral},
	}
	f := newFixture(t, home)
	f.scanner.results = []wifi.ScanResult{
		result("home", wifi.ProtectionWPA2Personal, bss(1, -50, 6, true), bss(2, -53, 6, true)),
	}

	got, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bss(2, 0, 0, true).BSSID, got.BSSID)

	records := f.sel.Selections()
	require.Len(t, records, 1)
	require.Len(t, records[0].Candidates, 2)
	assert.Equal(t, int8(-55), records[0].Candidates[0].Score)
	assert.Equal(t, 1, records[0].Candidates[0].RecentFailures)
	require.NotNil(t, records[0].Selected)
	assert.Equal(t, int8(-53), records[0].Selected.Score)
}

func TestFindBestNoCandidates(t *testing.T) {
	f := newFixture(t, savedNet("home", wifi.SecurityWPA2))

	got, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	require.Len(t, f.sel.Selections(), 1)
	assert.Nil(t, f.sel.Selections()[0].Selected)
}

func TestFindBestScanFailure(t *testing.T) {
	f := newFixture(t, savedNet("home", wifi.SecurityWPA2))
	f.scanner.roundErr = scan.ErrGeneral

	got, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindBestStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := wifi.NewMockSavedNetworkStore(ctrl)
	ifaces := wifi.NewMockIfaceManager(ctrl)
	store.EXPECT().GetNetworks(gomock.Any()).Return(nil, errors.New("disk on fire")).AnyTimes()
	ifaces.EXPECT().HasWPA3CapableClient(gomock.Any()).Return(false).AnyTimes()

	sel := New(store, ifaces, &fakeScanner{}, DefaultConfig(), zerolog.Nop())
	_, err := sel.FindBestConnectionCandidate(context.Background(), nil)
	assert.ErrorContains(t, err, "disk on fire")
}

func TestScanCacheReuse(t *testing.T) {
	f := newFixture(t, savedNet("home", wifi.SecurityWPA2))
	f.scanner.results = []wifi.ScanResult{
		result("home", wifi.ProtectionWPA2Personal, bss(1, -50, 6, false)),
	}
	ctx := context.Background()

	_, err := f.sel.FindBestConnectionCandidate(ctx, nil)
	require.NoError(t, err)
	f.clock = f.clock.Add(10 * time.Millisecond)
	_, err = f.sel.FindBestConnectionCandidate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.scanner.rounds)

	f.clock = f.clock.Add(DefaultConfig().StaleScanAge)
	_, err = f.sel.FindBestConnectionCandidate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, f.scanner.rounds)
}

func TestLastScanAgeLoggedOnEveryRequest(t *testing.T) {
	f := newFixture(t, savedNet("home", wifi.SecurityWPA2))
	var buf bytes.Buffer
	f.sel.log = zerolog.New(&buf)
	f.scanner.results = []wifi.ScanResult{
		result("home", wifi.ProtectionWPA2Personal, bss(1, -50, 6, false)),
	}
	ctx := context.Background()

	// Nothing cached yet, so there is no age to report.
	_, err := f.sel.FindBestConnectionCandidate(ctx, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "last_scan_age")

	f.clock = f.clock.Add(10 * time.Millisecond)
	_, err = f.sel.FindBestConnectionCandidate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), `"last_scan_age":10`), buf.String())

	f.clock = f.clock.Add(time.Second)
	_, err = f.sel.FindBestConnectionCandidate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(buf.String(), `"last_scan_age"`))
	assert.Equal(t, 2, f.scanner.rounds)
}

func TestScanSinkFeedsCache(t *testing.T) {
	f := newFixture(t, savedNet("home", wifi.SecurityWPA2))
	ctx := context.Background()

	// A round started elsewhere refreshes the cache.
	require.NoError(t, f.sel.ScanSink().UpdateScanResults(ctx, []wifi.ScanResult{
		result("home", wifi.ProtectionWPA2Personal, bss(1, -50, 6, false)),
	}))

	got, err := f.sel.FindBestConnectionCandidate(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0, f.scanner.rounds)
}

func TestObserversReceiveSelectorRounds(t *testing.T) {
	f := newFixture(t)
	f.scanner.results = []wifi.ScanResult{result("home", wifi.ProtectionWPA2Personal, bss(1, -50, 6, true))}

	var got []wifi.ScanResult
	f.sel.AddObserver(scan.SinkFunc(func(ctx context.Context, results []wifi.ScanResult) error {
		got = results
		return nil
	}))
	_, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, f.scanner.results, got)
}

func TestAugment(t *testing.T) {
	passive := bss(1, -50, 36, true)
	active := bss(1, -50, 36, false)
	active.Descriptor = []byte("directed-response")

	tests := []struct {
		name        string
		directed    []wifi.ScanResult
		directedErr error
		want        []byte
	}{
		{"replaced", []wifi.ScanResult{result("home", wifi.ProtectionWPA2Personal, bss(7, -40, 36, false), active)}, nil, []byte("directed-response")},
		{"scan error", nil, errors.New("busy"), passive.Descriptor},
		{"bss not found", []wifi.ScanResult{result("home", wifi.ProtectionWPA2Personal, bss(7, -40, 36, false))}, nil, passive.Descriptor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, savedNet("home", wifi.SecurityWPA2))
			f.scanner.results = []wifi.ScanResult{result("home", wifi.ProtectionWPA2Personal, passive)}
			f.scanner.directed = tt.directed
			f.scanner.directedErr = tt.directedErr

			got, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Descriptor)
			assert.Equal(t, []directedCall{{"home", []uint8{36}}}, f.scanner.directedCalls)

			// Only the descriptor comes from the directed scan.
			require.NotNil(t, got.ObservedInPassiveScan)
			require.NotNil(t, got.MultipleBssCandidates)
			assert.True(t, *got.ObservedInPassiveScan)
			assert.False(t, *got.MultipleBssCandidates)
			assert.Equal(t, passive.BSSID, got.BSSID)
		})
	}
}

func TestAugmentSkipped(t *testing.T) {
	f := newFixture(t, savedNet("home", wifi.SecurityWPA2))
	f.scanner.results = []wifi.ScanResult{result("home", wifi.ProtectionWPA2Personal, bss(1, -50, 36, false))}

	got, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, f.scanner.directedCalls)

	// Unknown scan origin is left untouched.
	c := wifi.ConnectionCandidate{Network: got.Network, Descriptor: []byte("x")}
	assert.Equal(t, c, f.sel.augment(context.Background(), c, wifi.Channel{Primary: 36}))
	assert.Empty(t, f.scanner.directedCalls)
}

func TestFindConnectionCandidateForNetwork(t *testing.T) {
	id := wifi.NetworkIdentifier{SSID: "hidden", Security: wifi.SecurityWPA2}
	f := newFixture(t)
	f.store.EXPECT().Lookup(gomock.Any(), id).Return([]wifi.SavedNetwork{savedNet("hidden", wifi.SecurityWPA2)}, nil)
	f.scanner.directed = []wifi.ScanResult{
		result("hidden", wifi.ProtectionWPA2Personal, bss(1, -70, 6, false), bss(2, -60, 6, false)),
	}

	got, err := f.sel.FindConnectionCandidateForNetwork(context.Background(), id, false)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.Network)
	assert.Equal(t, bss(2, 0, 0, false).BSSID, got.BSSID)
	assert.Nil(t, got.ObservedInPassiveScan)
	assert.Equal(t, []directedCall{{"hidden", nil}}, f.scanner.directedCalls)
	assert.Equal(t, 0, f.scanner.rounds)
}

func TestFindConnectionCandidateForNetworkWPA3(t *testing.T) {
	id := wifi.NetworkIdentifier{SSID: "modern", Security: wifi.SecurityWPA3}
	f := newFixture(t)
	f.store.EXPECT().Lookup(gomock.Any(), id).Return([]wifi.SavedNetwork{savedNet("modern", wifi.SecurityWPA3)}, nil).Times(2)
	f.scanner.directed = []wifi.ScanResult{
		result("modern", wifi.ProtectionWPA2WPA3Personal, bss(1, -50, 6, false)),
		result("modern", wifi.ProtectionWPA3Personal, bss(2, -60, 6, false)),
	}
	ctx := context.Background()

	// Without a WPA3 client every WPA3 network reads as WPA2.
	got, err := f.sel.FindConnectionCandidateForNetwork(ctx, id, false)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.sel.FindConnectionCandidateForNetwork(ctx, id, true)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bss(2, 0, 0, false).BSSID, got.BSSID)
}

func TestFindConnectionCandidateForNetworkScanFailure(t *testing.T) {
	f := newFixture(t)
	f.scanner.directedErr = errors.New("no radio")

	got, err := f.sel.FindConnectionCandidateForNetwork(context.Background(), wifi.NetworkIdentifier{SSID: "x", Security: wifi.SecurityNone}, false)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestActiveScanDecider(t *testing.T) {
	likely := savedNet("likely", wifi.SecurityWPA2)
	likely.HiddenProbability = 0.9
	maybe := savedNet("maybe", wifi.SecurityWPA2)
	maybe.HiddenProbability = 0.5
	floor := savedNet("floor", wifi.SecurityWPA2)
	floor.HiddenProbability = 0.25
	visible := savedNet("visible", wifi.SecurityWPA2)
	visible.HiddenProbability = 0.95

	f := newFixture(t, maybe, floor, visible, likely)
	f.scanner.results = []wifi.ScanResult{result("visible", wifi.ProtectionWPA2Personal, bss(1, -50, 6, true))}

	_, err := f.sel.FindBestConnectionCandidate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []wifi.NetworkIdentifier{likely.ID, maybe.ID}, f.scanner.decided)
}

func TestActiveScanDeciderLimit(t *testing.T) {
	var saved []wifi.SavedNetwork
	for i := range 12 {
		n := savedNet(fmt.Sprintf("net%d", i), wifi.SecurityWPA2)
		n.HiddenProbability = 0.9
		saved = append(saved, n)
	}
	f := newFixture(t, saved...)
	ids := f.sel.ActiveScanDecider(context.Background())(nil)
	assert.Len(t, ids, DefaultConfig().MaxActiveScanNetworks)
	assert.Equal(t, saved[0].ID, ids[0])
}

func TestSelectionLogLimit(t *testing.T) {
	l := NewSelectionLog(3)
	for i := range 5 {
		l.Add(SelectionRecord{Candidates: make([]ScoredCandidate, i)})
	}
	records := l.Records()
	require.Len(t, records, 3)
	assert.Len(t, records[0].Candidates, 2)
	assert.Len(t, records[2].Candidates, 4)
}

func TestCandidateRenderHidesIdentity(t *testing.T) {
	h := newHasher()
	c := candidate{
		saved: savedEntry{network: savedNet("MySecretHome", wifi.SecurityWPA2)},
		bss:   bss(0xab, -50, 36, true),
	}
	c.bss.Compatible = false

	s := c.render(h, -30)
	assert.NotContains(t, s, "MySecretHome")
	assert.NotContains(t, s, "02:00:5e:00:00:ab")
	assert.Contains(t, s, "rssi: -50")
	assert.Contains(t, s, "NOT compatible")
	assert.Contains(t, s, "never used yet")
	assert.Equal(t, h.hash([]byte("MySecretHome")), h.hash([]byte("MySecretHome")))
}
