// Package savednetworks persists saved Wi-Fi credentials, their connection
// failure history and hidden-network bookkeeping in SQLite.
package savednetworks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/shazow/wifiselect/wifi"
)

// Hidden probability tuning.
const (
	HiddenProbabilityDefault      = 0.9
	HiddenProbabilitySeenPassive  = 0.05
	HiddenProbabilitySeenActive   = 0.95
	HiddenProbabilityNotSeenStep  = 0.14
	HiddenProbabilityNotSeenFloor = 0.25
)

// MaxFailuresPerNetwork bounds the stored failure history of one network.
const MaxFailuresPerNetwork = 32

// Store is a wifi.SavedNetworkStore backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

var _ wifi.SavedNetworkStore = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// Credentials live in this file.
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("chmod db path: %w", err)
	}
	if err := ApplyMigrations(ctx, db); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return &Store{
		db:  db,
		now: time.Now,
		log: logger.With().Str("component", "savednetworks").Logger(),
	}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetNetworks implements wifi.SavedNetworkStore.
func (s *Store) GetNetworks(ctx context.Context) ([]wifi.SavedNetwork, error) {
	return s.query(ctx, `SELECT network_id, ssid, security, credential_kind, credential, has_ever_connected, hidden_probability FROM networks ORDER BY network_id`)
}

// Lookup implements wifi.SavedNetworkStore.
func (s *Store) Lookup(ctx context.Context, id wifi.NetworkIdentifier) ([]wifi.SavedNetwork, error) {
	return s.query(ctx, `SELECT network_id, ssid, security, credential_kind, credential, has_ever_connected, hidden_probability FROM networks WHERE ssid = ? AND security = ? ORDER BY network_id`, []byte(id.SSID), int(id.Security))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]wifi.SavedNetwork, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query networks: %w", err)
	}
	defer rows.Close()

	var (
		networks []wifi.SavedNetwork
		rowIDs   []int64
	)
	for rows.Next() {
		var (
			rowID     int64
			ssid      []byte
			security  int
			credKind  int
			cred      []byte
			connected int
			n         wifi.SavedNetwork
		)
		if err := rows.Scan(&rowID, &ssid, &security, &credKind, &cred, &connected, &n.HiddenProbability); err != nil {
			return nil, fmt.Errorf("scan network: %w", err)
		}
		n.ID = wifi.NetworkIdentifier{SSID: wifi.SSID(ssid), Security: wifi.SecurityType(security)}
		n.Credential = wifi.Credential{Kind: wifi.CredentialKind(credKind), Value: cred}
		n.HasEverConnected = connected != 0
		networks = append(networks, n)
		rowIDs = append(rowIDs, rowID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate networks: %w", err)
	}
	rows.Close()

	for i, rowID := range rowIDs {
		failures, err := s.failures(ctx, rowID)
		if err != nil {
			return nil, err
		}
		networks[i].Failures = failures
	}
	return networks, nil
}

func (s *Store) failures(ctx context.Context, rowID int64) ([]wifi.ConnectFailure, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bssid, reason, failed_at FROM connect_failures WHERE network_id = ? ORDER BY failed_at, failure_id`, rowID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var out []wifi.ConnectFailure
	for rows.Next() {
		var (
			bssid, at string
			reason    int
		)
		if err := rows.Scan(&bssid, &reason, &at); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		b, err := wifi.ParseBSSID(bssid)
		if err != nil {
			return nil, err
		}
		t, err := parseTS(at)
		if err != nil {
			return nil, fmt.Errorf("parse failed_at: %w", err)
		}
		out = append(out, wifi.ConnectFailure{BSSID: b, Time: t, Reason: wifi.FailureReason(reason)})
	}
	return out, rows.Err()
}

// Store implements wifi.SavedNetworkStore. Replacing the credential of an
// existing network clears its failure history.
func (s *Store) Store(ctx context.Context, id wifi.NetworkIdentifier, credential wifi.Credential) error {
	if id.SSID == "" {
		return fmt.Errorf("store network: empty ssid")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin store tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		rowID    int64
		oldKind  int
		oldValue []byte
	)
	err = tx.QueryRowContext(ctx, `SELECT network_id, credential_kind, credential FROM networks WHERE ssid = ? AND security = ?`, []byte(id.SSID), int(id.Security)).Scan(&rowID, &oldKind, &oldValue)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
INSERT INTO networks(ssid, security, credential_kind, credential, hidden_probability, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, []byte(id.SSID), int(id.Security), int(credential.Kind), credential.Value, HiddenProbabilityDefault, ts(s.now()))
		if err != nil {
			return fmt.Errorf("insert network: %w", err)
		}
	case err != nil:
		return fmt.Errorf("lookup network: %w", err)
	default:
		if oldKind == int(credential.Kind) && string(oldValue) == string(credential.Value) {
			return tx.Commit()
		}
		s.log.Info().Stringer("security", id.Security).Msg("Replacing credential, clearing failure history")
		if _, err := tx.ExecContext(ctx, `UPDATE networks SET credential_kind = ?, credential = ?, has_ever_connected = 0 WHERE network_id = ?`, int(credential.Kind), credential.Value, rowID); err != nil {
			return fmt.Errorf("update network: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM connect_failures WHERE network_id = ?`, rowID); err != nil {
			return fmt.Errorf("clear failures: %w", err)
		}
	}
	return tx.Commit()
}

// Remove implements wifi.SavedNetworkStore.
func (s *Store) Remove(ctx context.Context, id wifi.NetworkIdentifier) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM networks WHERE ssid = ? AND security = ?`, []byte(id.SSID), int(id.Security))
	if err != nil {
		return fmt.Errorf("remove network: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove network %s: %w", id.Security, wifi.ErrNotFound)
	}
	return nil
}

// RecordConnectResult implements wifi.SavedNetworkStore.
func (s *Store) RecordConnectResult(ctx context.Context, id wifi.NetworkIdentifier, bssid wifi.BSSID, outcome wifi.ConnectOutcome) error {
	var rowID int64
	err := s.db.QueryRowContext(ctx, `SELECT network_id FROM networks WHERE ssid = ? AND security = ?`, []byte(id.SSID), int(id.Security)).Scan(&rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record connect result: %w", wifi.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup network: %w", err)
	}

	now := s.now()
	if outcome == wifi.ConnectSuccess {
		if _, err := s.db.ExecContext(ctx, `UPDATE networks SET has_ever_connected = 1, last_connected_at = ? WHERE network_id = ?`, ts(now), rowID); err != nil {
			return fmt.Errorf("record success: %w", err)
		}
		return nil
	}

	reason := wifi.FailureGeneral
	if outcome == wifi.ConnectCredentialRejected {
		reason = wifi.FailureCredentialRejected
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin failure tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	if _, err := tx.ExecContext(ctx, `INSERT INTO connect_failures(network_id, bssid, reason, failed_at) VALUES (?, ?, ?, ?)`, rowID, bssid.String(), int(reason), ts(now)); err != nil {
		return fmt.Errorf("insert failure: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
DELETE FROM connect_failures WHERE network_id = ? AND failure_id NOT IN (
	SELECT failure_id FROM connect_failures WHERE network_id = ? ORDER BY failed_at DESC, failure_id DESC LIMIT ?
)`, rowID, rowID, MaxFailuresPerNetwork); err != nil {
		return fmt.Errorf("prune failures: %w", err)
	}
	return tx.Commit()
}

// RecordScanResult implements wifi.SavedNetworkStore. Networks seen by a
// passive scan are very unlikely to be hidden. Requested networks found only
// by an active scan are likely hidden; those not found at all decay towards
// HiddenProbabilityNotSeenFloor.
func (s *Store) RecordScanResult(ctx context.Context, kind wifi.ScanKind, requested, observed []wifi.NetworkIdentifier) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin scan result tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	seen := make(map[wifi.NetworkIdentifier]struct{}, len(observed))
	for _, id := range observed {
		seen[id] = struct{}{}
	}

	if kind == wifi.ScanPassive {
		for id := range seen {
			if err := setHidden(ctx, tx, id, HiddenProbabilitySeenPassive); err != nil {
				return err
			}
		}
		return tx.Commit()
	}

	for _, id := range requested {
		if _, ok := seen[id]; ok {
			err = setHidden(ctx, tx, id, HiddenProbabilitySeenActive)
		} else {
			err = decayHidden(ctx, tx, id)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func setHidden(ctx context.Context, tx *sql.Tx, id wifi.NetworkIdentifier, p float64) error {
	if _, err := tx.ExecContext(ctx, `UPDATE networks SET hidden_probability = ? WHERE ssid = ? AND security = ?`, p, []byte(id.SSID), int(id.Security)); err != nil {
		return fmt.Errorf("update hidden probability: %w", err)
	}
	return nil
}

// decayHidden lowers the probability by one step, never below the floor and
// never raising a value that is already below it.
func decayHidden(ctx context.Context, tx *sql.Tx, id wifi.NetworkIdentifier) error {
	_, err := tx.ExecContext(ctx, `
UPDATE networks SET hidden_probability = MAX(?, hidden_probability - ?)
WHERE ssid = ? AND security = ? AND hidden_probability > ?
`, HiddenProbabilityNotSeenFloor, HiddenProbabilityNotSeenStep, []byte(id.SSID), int(id.Security), HiddenProbabilityNotSeenFloor)
	if err != nil {
		return fmt.Errorf("decay hidden probability: %w", err)
	}
	return nil
}

// tsLayout is fixed width so stored timestamps sort lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(tsLayout, s)
}
