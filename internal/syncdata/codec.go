// Package syncdata implements the cross-device synchronization codec: the
// whole store state serialized into one opaque printable token that can be
// rendered as a QR code or pasted as plain text on another device.
//
// Conflict policy: import is a full overwrite of the local slots present in
// the token. There is no merge and no freshness comparison between devices;
// last import wins. This is a deliberate, documented limitation.
package syncdata

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/attendance"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/internal/store"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/logger"
)

// FormatVersion is the snapshot format emitted by this device.
const FormatVersion = 1

// QRMaxBytes is the binary payload capacity of the largest QR symbol
// (version 40, error correction L). Tokens beyond this still work as
// pasted text but cannot be rendered as a single QR code.
const QRMaxBytes = 2953

// Snapshot is a full, self-contained copy of all collections at one
// instant - never partial. Field names are the wire format.
type Snapshot struct {
	Students    []roster.Student     `json:"students"`
	MonthlyFees []billing.MonthlyFee `json:"monthlyFees"`
	Attendances []attendance.Record  `json:"attendances"`
	Settings    settings.AppSettings `json:"settings"`
	Version     int                  `json:"version"`
	Timestamp   int64                `json:"timestamp"` // epoch millis
}

// partialSnapshot mirrors Snapshot with pointer fields so import can tell
// an absent collection from an empty one and apply only what is present.
type partialSnapshot struct {
	Students    *[]roster.Student     `json:"students"`
	MonthlyFees *[]billing.MonthlyFee `json:"monthlyFees"`
	Attendances *[]attendance.Record  `json:"attendances"`
	Settings    *settings.AppSettings `json:"settings"`
	Version     int                   `json:"version"`
	Timestamp   int64                 `json:"timestamp"`
}

var (
	// ErrEmptyToken - nothing to import; rejected before any decoding.
	ErrEmptyToken = errors.New("sync token is empty")

	// ErrBadToken - the token is not decodable or not a valid snapshot;
	// nothing was written.
	ErrBadToken = errors.New("sync token is malformed")
)

// TokenInfo describes an exported token so callers can warn the user when a
// snapshot (typically one heavy with photos) no longer fits in a QR code.
type TokenInfo struct {
	// Bytes is the token length in bytes (one byte per character - the
	// token alphabet is pure ASCII).
	Bytes int `json:"bytes"`

	// FitsQR reports whether the token fits a single QR symbol.
	FitsQR bool `json:"fitsQr"`
}

// Codec exports and imports full-state snapshots through the store.
type Codec struct {
	store *store.Store
	log   *logger.Logger
	now   func() time.Time
}

// New creates a codec bound to the given store.
func New(st *store.Store, log *logger.Logger) *Codec {
	if log == nil {
		log = logger.Default()
	}
	return &Codec{
		store: st,
		log:   log.With(logger.Component("syncdata")),
		now:   time.Now,
	}
}

// Export reads all collections, assembles a snapshot and encodes it into a
// printable token.
//
// The serialization is JSON, which Go produces as UTF-8 bytes; those bytes
// are then run through a standard binary-to-text alphabet (base64). Working
// on bytes rather than characters is what keeps multi-byte names and
// embedded photo data intact across devices.
func (c *Codec) Export() (string, TokenInfo, error) {
	snap := Snapshot{
		Students:    c.store.Students(),
		MonthlyFees: c.store.Fees(),
		Attendances: c.store.Attendance(),
		Settings:    c.store.Settings(),
		Version:     FormatVersion,
		Timestamp:   c.now().UnixMilli(),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", TokenInfo{}, fmt.Errorf("encode snapshot: %w", err)
	}

	token := base64.StdEncoding.EncodeToString(data)
	info := TokenInfo{
		Bytes:  len(token),
		FitsQR: len(token) <= QRMaxBytes,
	}

	c.log.Info("snapshot exported",
		logger.TokenBytes(info.Bytes),
		logger.Bool("fits_qr", info.FitsQR),
		logger.Int("students", len(snap.Students)))
	return token, info, nil
}

// Import decodes a token and overwrites the local collections with its
// contents. The whole token is decoded and validated before anything is
// written; on any failure no slot changes.
//
// Versioning is best-effort: a token carrying an unknown format version is
// still applied field by field, skipping collections the token does not
// carry. That leniency keeps old and new devices interoperable, at the cost
// of silently ignoring fields a future breaking format might rename.
func (c *Codec) Import(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	var snap partialSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	if snap.Version != FormatVersion {
		c.log.Warn("importing snapshot with unexpected format version",
			logger.Int("version", snap.Version))
	}

	if snap.Settings != nil {
		snap.Settings.Normalize()
	}

	err = c.store.ReplaceAll(store.Overwrite{
		Students:   snap.Students,
		Fees:       snap.MonthlyFees,
		Attendance: snap.Attendances,
		Settings:   snap.Settings,
	})
	if err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}

	c.log.Info("snapshot imported",
		logger.Int("version", snap.Version),
		logger.Bool("had_students", snap.Students != nil),
		logger.Bool("had_fees", snap.MonthlyFees != nil),
		logger.Bool("had_attendance", snap.Attendances != nil),
		logger.Bool("had_settings", snap.Settings != nil))
	return nil
}

// Measure reports token info for an already-exported token.
func Measure(token string) TokenInfo {
	return TokenInfo{Bytes: len(token), FitsQR: len(token) <= QRMaxBytes}
}
