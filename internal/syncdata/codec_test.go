package syncdata

import (
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/attendance"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/internal/store"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "dojo.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedStore(t *testing.T, s *store.Store) {
	t.Helper()
	require.NoError(t, s.SaveStudents([]roster.Student{{
		ID:      "s1",
		Name:    "João Hiroshi Tanaka", // multi-byte name must survive the round trip
		Status:  roster.StatusActive,
		Belt:    "ROXA",
		Stripes: 2,
	}}))
	require.NoError(t, s.SaveFees([]billing.MonthlyFee{{
		ID:        "f1",
		StudentID: "s1",
		DueDate:   timeutil.Date(2026, 3, 5),
		Amount:    10000,
		Status:    billing.StatusOverdue,
	}}))
	require.NoError(t, s.SaveAttendance([]attendance.Record{{
		ID:        "a1",
		StudentID: "s1",
		DateTime:  timeutil.DateTime(2026, 3, 4, 19, 0, 0),
		Origin:    attendance.OriginTotem,
		Class:     "Treino",
	}}))
	cfg := settings.Default()
	cfg.AcademyName = "Academia do Círculo"
	require.NoError(t, s.SaveSettings(cfg))
}

func TestCodec_ExportProducesDecodableToken(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)

	token, info, err := New(s, nil).Export()
	require.NoError(t, err)

	assert.Equal(t, len(token), info.Bytes)
	assert.True(t, info.FitsQR)

	data, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, FormatVersion, snap.Version)
	assert.NotZero(t, snap.Timestamp)
	require.Len(t, snap.Students, 1)
	assert.Equal(t, "João Hiroshi Tanaka", snap.Students[0].Name)
}

func TestCodec_RoundTrip(t *testing.T) {
	source := openTestStore(t)
	seedStore(t, source)

	token, _, err := New(source, nil).Export()
	require.NoError(t, err)

	target := openTestStore(t)
	require.NoError(t, New(target, nil).Import(token))

	students := target.Students()
	require.Len(t, students, 1)
	assert.Equal(t, "João Hiroshi Tanaka", students[0].Name)
	assert.Equal(t, roster.Belt("ROXA"), students[0].Belt)
	assert.Equal(t, 2, students[0].Stripes)

	fees := target.Fees()
	require.Len(t, fees, 1)
	assert.Equal(t, billing.StatusOverdue, fees[0].Status)
	assert.Equal(t, int64(10000), fees[0].Amount)
	assert.True(t, timeutil.SameDay(timeutil.Date(2026, 3, 5), fees[0].DueDate))

	records := target.Attendance()
	require.Len(t, records, 1)
	assert.Equal(t, attendance.OriginTotem, records[0].Origin)

	assert.Equal(t, "Academia do Círculo", target.Settings().AcademyName)
}

func TestCodec_ImportOverwritesExistingData(t *testing.T) {
	source := openTestStore(t)
	seedStore(t, source)
	token, _, err := New(source, nil).Export()
	require.NoError(t, err)

	target := openTestStore(t)
	require.NoError(t, target.SaveStudents([]roster.Student{
		{ID: "x1", Name: "Local Only"},
		{ID: "x2", Name: "Also Local"},
	}))

	require.NoError(t, New(target, nil).Import(token))

	students := target.Students()
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
}

func TestCodec_ImportEmptyToken(t *testing.T) {
	s := openTestStore(t)
	c := New(s, nil)

	assert.ErrorIs(t, c.Import(""), ErrEmptyToken)
	assert.ErrorIs(t, c.Import("   \n\t "), ErrEmptyToken)
}

func TestCodec_ImportBadTokenLeavesStoreUntouched(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)
	c := New(s, nil)

	// Not base64 at all.
	err := c.Import("!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrBadToken)

	// Valid base64, not JSON.
	err = c.Import(base64.StdEncoding.EncodeToString([]byte("hello there")))
	assert.ErrorIs(t, err, ErrBadToken)

	// Truncated token.
	token, _, err := c.Export()
	require.NoError(t, err)
	err = c.Import(token[:len(token)/2])
	assert.ErrorIs(t, err, ErrBadToken)

	// Local state survived every failed attempt.
	require.Len(t, s.Students(), 1)
	assert.Equal(t, "João Hiroshi Tanaka", s.Students()[0].Name)
	assert.Len(t, s.Fees(), 1)
	assert.Len(t, s.Attendance(), 1)
}

func TestCodec_ImportPartialSnapshot(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s)

	// A snapshot carrying only students: other collections stay as they are.
	payload, err := json.Marshal(map[string]any{
		"students": []roster.Student{{ID: "s9", Name: "Rafael", Status: roster.StatusActive, Belt: "BRANCA"}},
		"version":  FormatVersion,
	})
	require.NoError(t, err)

	require.NoError(t, New(s, nil).Import(base64.StdEncoding.EncodeToString(payload)))

	students := s.Students()
	require.Len(t, students, 1)
	assert.Equal(t, "s9", students[0].ID)

	assert.Len(t, s.Fees(), 1)
	assert.Len(t, s.Attendance(), 1)
	assert.Equal(t, "Academia do Círculo", s.Settings().AcademyName)
}

func TestCodec_ImportToleratesUnknownVersion(t *testing.T) {
	s := openTestStore(t)

	payload, err := json.Marshal(map[string]any{
		"students": []roster.Student{{ID: "s1", Name: "Ana"}},
		"version":  99,
	})
	require.NoError(t, err)

	require.NoError(t, New(s, nil).Import(base64.StdEncoding.EncodeToString(payload)))
	assert.Len(t, s.Students(), 1)
}

func TestCodec_ImportFillsMissingBeltSequence(t *testing.T) {
	s := openTestStore(t)

	// Settings shaped like an older device: no belt sequence field.
	payload, err := json.Marshal(map[string]any{
		"settings": map[string]any{
			"academyName":             "Velha Academia",
			"plans":                   []billing.Plan{},
			"schedules":               []settings.Schedule{},
			"allowCheckinWithOverdue": false,
		},
		"version": FormatVersion,
	})
	require.NoError(t, err)

	require.NoError(t, New(s, nil).Import(base64.StdEncoding.EncodeToString(payload)))

	cfg := s.Settings()
	assert.Equal(t, "Velha Academia", cfg.AcademyName)
	assert.Equal(t, settings.DefaultBelts, cfg.Belts)
}

func TestMeasure(t *testing.T) {
	small := Measure("abc")
	assert.Equal(t, 3, small.Bytes)
	assert.True(t, small.FitsQR)

	big := Measure(string(make([]byte, QRMaxBytes+1)))
	assert.False(t, big.FitsQR)
}
