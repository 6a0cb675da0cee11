package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/attendance"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/session"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/timeutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "dojo.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_EmptyDefaults(t *testing.T) {
	s := openTestStore(t)

	assert.Empty(t, s.Students())
	assert.Empty(t, s.Fees())
	assert.Empty(t, s.Attendance())

	cfg := s.Settings()
	assert.Equal(t, settings.Default().AcademyName, cfg.AcademyName)
	assert.NotEmpty(t, cfg.Plans)
	assert.NotEmpty(t, cfg.Belts)

	_, ok := s.CurrentUser()
	assert.False(t, ok)
}

func TestStore_WriteThenRead(t *testing.T) {
	s := openTestStore(t)

	students := []roster.Student{{
		ID:     "s1",
		Name:   "Ana Paula",
		Status: roster.StatusActive,
		Belt:   "AZUL",
	}}
	require.NoError(t, s.SaveStudents(students))

	got := s.Students()
	require.Len(t, got, 1)
	assert.Equal(t, students[0].ID, got[0].ID)
	assert.Equal(t, students[0].Name, got[0].Name)
	assert.Equal(t, students[0].Belt, got[0].Belt)

	cfg := settings.Default()
	cfg.AcademyName = "Outro Nome"
	cfg.AllowCheckinWithOverdue = true
	require.NoError(t, s.SaveSettings(cfg))

	read := s.Settings()
	assert.Equal(t, "Outro Nome", read.AcademyName)
	assert.True(t, read.AllowCheckinWithOverdue)
}

func TestStore_AppendAttendance(t *testing.T) {
	s := openTestStore(t)

	rec1, err := attendance.New("a1", "s1", timeutil.Now(), attendance.OriginTotem, attendance.DefaultClass)
	require.NoError(t, err)
	rec2, err := attendance.New("a2", "s1", timeutil.Now(), attendance.OriginManual, attendance.DefaultClass)
	require.NoError(t, err)

	require.NoError(t, s.AppendAttendance(*rec1))
	require.NoError(t, s.AppendAttendance(*rec2))

	got := s.Attendance()
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a2", got[1].ID)
}

func TestStore_FindStudent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveStudents([]roster.Student{
		{ID: "s1", Name: "Ana"},
		{ID: "s2", Name: "Bruno"},
	}))

	st, err := s.FindStudent("s2")
	require.NoError(t, err)
	assert.Equal(t, "Bruno", st.Name)

	_, err = s.FindStudent("missing")
	assert.ErrorIs(t, err, roster.ErrStudentNotFound)
}

func TestStore_DeleteStudent_Cascades(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveStudents([]roster.Student{
		{ID: "s1", Name: "Ana"},
		{ID: "s2", Name: "Bruno"},
	}))
	require.NoError(t, s.SaveFees([]billing.MonthlyFee{
		{ID: "f1", StudentID: "s1", Amount: 10000, Status: billing.StatusPending},
		{ID: "f2", StudentID: "s2", Amount: 10000, Status: billing.StatusOverdue},
		{ID: "f3", StudentID: "s1", Amount: 8000, Status: billing.StatusPaid},
	}))
	require.NoError(t, s.SaveAttendance([]attendance.Record{
		{ID: "a1", StudentID: "s1", DateTime: timeutil.Now(), Origin: attendance.OriginTotem, Class: "Treino"},
		{ID: "a2", StudentID: "s2", DateTime: timeutil.Now(), Origin: attendance.OriginTotem, Class: "Treino"},
	}))

	require.NoError(t, s.DeleteStudent("s1"))

	students := s.Students()
	require.Len(t, students, 1)
	assert.Equal(t, "s2", students[0].ID)

	fees := s.Fees()
	require.Len(t, fees, 1)
	assert.Equal(t, "f2", fees[0].ID)

	records := s.Attendance()
	require.Len(t, records, 1)
	assert.Equal(t, "a2", records[0].ID)
}

func TestStore_DeleteStudent_NotFound(t *testing.T) {
	s := openTestStore(t)
	assert.ErrorIs(t, s.DeleteStudent("missing"), roster.ErrStudentNotFound)
}

func TestStore_CurrentUser(t *testing.T) {
	s := openTestStore(t)

	u := session.User{ID: "u1", Email: "admin@tree.com", Name: "Administrador", Role: session.RoleAdmin}
	require.NoError(t, s.SetCurrentUser(u))

	got, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u.Email, got.Email)

	require.NoError(t, s.ClearCurrentUser())
	_, ok = s.CurrentUser()
	assert.False(t, ok)
}

func putRaw(t *testing.T, s *Store, key, value string) {
	t.Helper()
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), []byte(value))
	})
	require.NoError(t, err)
}

func TestStore_CorruptSlotFallsBack(t *testing.T) {
	s := openTestStore(t)

	// Write garbage straight into the students slot.
	putRaw(t, s, KeyStudents, "{not json")
	assert.Empty(t, s.Students())

	// A normal save repairs the slot.
	require.NoError(t, s.SaveStudents([]roster.Student{{ID: "s1", Name: "Ana"}}))
	assert.Len(t, s.Students(), 1)
}

func TestStore_ShapeCorruptSlotFallsBack(t *testing.T) {
	s := openTestStore(t)

	// Valid JSON, wrong shape: decoding fails midway through the second
	// element. Nothing of the half-decoded list may leak out.
	putRaw(t, s, KeyStudents, `[{"id":"a","name":"Ana"},{"id":5,"name":"Bad"}]`)
	assert.Empty(t, s.Students())

	putRaw(t, s, KeyFees, `[{"id":"f1","amount":"ten thousand"}]`)
	assert.Empty(t, s.Fees())

	putRaw(t, s, KeyAttendance, `{"id":"a1"}`)
	assert.Empty(t, s.Attendance())
}

func TestStore_ShapeCorruptSettingsReturnExactDefault(t *testing.T) {
	s := openTestStore(t)

	// The fields before the bad one decode fine; the whole value must still
	// be discarded, or a corrupt slot could flip the overdue gate.
	putRaw(t, s, KeySettings, `{"allowCheckinWithOverdue":false,"academyName":123}`)
	assert.Equal(t, settings.Default(), s.Settings())

	putRaw(t, s, KeySettings, `{"academyName":123,"allowCheckinWithOverdue":false}`)
	assert.Equal(t, settings.Default(), s.Settings())
}

func TestStore_ShapeCorruptUserSlotMeansNoSession(t *testing.T) {
	s := openTestStore(t)

	putRaw(t, s, KeyUser, `{"id":1,"email":"admin@tree.com"}`)
	u, ok := s.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, session.User{}, u)
}

func TestStore_ReplaceAll_LeavesUnnamedSlots(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveStudents([]roster.Student{{ID: "s1", Name: "Ana"}}))
	require.NoError(t, s.SaveFees([]billing.MonthlyFee{{ID: "f1", StudentID: "s1", Amount: 10000, Status: billing.StatusPending}}))

	newStudents := []roster.Student{{ID: "s9", Name: "Rafael"}}
	require.NoError(t, s.ReplaceAll(Overwrite{Students: &newStudents}))

	students := s.Students()
	require.Len(t, students, 1)
	assert.Equal(t, "s9", students[0].ID)

	// Fees slot was not named, so it is untouched.
	fees := s.Fees()
	require.Len(t, fees, 1)
	assert.Equal(t, "f1", fees[0].ID)
}
