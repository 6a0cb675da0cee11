// Package store implements the local-first persistent store: five
// key-addressed collection slots inside a single embedded database file.
// The store owns the canonical copies of all collections; callers get a
// fresh decoded copy on every read and persist changes by writing the whole
// slot back (copy-in, copy-out).
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/attendance"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/session"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/settings"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/logger"
)

// Collection keys. The names predate this implementation and are kept
// stable so a database survives upgrades.
const (
	KeyStudents   = "tree_bjj_students"
	KeyFees       = "tree_bjj_fees"
	KeyAttendance = "tree_bjj_attendance"
	KeySettings   = "tree_bjj_settings"
	KeyUser       = "tree_bjj_user"
)

// bucketName is the single bucket holding all collection slots.
const bucketName = "collections"

// Store is the durable key-addressed store.
// All writes go through one bbolt transaction per operation, so a reader
// before or after any call sees one consistent value per slot, never a
// partial write.
type Store struct {
	db  *bolt.DB
	log *logger.Logger
}

// Open opens (or creates) the database file at path.
func Open(path string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init store bucket: %w", err)
	}

	return &Store{db: db, log: log.With(logger.Component("store"))}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// ─────────────────────────────────────────────────────────────────────────────
// Low-level slot access
// ─────────────────────────────────────────────────────────────────────────────

// raw returns the stored bytes for a slot, or nil when the slot is absent.
func (s *Store) raw(key string) []byte {
	var raw []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get([]byte(key)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	return raw
}

// read decodes the slot at key. It reports false when the slot is absent or
// holds an unparseable value; parse failures are logged and swallowed so
// callers always fall back to their documented default. Decoding happens
// into a fresh value so a slot that is valid JSON of the wrong shape cannot
// leak a partially populated hybrid to the caller.
func read[T any](s *Store, key string) (T, bool) {
	var out T
	raw := s.raw(key)
	if raw == nil {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Warn("corrupt collection value, falling back to default",
			logger.Collection(key), logger.Err(err))
		var zero T
		return zero, false
	}
	return out, true
}

// write replaces the slot at key with the JSON encoding of v.
func (s *Store) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
}

// delete removes the slot at key. An absent slot is a valid state.
func (s *Store) delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Typed collection access
// ─────────────────────────────────────────────────────────────────────────────

// Students returns the roster. Default: empty list.
func (s *Store) Students() []roster.Student {
	if out, ok := read[[]roster.Student](s, KeyStudents); ok && out != nil {
		return out
	}
	return make([]roster.Student, 0)
}

// SaveStudents replaces the roster slot.
func (s *Store) SaveStudents(students []roster.Student) error {
	if students == nil {
		students = make([]roster.Student, 0)
	}
	return s.write(KeyStudents, students)
}

// Fees returns all monthly fees. Default: empty list.
func (s *Store) Fees() []billing.MonthlyFee {
	if out, ok := read[[]billing.MonthlyFee](s, KeyFees); ok && out != nil {
		return out
	}
	return make([]billing.MonthlyFee, 0)
}

// SaveFees replaces the fees slot.
func (s *Store) SaveFees(fees []billing.MonthlyFee) error {
	if fees == nil {
		fees = make([]billing.MonthlyFee, 0)
	}
	return s.write(KeyFees, fees)
}

// Attendance returns all attendance records. Default: empty list.
func (s *Store) Attendance() []attendance.Record {
	if out, ok := read[[]attendance.Record](s, KeyAttendance); ok && out != nil {
		return out
	}
	return make([]attendance.Record, 0)
}

// SaveAttendance replaces the attendance slot.
func (s *Store) SaveAttendance(records []attendance.Record) error {
	if records == nil {
		records = make([]attendance.Record, 0)
	}
	return s.write(KeyAttendance, records)
}

// AppendAttendance appends one record to the attendance slot.
func (s *Store) AppendAttendance(rec attendance.Record) error {
	return s.SaveAttendance(append(s.Attendance(), rec))
}

// Settings returns the academy settings, normalized. Default: the built-in
// default settings.
func (s *Store) Settings() settings.AppSettings {
	if out, ok := read[settings.AppSettings](s, KeySettings); ok {
		out.Normalize()
		return out
	}
	return settings.Default()
}

// SaveSettings replaces the settings slot.
func (s *Store) SaveSettings(cfg settings.AppSettings) error {
	return s.write(KeySettings, cfg)
}

// CurrentUser returns the logged-in operator, if any.
func (s *Store) CurrentUser() (session.User, bool) {
	return read[session.User](s, KeyUser)
}

// SetCurrentUser records the operator session (init-on-login).
func (s *Store) SetCurrentUser(u session.User) error {
	return s.write(KeyUser, u)
}

// ClearCurrentUser ends the operator session (cleared-on-logout).
func (s *Store) ClearCurrentUser() error {
	return s.delete(KeyUser)
}

// ─────────────────────────────────────────────────────────────────────────────
// Multi-slot operations
// ─────────────────────────────────────────────────────────────────────────────

// FindStudent looks a student up by id.
func (s *Store) FindStudent(id string) (*roster.Student, error) {
	for _, st := range s.Students() {
		if st.ID == id {
			found := st
			return &found, nil
		}
	}
	return nil, roster.ErrStudentNotFound
}

// DeleteStudent removes the student and cascades: every monthly fee and
// attendance record referencing the student id goes with it, all in a
// single transaction. There is no undo.
func (s *Store) DeleteStudent(id string) error {
	students := s.Students()
	idx := -1
	for i, st := range students {
		if st.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return roster.ErrStudentNotFound
	}
	students = append(students[:idx], students[idx+1:]...)

	fees := s.Fees()
	keptFees := fees[:0]
	for _, f := range fees {
		if f.StudentID != id {
			keptFees = append(keptFees, f)
		}
	}

	records := s.Attendance()
	keptRecords := records[:0]
	for _, r := range records {
		if r.StudentID != id {
			keptRecords = append(keptRecords, r)
		}
	}

	err := s.ReplaceAll(Overwrite{
		Students:   &students,
		Fees:       &keptFees,
		Attendance: &keptRecords,
	})
	if err != nil {
		return err
	}

	s.log.Info("student deleted with cascade",
		logger.StudentID(id),
		logger.Int("fees_removed", len(fees)-len(keptFees)),
		logger.Int("attendance_removed", len(records)-len(keptRecords)))
	return nil
}

// Overwrite names the slots to replace in one ReplaceAll call. A nil field
// leaves that slot untouched.
type Overwrite struct {
	Students   *[]roster.Student
	Fees       *[]billing.MonthlyFee
	Attendance *[]attendance.Record
	Settings   *settings.AppSettings
}

// ReplaceAll overwrites the named slots in a single transaction: either
// every named slot is replaced or none is. Sync import relies on this for
// its all-or-nothing guarantee.
func (s *Store) ReplaceAll(ow Overwrite) error {
	puts := make(map[string][]byte, 4)

	encode := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		puts[key] = data
		return nil
	}

	if ow.Students != nil {
		if err := encode(KeyStudents, *ow.Students); err != nil {
			return err
		}
	}
	if ow.Fees != nil {
		if err := encode(KeyFees, *ow.Fees); err != nil {
			return err
		}
	}
	if ow.Attendance != nil {
		if err := encode(KeyAttendance, *ow.Attendance); err != nil {
			return err
		}
	}
	if ow.Settings != nil {
		if err := encode(KeySettings, *ow.Settings); err != nil {
			return err
		}
	}
	if len(puts) == 0 {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		for key, data := range puts {
			if err := b.Put([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}
