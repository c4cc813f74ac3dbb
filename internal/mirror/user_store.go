// Package mirror implements the file-backed fallback stores used when the
// primary database is unreachable. Each store owns an in-memory collection
// mirrored to a JSON snapshot on disk: the snapshot is read once at startup
// and rewritten in full after every mutation. The mirror is not a cache — it
// grows independently of the primary store and keeps its own id sequence.
package mirror

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thereayou/gallery-lite/internal/models"
)

// userRecord is the snapshot shape. It carries the password hash explicitly:
// models.User strips it from JSON, but the snapshot must round-trip full
// records so logins keep working across restarts.
type userRecord struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r userRecord) toModel() *models.User {
	return &models.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type UserStore struct {
	mu     sync.Mutex
	path   string
	users  map[uint]userRecord
	nextID uint
	log    zerolog.Logger
}

// NewUserStore seeds the store from the snapshot at path if one exists. The
// next id picks up one past the highest seeded id. A missing snapshot is a
// clean start; an unreadable one is reported but still yields a usable empty
// store.
func NewUserStore(path string, log zerolog.Logger) (*UserStore, error) {
	s := &UserStore{
		path:   path,
		users:  make(map[uint]userRecord),
		nextID: 1,
		log:    log,
	}

	records, err := loadSnapshot[userRecord](path)
	if err != nil {
		return s, err
	}
	for _, r := range records {
		s.users[r.ID] = r
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	return s, nil
}

// Create assigns the next id and timestamps, stores the record, and rewrites
// the snapshot. A failed snapshot write is logged only: the in-memory record
// stands either way.
func (s *UserStore) Create(user *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rec := userRecord{
		ID:        s.nextID,
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.users[rec.ID] = rec
	s.persistLocked()

	return rec.toModel()
}

func (s *UserStore) FindByEmail(email string) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.users {
		if r.Email == email {
			return r.toModel(), true
		}
	}
	return nil, false
}

func (s *UserStore) FindByUsername(username string) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.users {
		if r.Username == username {
			return r.toModel(), true
		}
	}
	return nil, false
}

func (s *UserStore) FindByID(id uint) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.users[id]
	if !ok {
		return nil, false
	}
	return r.toModel(), true
}

// Username resolves an owner name for image annotations. Unknown owners come
// back as "unknown", matching the public listing behavior.
func (s *UserStore) Username(id uint) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.users[id]; ok {
		return r.Username
	}
	return "unknown"
}

func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *UserStore) persistLocked() {
	records := make([]userRecord, 0, len(s.users))
	for _, r := range s.users {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	if err := writeSnapshot(s.path, records); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("failed to write user snapshot")
	}
}

func loadSnapshot[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func writeSnapshot[T any](path string, records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
