package mirror

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thereayou/gallery-lite/internal/models"
)

// ImageStore mirrors image metadata. models.Image serializes all of its
// fields, so the snapshot uses the model directly.
type ImageStore struct {
	mu     sync.Mutex
	path   string
	images map[uint]models.Image
	nextID uint
	log    zerolog.Logger
}

func NewImageStore(path string, log zerolog.Logger) (*ImageStore, error) {
	s := &ImageStore{
		path:   path,
		images: make(map[uint]models.Image),
		nextID: 1,
		log:    log,
	}

	records, err := loadSnapshot[models.Image](path)
	if err != nil {
		return s, err
	}
	for _, r := range records {
		s.images[r.ID] = r
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	return s, nil
}

func (s *ImageStore) Create(image *models.Image) *models.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rec := *image
	rec.ID = s.nextID
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.nextID++
	s.images[rec.ID] = rec
	s.persistLocked()

	return &rec
}

func (s *ImageStore) ByOwner(userID uint) []models.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	var images []models.Image
	for _, r := range s.images {
		if r.UserID == userID {
			images = append(images, r)
		}
	}
	sortNewestFirst(images)
	return images
}

func (s *ImageStore) All() []models.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := make([]models.Image, 0, len(s.images))
	for _, r := range s.images {
		images = append(images, r)
	}
	sortNewestFirst(images)
	return images
}

func (s *ImageStore) ByID(id uint) (*models.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.images[id]
	if !ok {
		return nil, false
	}
	return &r, true
}

// Delete removes the record only when it is owned by userID and reports
// whether anything was removed. The snapshot is rewritten on success.
func (s *ImageStore) Delete(userID, id uint) (*models.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.images[id]
	if !ok || r.UserID != userID {
		return nil, false
	}
	delete(s.images, id)
	s.persistLocked()
	return &r, true
}

func (s *ImageStore) persistLocked() {
	records := make([]models.Image, 0, len(s.images))
	for _, r := range s.images {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	if err := writeSnapshot(s.path, records); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("failed to write image snapshot")
	}
}

// sortNewestFirst orders by creation time descending, falling back to id so
// records created within the same instant keep a stable order.
func sortNewestFirst(images []models.Image) {
	sort.Slice(images, func(i, j int) bool {
		if images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].ID > images[j].ID
		}
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
}
