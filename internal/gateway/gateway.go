// Package gateway routes every persistence operation through the primary
// database first and, on any primary failure, replays it against the
// file-backed mirror. Callers receive a tagged Outcome instead of having to
// thread the two paths themselves.
package gateway

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/thereayou/gallery-lite/internal/database"
	"github.com/thereayou/gallery-lite/internal/mirror"
)

// Notice is attached to every response served from the mirror.
const Notice = "using local snapshot storage; database unavailable"

// Outcome tags a result with the store that produced it. Degraded results
// carry the notice for the response body.
type Outcome[T any] struct {
	Value    T
	Degraded bool
	Notice   string
}

func fromPrimary[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

func fromMirror[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Degraded: true, Notice: Notice}
}

func degraded[T any]() Outcome[T] {
	return Outcome[T]{Degraded: true, Notice: Notice}
}

type Gateway struct {
	db     *database.Database
	users  *mirror.UserStore
	images *mirror.ImageStore
	log    zerolog.Logger
}

func New(db *database.Database, users *mirror.UserStore, images *mirror.ImageStore, log zerolog.Logger) *Gateway {
	return &Gateway{db: db, users: users, images: images, log: log}
}

// primaryFailed distinguishes infrastructure failures from the primary store
// answering "no such record". Only the former routes to the mirror: a clean
// not-found is a real answer and must not be retried against divergent data.
func (g *Gateway) primaryFailed(op string, err error) bool {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	g.log.Warn().Err(err).Str("op", op).Msg("primary store failed, serving from mirror")
	return true
}
