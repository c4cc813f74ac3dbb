package database

import (
	"gorm.io/gorm"

	"github.com/thereayou/gallery-lite/internal/common"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Available reports whether a connection was established. A Database with no
// connection is still usable: every method returns common.ErrUnavailable and
// the gateway serves from the mirror instead.
func (d *Database) Available() bool {
	return d != nil && d.db != nil
}

func (d *Database) guard() error {
	if !d.Available() {
		return common.ErrUnavailable
	}
	return nil
}
