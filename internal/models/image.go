package models

import (
	"time"
)

type Image struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	FilePath    string    `gorm:"not null" json:"file_path"` // opaque generated name, never the client's
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ImageWithOwner annotates an image with the owning username for the public
// listing endpoints.
type ImageWithOwner struct {
	Image
	Username string `json:"username"`
}
