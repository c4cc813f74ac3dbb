package database

import (
	"github.com/thereayou/gallery-lite/internal/models"
)

func (d *Database) SaveImage(image *models.Image) error {
	if err := d.guard(); err != nil {
		return err
	}
	return d.db.Create(image).Error
}

func (d *Database) ImagesByUser(userID uint) ([]models.Image, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	var images []models.Image
	err := d.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (d *Database) AllImages() ([]models.ImageWithOwner, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	var images []models.ImageWithOwner
	err := d.db.
		Model(&models.Image{}).
		Select("images.*, users.username").
		Joins("JOIN users ON users.id = images.user_id").
		Order("images.created_at DESC").
		Scan(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (d *Database) GetImage(id uint) (*models.ImageWithOwner, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	var image models.ImageWithOwner
	err := d.db.
		Model(&models.Image{}).
		Select("images.*, users.username").
		Joins("JOIN users ON users.id = images.user_id").
		Where("images.id = ?", id).
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteOwnedImage removes the record only when it belongs to userID. A record
// owned by someone else is indistinguishable from a missing one.
func (d *Database) DeleteOwnedImage(userID, id uint) (*models.Image, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	image := models.Image{}
	if err := d.db.Where("id = ? AND user_id = ?", id, userID).First(&image).Error; err != nil {
		return nil, err
	}
	if err := d.db.Delete(&models.Image{}, "id = ?", image.ID).Error; err != nil {
		return nil, err
	}
	return &image, nil
}
