package database

import (
	"github.com/thereayou/gallery-lite/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	if err := d.guard(); err != nil {
		return err
	}
	return d.db.Create(user).Error
}

func (d *Database) GetUser(id uint) (*models.User, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	user := models.User{}
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
