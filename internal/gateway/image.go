package gateway

import (
	"github.com/thereayou/gallery-lite/internal/common"
	"github.com/thereayou/gallery-lite/internal/models"
)

func (g *Gateway) CreateImage(image *models.Image) (Outcome[*models.Image], error) {
	err := g.db.SaveImage(image)
	if err == nil {
		return fromPrimary(image), nil
	}
	if !g.primaryFailed("create image", err) {
		return Outcome[*models.Image]{}, err
	}
	return fromMirror(g.images.Create(image)), nil
}

func (g *Gateway) ImagesByOwner(userID uint) (Outcome[[]models.Image], error) {
	images, err := g.db.ImagesByUser(userID)
	if err == nil {
		return fromPrimary(images), nil
	}
	if !g.primaryFailed("list user images", err) {
		return Outcome[[]models.Image]{}, err
	}
	return fromMirror(g.images.ByOwner(userID)), nil
}

func (g *Gateway) AllImages() (Outcome[[]models.ImageWithOwner], error) {
	images, err := g.db.AllImages()
	if err == nil {
		return fromPrimary(images), nil
	}
	if !g.primaryFailed("list all images", err) {
		return Outcome[[]models.ImageWithOwner]{}, err
	}
	return fromMirror(g.annotateOwners(g.images.All())), nil
}

func (g *Gateway) ImageByID(id uint) (Outcome[*models.ImageWithOwner], error) {
	image, err := g.db.GetImage(id)
	if err == nil {
		return fromPrimary(image), nil
	}
	if !g.primaryFailed("get image", err) {
		return Outcome[*models.ImageWithOwner]{}, common.ErrNotFound
	}
	if image, ok := g.images.ByID(id); ok {
		annotated := &models.ImageWithOwner{Image: *image, Username: g.users.Username(image.UserID)}
		return fromMirror(annotated), nil
	}
	return degraded[*models.ImageWithOwner](), common.ErrNotFound
}

// DeleteImage removes the metadata record and returns it so the caller can
// clean up the binary file afterwards. A record owned by another user reports
// not-found, never forbidden.
func (g *Gateway) DeleteImage(userID, id uint) (Outcome[*models.Image], error) {
	image, err := g.db.DeleteOwnedImage(userID, id)
	if err == nil {
		return fromPrimary(image), nil
	}
	if !g.primaryFailed("delete image", err) {
		return Outcome[*models.Image]{}, common.ErrNotFound
	}
	if image, ok := g.images.Delete(userID, id); ok {
		return fromMirror(image), nil
	}
	return degraded[*models.Image](), common.ErrNotFound
}

// annotateOwners resolves usernames against the user mirror, the fallback
// equivalent of the SQL join on the primary path.
func (g *Gateway) annotateOwners(images []models.Image) []models.ImageWithOwner {
	annotated := make([]models.ImageWithOwner, 0, len(images))
	for _, image := range images {
		annotated = append(annotated, models.ImageWithOwner{
			Image:    image,
			Username: g.users.Username(image.UserID),
		})
	}
	return annotated
}
