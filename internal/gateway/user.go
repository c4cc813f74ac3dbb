package gateway

import (
	"github.com/thereayou/gallery-lite/internal/common"
	"github.com/thereayou/gallery-lite/internal/models"
)

func (g *Gateway) CreateUser(user *models.User) (Outcome[*models.User], error) {
	err := g.db.SaveUser(user)
	if err == nil {
		return fromPrimary(user), nil
	}
	if !g.primaryFailed("create user", err) {
		return Outcome[*models.User]{}, err
	}
	return fromMirror(g.users.Create(user)), nil
}

func (g *Gateway) FindUserByEmail(email string) (Outcome[*models.User], error) {
	user, err := g.db.FindUserByEmail(email)
	if err == nil {
		return fromPrimary(user), nil
	}
	if !g.primaryFailed("find user by email", err) {
		return Outcome[*models.User]{}, common.ErrNotFound
	}
	if user, ok := g.users.FindByEmail(email); ok {
		return fromMirror(user), nil
	}
	return degraded[*models.User](), common.ErrNotFound
}

func (g *Gateway) FindUserByUsername(username string) (Outcome[*models.User], error) {
	user, err := g.db.FindUserByUsername(username)
	if err == nil {
		return fromPrimary(user), nil
	}
	if !g.primaryFailed("find user by username", err) {
		return Outcome[*models.User]{}, common.ErrNotFound
	}
	if user, ok := g.users.FindByUsername(username); ok {
		return fromMirror(user), nil
	}
	return degraded[*models.User](), common.ErrNotFound
}

func (g *Gateway) GetUserByID(id uint) (Outcome[*models.User], error) {
	user, err := g.db.GetUser(id)
	if err == nil {
		return fromPrimary(user), nil
	}
	if !g.primaryFailed("get user", err) {
		return Outcome[*models.User]{}, common.ErrNotFound
	}
	if user, ok := g.users.FindByID(id); ok {
		return fromMirror(user), nil
	}
	return degraded[*models.User](), common.ErrNotFound
}
