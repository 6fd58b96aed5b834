package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/gigmarket/gigmarket/internal/infra/identity"
	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)

type StoreUserInput struct {
	Username        string
	FullName        string
	Title           string
	About           string
	ProfileImageURL string
}

type UserService interface {
	Current(ctx context.Context, id *identity.Identity) (*model.User, error)
	Store(ctx context.Context, id *identity.Identity, in StoreUserInput) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type userService struct {
	users    repo.UserRepo
	notifier live.Notifier
	log      *zap.Logger
}

func NewUserService(users repo.UserRepo, notifier live.Notifier, log *zap.Logger) UserService {
	return &userService{users: users, notifier: notifier, log: log}
}

func (s *userService) Current(ctx context.Context, id *identity.Identity) (*model.User, error) {
	if id == nil {
		return nil, newError(ErrUnauthorized, "you must be logged in")
	}
	u, err := s.users.GetByTokenIdentifier(ctx, id.TokenIdentifier())
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	return u, nil
}

// Store creates the profile for the authenticated identity or updates it.
// Empty fields fall back to what the identity provider asserted.
func (s *userService) Store(ctx context.Context, id *identity.Identity, in StoreUserInput) (*model.User, error) {
	if id == nil {
		return nil, newError(ErrUnauthorized, "you must be logged in")
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		in.Username = id.Username
	}
	if !usernameRe.MatchString(in.Username) {
		return nil, validation("username must be 3-30 letters, digits, '.', '_' or '-'")
	}
	if in.FullName == "" {
		in.FullName = id.Name
	}
	if in.ProfileImageURL == "" {
		in.ProfileImageURL = id.PictureURL
	}

	u, err := s.users.GetByTokenIdentifier(ctx, id.TokenIdentifier())
	switch {
	case err == nil:
		err = s.users.Update(ctx, u.ID, map[string]interface{}{
			"username":          in.Username,
			"full_name":         in.FullName,
			"title":             in.Title,
			"about":             in.About,
			"profile_image_url": in.ProfileImageURL,
		})
		if err == nil {
			u, err = s.users.GetByID(ctx, u.ID)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = &model.User{
			TokenIdentifier: id.TokenIdentifier(),
			Username:        in.Username,
			FullName:        in.FullName,
			Title:           in.Title,
			About:           in.About,
			ProfileImageURL: in.ProfileImageURL,
		}
		err = s.users.Create(ctx, u)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("username %q is already taken", in.Username)
		}
		return nil, err
	}
	notify(ctx, s.notifier, s.log, live.TableUsers)
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	return u, nil
}
