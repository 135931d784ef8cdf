package service

import (
	"context"
	"strings"

	"helpme/internal/models"
	"helpme/internal/repository"

	"github.com/rs/zerolog"
)

// UserService keeps the member directory. Credentials are stored as entered;
// the deployment sits behind the API gateway and the directory doubles as a
// community phone book.
type UserService struct {
	users  *repository.Collection[models.User]
	admins []string
	logger *zerolog.Logger
}

func NewUserService(users *repository.Collection[models.User], admins []string, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, admins: admins, logger: logger}
}

// Register adds a member. Usernames are unique; configured admin usernames
// get the admin role on registration.
func (s *UserService) Register(ctx context.Context, username, password, phone string) (models.User, error) {
	username = strings.TrimSpace(username)
	if _, ok := s.users.FindByID(username); ok {
		return models.User{}, ErrUsernameTaken
	}

	role := models.RoleUser
	for _, admin := range s.admins {
		if strings.EqualFold(admin, username) {
			role = models.RoleAdmin
			break
		}
	}

	user := models.User{
		Username: username,
		Password: password,
		Role:     role,
		Phone:    phone,
	}
	if err := s.users.Add(ctx, user); err != nil {
		return models.User{}, err
	}
	s.logger.Info().Str("username", username).Str("role", role).Msg("user registered")
	return user, nil
}

// Authenticate checks a username/password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, ok := s.users.FindByID(strings.TrimSpace(username))
	if !ok || user.Password != password {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Get looks a member up by username.
func (s *UserService) Get(username string) (models.User, error) {
	user, ok := s.users.FindByID(username)
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

// All returns the directory.
func (s *UserService) All() []models.User {
	return s.users.All()
}
