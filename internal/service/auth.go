package service

import (
	"context"
	"errors"

	"papertrade/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the store the auth service needs.
// *database.Repo satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type Auth struct {
	users        UserStore
	startingCash decimal.Decimal
	log          *logrus.Logger
}

func NewAuth(users UserStore, startingCash decimal.Decimal, log *logrus.Logger) *Auth {
	return &Auth{users: users, startingCash: startingCash, log: log}
}

// Register creates a user with the configured starting cash balance.
// It does not log the new user in; the caller redirects to the login
// page instead.
func (a *Auth) Register(ctx context.Context, username, password, confirmation string) (models.User, error) {
	if username == "" || password == "" || confirmation == "" {
		return models.User{}, models.ErrMissingField
	}
	if password != confirmation {
		return models.User{}, models.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := a.users.CreateUser(ctx, username, string(hash), a.startingCash)
	if err != nil {
		return models.User{}, err
	}
	a.log.Infof("registered user %s", username)
	return user, nil
}

// Login deliberately reports the same error for an unknown username
// and a wrong password, so the endpoint does not leak which usernames
// exist.
func (a *Auth) Login(ctx context.Context, username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, models.ErrMissingField
	}

	user, err := a.users.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrUserNotFound) {
		return models.User{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, models.ErrInvalidCredentials
	}
	return user, nil
}

// UsernameAvailable backs the registration page's availability check.
func (a *Auth) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	exists, err := a.users.UsernameExists(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
