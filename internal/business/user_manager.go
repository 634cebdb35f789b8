package business

import (
	"errors"
	"fmt"

	"github.com/matthewhartstonge/argon2"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/filmdelegate/internal/model"
)

type UserStorer interface {
	IsOwnerPresent() (bool, error)
	IsUsernameAvailable(username string) (bool, error)

	GetUserFromName(username string) (*model.User, error)
	CreateUser(user *model.User) error

	SetUserPassword(userID int64, newPassword string) error
}

type UserManager struct {
	UserStorer
	argon argon2.Config
}

// NewUserManager creates a new UserManager hashing passwords with the given argon2 configuration
func NewUserManager(us UserStorer, argon argon2.Config) *UserManager {
	return &UserManager{
		UserStorer: us,
		argon:      argon,
	}
}

// CreateOwner creates the first account of the server, which is owner and admin
func (um UserManager) CreateOwner(username, password1, password2 string) (*model.User, error) {
	if ownerPresent, err := um.UserStorer.IsOwnerPresent(); err != nil {
		return nil, fmt.Errorf("could not check for owner: %w", err)
	} else if ownerPresent {
		return nil, model.ErrOwnerAlreadyExists
	}

	user, err := um.CreateUser(username, password1, password2, true, true)
	if err != nil {
		return nil, fmt.Errorf("error adding owner: %w", err)
	}
	log.Info().Str("username", user.Name).Msg("Owner account created")

	return user, nil
}

// CreateUser checks that the user and password follow specific rules and adds it to the database
func (um UserManager) CreateUser(username, password1, password2 string, isAdmin, isOwner bool) (*model.User, error) {
	if err := checkUsername(username); err != nil {
		return nil, err
	}

	// Check if username is not already taken
	if available, err := um.UserStorer.IsUsernameAvailable(username); err != nil {
		return nil, err
	} else if !available {
		return nil, model.ErrUsernameTaken
	}

	if err := checkNewPassword(password1, password2); err != nil {
		return nil, err
	}

	encoded, err := um.argon.HashEncoded([]byte(password1))
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := &model.User{
		Name:     username,
		Password: string(encoded),
		IsOwner:  isOwner,
		IsAdmin:  isAdmin,
	}
	if err := um.UserStorer.CreateUser(user); err != nil {
		return nil, fmt.Errorf("error adding user: %w", err)
	}
	user.Password = ""

	return user, nil
}

// CheckLogin checks that the login is correct and returns the user it corresponds to
func (um UserManager) CheckLogin(username, password string) (*model.User, error) {
	if err := checkUsername(username); err != nil {
		return nil, err
	}

	user, err := um.UserStorer.GetUserFromName(username)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrAuthentication
	} else if err != nil {
		return nil, fmt.Errorf("could not get user '%s': %w", username, err)
	}

	if ok, err := argon2.VerifyEncoded([]byte(password), []byte(user.Password)); err != nil {
		return nil, fmt.Errorf("could not verify password: %w", err)
	} else if !ok {
		return nil, model.ErrAuthentication
	}
	user.Password = ""

	return user, nil
}

// SetUserPassword checks that the password change follows specific rules and updates it in the database
func (um UserManager) SetUserPassword(username, oldPassword, password1, password2 string) error {
	if err := checkNewPassword(password1, password2); err != nil {
		return err
	}

	user, err := um.CheckLogin(username, oldPassword)
	if err != nil {
		return err
	}

	encoded, err := um.argon.HashEncoded([]byte(password1))
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}
	if err := um.UserStorer.SetUserPassword(user.ID, string(encoded)); err != nil {
		return fmt.Errorf("could not save password: %w", err)
	}
	return nil
}

// CanCreateFilms returns the predicate telling if the user may create films: only admins can
func (um UserManager) CanCreateFilms(user *model.User) UserValid {
	return func() bool {
		return user != nil && user.IsAdmin
	}
}

func checkUsername(username string) error {
	if len(username) < 2 || len(username) > 25 {
		return fmt.Errorf("%w: username must be between 2 and 25 characters", model.ErrInvalidUser)
	}
	return nil
}

func checkNewPassword(password1, password2 string) error {
	if password1 != password2 {
		return fmt.Errorf("%w: passwords don't match", model.ErrInvalidUser)
	}
	if len(password1) < 8 {
		return fmt.Errorf("%w: passwords must be at least 8 characters long", model.ErrInvalidUser)
	}
	return nil
}
