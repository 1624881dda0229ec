package user

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrEmailExists          = errors.New("a user with this email already exists")
	ErrAuthenticationFailed = errors.New("invalid email or password")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateLastAccess(ctx context.Context, id int, at time.Time) error
		UpdatePassword(ctx context.Context, id int, hash []byte) error
	}

	Service struct {
		repo     Repository
		logger   core.Logger
		validate *validator.Validate
	}
)

func NewService(repo Repository, logger core.Logger, validate *validator.Validate) *Service {
	return &Service{repo: repo, logger: logger, validate: validate}
}

// Register validates and persists a new User with a hashed password.
// The email pre-check gives a friendly field error; the storage layer's
// unique constraint remains the authoritative guard and surfaces as ErrEmailExists.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}

	if _, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if err != ErrNotFound {
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}

	now := time.Now().UTC()
	usr := User{
		Name:       nu.Name,
		Email:      nu.Email,
		Role:       nu.Role,
		CreatedAt:  now,
		LastAccess: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if err == ErrEmailExists { // lost the check-then-insert race
			return User{}, core.NewConflictError(err)
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

// Authenticate verifies the presented credentials. An unknown email and a
// wrong password are indistinguishable to the caller.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}

	// best effort; a failed touch must not block the login
	if err = svc.TouchLastAccess(ctx, usr.ID); err != nil {
		svc.logger.Warn(fmt.Sprintf("touching last access for user %d: %v", usr.ID, err), err)
	}

	usr.PasswordHash = nil // never leaves this layer
	return usr, nil
}

func (svc *Service) TouchLastAccess(ctx context.Context, id int) error {
	return svc.repo.UpdateLastAccess(ctx, id, time.Now().UTC())
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// SetPassword resets a user's password. Used by the admin CLI.
func (svc *Service) SetPassword(ctx context.Context, id int, pwd string) error {
	var usr User
	if err := usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdatePassword(ctx, id, usr.PasswordHash)
}
