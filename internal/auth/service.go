package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	userctl "github.com/userservice/userservice/internal/db/controller/user"
	"github.com/userservice/userservice/internal/db/models"
)

// Service provides authentication, registration and user administration.
type Service struct {
	db        *gorm.DB
	hasher    Hasher
	issuer    *Issuer
	validator *validator.Validate

	// fallbackHash is compared against for unknown users so both failure paths cost one hash check.
	fallbackHash string
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, hasher Hasher, issuer *Issuer) (*Service, error) {
	fallback, err := hasher.Hash("fallback-password-for-unknown-users")
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback hash: %w", err)
	}

	return &Service{
		db:           db,
		hasher:       hasher,
		issuer:       issuer,
		validator:    validator.New(),
		fallbackHash: fallback,
	}, nil
}

// UserView is the outward projection of a principal. It never carries the credential hash.
type UserView struct {
	ID          uint64            `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Name        string            `json:"name"`
	NID         string            `json:"nid"`
	Phone       string            `json:"phone"`
	Status      models.UserStatus `json:"status"`
	Enabled     bool              `json:"enabled"`
	Roles       []string          `json:"roles"`
	Permissions []string          `json:"permissions"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewUserView projects the user. Roles must be loaded with their permissions.
func NewUserView(u *models.User) *UserView {
	set := Derive(u)

	return &UserView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Name:        u.Name,
		NID:         u.NID,
		Phone:       u.Phone,
		Status:      u.Status,
		Enabled:     u.Enabled,
		Roles:       set.Roles(),
		Permissions: set.Permissions(),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token       string    `json:"token"`
	Type        string    `json:"type"`
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Login verifies the credentials, derives the authorities from storage and issues a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			observeLogin("invalid_credentials")
		case errors.Is(err, ErrAccountDisabled):
			observeLogin("disabled")
		default:
			observeLogin("error")
		}

		return nil, err
	}

	set := Derive(user)

	token, err := s.issuer.Issue(user, set)
	if err != nil {
		observeLogin("error")
		return nil, err
	}

	observeLogin("success")

	return &LoginResult{
		Token:       token.Value,
		Type:        token.Type,
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Roles:       set.Roles(),
		Permissions: set.Permissions(),
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

// Authenticate checks the password of the named user.
// Unknown users and wrong passwords both yield ErrInvalidCredentials, and a hash
// comparison runs in either case. A disabled account yields ErrAccountDisabled.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := userctl.FindByUsername(s.db.WithContext(ctx), username)
	if err != nil && !errors.Is(err, userctl.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	hash := s.fallbackHash
	if user != nil {
		hash = user.Password
	}

	match, verifyErr := s.hasher.Verify(password, hash)

	switch {
	case user == nil:
		return nil, ErrInvalidCredentials
	case !user.Enabled:
		return nil, ErrAccountDisabled
	case verifyErr != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, verifyErr) //nolint:errorlint // hash details stay internal
	case !match:
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ParseToken verifies a bearer token.
func (s *Service) ParseToken(raw string) (*Principal, error) {
	return s.issuer.Verify(raw)
}

// GetUser returns the projection of the user with the given ID.
func (s *Service) GetUser(ctx context.Context, id uint64) (*UserView, error) {
	user, err := userctl.FindByID(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, mapUserError(err)
	}

	return NewUserView(user), nil
}

// GetUserByUsername returns the projection of the named user.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*UserView, error) {
	user, err := userctl.FindByUsername(s.db.WithContext(ctx), username)
	if err != nil {
		return nil, mapUserError(err)
	}

	return NewUserView(user), nil
}

// ListUsers returns all users ordered by ID.
func (s *Service) ListUsers(ctx context.Context) ([]*UserView, error) {
	users, err := userctl.FindAll(s.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*UserView, 0, len(users))
	for i := range users {
		out = append(out, NewUserView(&users[i]))
	}

	return out, nil
}

// DeleteUser removes the user and its role links. Roles are never deleted.
func (s *Service) DeleteUser(ctx context.Context, id uint64) error {
	return mapUserError(userctl.DeleteByID(s.db.WithContext(ctx), id))
}

// SetEnabled switches the account on or off. The lifecycle status follows as ACTIVE or INACTIVE.
func (s *Service) SetEnabled(ctx context.Context, id uint64, enabled bool) (*UserView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := userctl.LockByID(tx, id)
		if err != nil {
			return err
		}

		user.Enabled = enabled
		user.Status = models.UserStatusInactive

		if enabled {
			user.Status = models.UserStatusActive
		}

		return userctl.Save(tx, user)
	})
	if err != nil {
		return nil, mapUserError(err)
	}

	return s.GetUser(ctx, id)
}

func mapUserError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, userctl.ErrUserNotFound):
		return ErrUserNotFound
	default:
		return fmt.Errorf("storage failure: %w", err)
	}
}
