package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	rolectl "github.com/userservice/userservice/internal/db/controller/role"
	userctl "github.com/userservice/userservice/internal/db/controller/user"
	"github.com/userservice/userservice/internal/db/models"
)

// RegistrationState is a step of the registration state machine.
type RegistrationState uint8

const (
	StateUnvalidated RegistrationState = iota
	StateValidated
	StatePersisted
	StateRoleAssigned
	StateComplete
	StateRejected
)

func (s RegistrationState) String() string {
	switch s {
	case StateUnvalidated:
		return "unvalidated"
	case StateValidated:
		return "validated"
	case StatePersisted:
		return "persisted"
	case StateRoleAssigned:
		return "role_assigned"
	case StateComplete:
		return "complete"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// MsgRegistered is the message of a successful registration.
const MsgRegistered = "User registered successfully!"

// RegisterRequest is the self-service sign up input.
type RegisterRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=50"`
	Password  string `json:"password"  validate:"required,min=6,max=100"`
	Email     string `json:"email"     validate:"required,email,max=100"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
	Name      string `json:"name"      validate:"required,max=50"`
	NID       string `json:"nid"       validate:"required,max=50"`
	Phone     string `json:"phone"     validate:"required,max=15"`
}

// CreateUserRequest is the administrative creation input. It carries the same fields and rules.
type CreateUserRequest RegisterRequest

// RegistrationResult is the outcome shown to the caller. There are no partial states:
// Success is true only in StateComplete.
type RegistrationResult struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	State   RegistrationState `json:"-"`
	User    *UserView         `json:"-"`
}

// Register validates the request, rejects a taken username or email (username first)
// and stores the user together with the default role in one transaction.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*RegistrationResult, error) {
	result := &RegistrationResult{State: StateUnvalidated}

	user, err := s.createWithDefaultRole(ctx, req, result)
	if err != nil {
		result.State = StateRejected
		result.Message = err.Error()

		observeRegistration(StateRejected.String())
		log.Info().Err(err).Str("username", req.Username).Msg("registration rejected")

		return result, err
	}

	result.State = StateComplete
	result.Success = true
	result.Message = MsgRegistered
	result.User = user

	observeRegistration(StateComplete.String())

	return result, nil
}

// CreateUser is the administrative counterpart of Register.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*UserView, error) {
	return s.createWithDefaultRole(ctx, RegisterRequest(req), &RegistrationResult{})
}

func (s *Service) createWithDefaultRole(
	ctx context.Context, req RegisterRequest, result *RegistrationResult,
) (*UserView, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	result.State = StateValidated

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Name:      req.Name,
		NID:       req.NID,
		Phone:     req.Phone,
		Status:    models.UserStatusActive,
		Enabled:   true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkDuplicates(tx, req.Username, req.Email); err != nil {
			return err
		}

		// the savepoint keeps tx usable when the insert hits a unique constraint
		err := tx.Transaction(func(sp *gorm.DB) error {
			return userctl.Save(sp, user)
		})
		if err != nil {
			// lost a race against a concurrent registration
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if dupErr := checkDuplicates(tx, req.Username, req.Email); dupErr != nil {
					return dupErr
				}
			}

			return fmt.Errorf("failed to save user: %w", err)
		}

		result.State = StatePersisted

		role, err := rolectl.FindByName(tx, string(DefaultRole))
		if err != nil {
			return fmt.Errorf("default role %s: %w", DefaultRole, err)
		}

		if err := userctl.AddRole(tx, user.ID, role.ID); err != nil {
			return fmt.Errorf("failed to assign default role: %w", err)
		}

		result.State = StateRoleAssigned

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, user.ID)
}

func checkDuplicates(tx *gorm.DB, username, email string) error {
	taken, err := userctl.ExistsByUsername(tx, username)
	if err != nil {
		return err
	}

	if taken {
		return ErrDuplicateUsername
	}

	inUse, err := userctl.ExistsByEmail(tx, email)
	if err != nil {
		return err
	}

	if inUse {
		return ErrDuplicateEmail
	}

	return nil
}

// IsRejection reports whether err is a registration rejection the caller should see verbatim.
func IsRejection(err error) bool {
	return errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrValidation)
}
