package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-rest-service/internal/domain/user"
	apperrors "user-rest-service/pkg/errors"
)

// userNotFoundMessage is the exact message the API reports for missing ids.
const userNotFoundMessage = "User not found"

// Repository defines the interface for user data access operations.
// Lookups return (nil, nil) for a well-formed but absent id; an error means
// the store itself failed.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)              // Insert a single user
	CreateBatch(ctx context.Context, us []domain.User) ([]domain.User, error)      // Insert several users in one transaction
	GetByID(ctx context.Context, id string) (*domain.User, error)                  // Retrieve user by id
	GetByName(ctx context.Context, name string) (*domain.User, error)              // Retrieve user by exact name
	GetByEmail(ctx context.Context, email string) (*domain.User, error)            // Retrieve user by exact email
	Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error) // Apply given fields, return post-update record
	Delete(ctx context.Context, id string) error                                   // Remove user by id
	List(ctx context.Context, filter string) ([]domain.User, error)                // List users, optionally filtered by name substring
}

// service implements the business logic between the HTTP handlers and the
// persistence gateway: validation ordering, uniqueness enforcement, and the
// look-up-then-act pattern for id-based operations.
type service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new user Usecase backed by the provided repository.
func New(r Repository, log *zap.Logger) Usecase {
	return &service{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a
// ValidationError naming every violated field.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var fields []string
		var messages []string
		for _, e := range validationErrors {
			field := strings.ToLower(e.Field())
			fields = append(fields, field)
			messages = append(messages, fmt.Sprintf("%s is required", field))
		}
		return apperrors.NewValidationError(
			fmt.Sprintf("validation failed: %s", strings.Join(messages, ", ")),
			fields...,
		)
	}
	return err
}

// checkUnique verifies that no other stored user holds the given name or
// email. The excludeID carve-out lets updates keep their own values.
func (s *service) checkUnique(ctx context.Context, name, email, excludeID string) error {
	if name != "" {
		existing, err := s.repo.GetByName(ctx, name)
		if err != nil {
			s.log.Error("failed to check name uniqueness", zap.String("name", name), zap.Error(err))
			return apperrors.NewInternalError("failed to validate name uniqueness", err)
		}
		if existing != nil && existing.ID != excludeID {
			s.log.Warn("name already exists", zap.String("name", name))
			return apperrors.NewValidationError("name already exists", "name")
		}
	}

	if email != "" {
		existing, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			s.log.Error("failed to check email uniqueness", zap.String("email", email), zap.Error(err))
			return apperrors.NewInternalError("failed to validate email uniqueness", err)
		}
		if existing != nil && existing.ID != excludeID {
			s.log.Warn("email already exists", zap.String("email", email))
			return apperrors.NewValidationError("email already exists", "email")
		}
	}

	return nil
}

// translateStoreError maps unique-index violations that slipped past the
// pre-checks (concurrent writers) onto the same validation fault.
func translateStoreError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewValidationError("name or email already exists", "name", "email")
	}
	return err
}

// CreateUsers creates one or more users. Every record is validated before
// any write: required fields first, then uniqueness against the store and
// within the batch itself. The batch is all-or-nothing.
func (s *service) CreateUsers(ctx context.Context, in []CreateUserRequest) ([]User, error) {
	s.log.Info("creating users", zap.Int("count", len(in)))

	seenNames := make(map[string]struct{}, len(in))
	seenEmails := make(map[string]struct{}, len(in))

	for _, req := range in {
		if err := s.validate.Struct(req); err != nil {
			s.log.Warn("validate failed", zap.Error(err))
			return nil, formatValidationError(err)
		}

		if err := s.checkUnique(ctx, req.Name, req.Email, ""); err != nil {
			return nil, err
		}

		if _, dup := seenNames[req.Name]; dup {
			return nil, apperrors.NewValidationError("name already exists", "name")
		}
		if _, dup := seenEmails[req.Email]; dup {
			return nil, apperrors.NewValidationError("email already exists", "email")
		}
		seenNames[req.Name] = struct{}{}
		seenEmails[req.Email] = struct{}{}
	}

	records := make([]domain.User, len(in))
	for i, req := range in {
		records[i] = domain.User{
			Name:    req.Name,
			Email:   req.Email,
			Address: req.Address,
		}
	}

	var created []domain.User
	var err error
	if len(records) == 1 {
		var one *domain.User
		one, err = s.repo.Create(ctx, &records[0])
		if one != nil {
			created = []domain.User{*one}
		}
	} else {
		created, err = s.repo.CreateBatch(ctx, records)
	}
	if err != nil {
		s.log.Error("failed to create users", zap.Error(err))
		return nil, translateStoreError(err)
	}

	out := make([]User, len(created))
	for i, u := range created {
		out[i] = toDTO(&u)
	}
	return out, nil
}

// GetUser retrieves a user by id. A missing id is a NotFoundError.
func (s *service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	if u == nil {
		s.log.Warn("user not found", zap.String("id", in.ID))
		return nil, apperrors.NewNotFoundError("user", userNotFoundMessage)
	}

	dto := toDTO(u)
	return &dto, nil
}

// ListUsers returns every stored user.
func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	return s.SearchUsers(ctx, SearchUsersRequest{})
}

// SearchUsers returns users whose name contains the filter as a
// case-insensitive substring. An empty filter returns every user.
func (s *service) SearchUsers(ctx context.Context, in SearchUsersRequest) ([]User, error) {
	s.log.Info("listing users", zap.String("filter", in.Filter))

	users, err := s.repo.List(ctx, in.Filter)
	if err != nil {
		s.log.Error("failed to list users", zap.String("filter", in.Filter), zap.Error(err))
		return nil, err
	}

	out := make([]User, len(users))
	for i, u := range users {
		out[i] = toDTO(&u)
	}
	return out, nil
}

// UpdateUser looks the user up first so a missing id is a uniform 404
// regardless of what the store reports for a no-op update. Only the fields
// present in the request are applied.
func (s *service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	s.log.Info("updating user", zap.String("id", in.ID))

	existing, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Error("failed to get user for update", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	if existing == nil {
		s.log.Warn("user not found for update", zap.String("id", in.ID))
		return nil, apperrors.NewNotFoundError("user", userNotFoundMessage)
	}

	fields := make(map[string]any)
	var name, email string
	if in.Name != nil && *in.Name != existing.Name {
		fields["name"] = *in.Name
		name = *in.Name
	}
	if in.Email != nil && *in.Email != existing.Email {
		fields["email"] = *in.Email
		email = *in.Email
	}
	if in.Address != nil && *in.Address != existing.Address {
		fields["address"] = *in.Address
	}

	if len(fields) == 0 {
		dto := toDTO(existing)
		return &dto, nil
	}

	if err := s.checkUnique(ctx, name, email, in.ID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, in.ID, fields)
	if err != nil {
		s.log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, translateStoreError(err)
	}
	if updated == nil {
		// Deleted between lookup and update; report the same uniform 404.
		return nil, apperrors.NewNotFoundError("user", userNotFoundMessage)
	}

	dto := toDTO(updated)
	return &dto, nil
}

// DeleteUser looks the user up first and responds with the removed record.
// Repeating a delete on an already-deleted id is consistently a 404.
func (s *service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*User, error) {
	s.log.Info("deleting user", zap.String("id", in.ID))

	existing, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Error("failed to get user for delete", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	if existing == nil {
		s.log.Warn("user not found for delete", zap.String("id", in.ID))
		return nil, apperrors.NewNotFoundError("user", userNotFoundMessage)
	}

	if err := s.repo.Delete(ctx, in.ID); err != nil {
		s.log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	dto := toDTO(existing)
	return &dto, nil
}

func toDTO(u *domain.User) User {
	return User{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
	}
}
