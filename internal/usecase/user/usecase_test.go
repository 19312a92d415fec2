package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	domain "user-rest-service/internal/domain/user"
	apperrors "user-rest-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) CreateBatch(ctx context.Context, us []domain.User) ([]domain.User, error) {
	args := m.Called(ctx, us)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter string) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func setupTestUsecase(t *testing.T) (Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	uc := New(mockRepo, logger)
	return uc, mockRepo
}

// ==================== CREATE TESTS ====================

func TestCreateUsers_Success_Single(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	in := []CreateUserRequest{{
		Name:    "John Doe",
		Email:   "john@example.com",
		Address: "1 Main St",
	}}

	mockRepo.On("GetByName", ctx, "John Doe").Return(nil, nil)
	mockRepo.On("GetByEmail", ctx, "john@example.com").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "John Doe" && u.Email == "john@example.com" && u.Address == "1 Main St"
	})).Return(&domain.User{ID: "id-1", Name: "John Doe", Email: "john@example.com", Address: "1 Main St"}, nil)

	created, err := uc.CreateUsers(ctx, in)

	assert.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, "id-1", created[0].ID)
	assert.Equal(t, "John Doe", created[0].Name)

	mockRepo.AssertExpectations(t)
}

func TestCreateUsers_Success_Batch(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	in := []CreateUserRequest{
		{Name: "John Paul", Email: "jp@example.com"},
		{Name: "John Smith", Email: "js@example.com"},
	}

	mockRepo.On("GetByName", ctx, mock.Anything).Return(nil, nil)
	mockRepo.On("GetByEmail", ctx, mock.Anything).Return(nil, nil)
	mockRepo.On("CreateBatch", ctx, mock.MatchedBy(func(us []domain.User) bool {
		return len(us) == 2
	})).Return([]domain.User{
		{ID: "id-1", Name: "John Paul", Email: "jp@example.com"},
		{ID: "id-2", Name: "John Smith", Email: "js@example.com"},
	}, nil)

	created, err := uc.CreateUsers(ctx, in)

	assert.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, "John Paul", created[0].Name)
	assert.Equal(t, "John Smith", created[1].Name)

	mockRepo.AssertExpectations(t)
}

func TestCreateUsers_ValidationError_NameRequired(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	in := []CreateUserRequest{{Email: "john@example.com"}}

	created, err := uc.CreateUsers(ctx, in)

	assert.Error(t, err)
	assert.Nil(t, created)
	assert.Contains(t, err.Error(), "name is required")

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "name")

	// No write may happen when validation fails
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestCreateUsers_ValidationError_EmailRequired(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	in := []CreateUserRequest{{Name: "John Doe"}}

	created, err := uc.CreateUsers(ctx, in)

	assert.Error(t, err)
	assert.Nil(t, created)
	assert.Contains(t, err.Error(), "email is required")
}

func TestCreateUsers_DuplicateName(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	in := []CreateUserRequest{{Name: "John Doe", Email: "new@example.com"}}

	mockRepo.On("GetByName", ctx, "John Doe").
		Return(&domain.User{ID: "id-9", Name: "John Doe", Email: "old@example.com"}, nil)

	created, err := uc.CreateUsers(ctx, in)

	assert.Error(t, err)
	assert.Nil(t, created)
	assert.Contains(t, err.Error(), "name already exists")

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateUsers_DuplicateEmail(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	in := []CreateUserRequest{{Name: "New Name", Email: "john@example.com"}}

	mockRepo.On("GetByName", ctx, "New Name").Return(nil, nil)
	mockRepo.On("GetByEmail", ctx, "john@example.com").
		Return(&domain.User{ID: "id-9", Name: "John Doe", Email: "john@example.com"}, nil)

	created, err := uc.CreateUsers(ctx, in)

	assert.Error(t, err)
	assert.Nil(t, created)
	assert.Contains(t, err.Error(), "email already exists")
}

func TestCreateUsers_DuplicateWithinBatch(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	in := []CreateUserRequest{
		{Name: "John Doe", Email: "a@example.com"},
		{Name: "John Doe", Email: "b@example.com"},
	}

	mockRepo.On("GetByName", ctx, "John Doe").Return(nil, nil)
	mockRepo.On("GetByEmail", ctx, mock.Anything).Return(nil, nil)

	created, err := uc.CreateUsers(ctx, in)

	assert.Error(t, err)
	assert.Nil(t, created)
	assert.Contains(t, err.Error(), "name already exists")

	mockRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestCreateUsers_ConcurrentDuplicateSurfacesAsValidation(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	in := []CreateUserRequest{{Name: "John Doe", Email: "john@example.com"}}

	// Pre-checks see no conflict; a concurrent writer wins the race and the
	// store reports the unique-index violation instead.
	mockRepo.On("GetByName", ctx, "John Doe").Return(nil, nil)
	mockRepo.On("GetByEmail", ctx, "john@example.com").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.Anything).
		Return(nil, fmt.Errorf("failed to create user: %w", gorm.ErrDuplicatedKey))

	created, err := uc.CreateUsers(ctx, in)

	assert.Error(t, err)
	assert.Nil(t, created)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name or email already exists", validationErr.Error())

	mockRepo.AssertExpectations(t)
}

// ==================== GET TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "id-1").
		Return(&domain.User{ID: "id-1", Name: "John Doe", Email: "john@example.com"}, nil)

	u, err := uc.GetUser(ctx, GetUserRequest{ID: "id-1"})

	assert.NoError(t, err)
	assert.NotNil(t, u)
	assert.Equal(t, "John Doe", u.Name)
}

func TestGetUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	u, err := uc.GetUser(ctx, GetUserRequest{ID: "missing"})

	assert.Error(t, err)
	assert.Nil(t, u)
	assert.EqualError(t, err, "User not found")

	var notFoundErr *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

// ==================== UPDATE TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: "id-1", Name: "John Doe", Email: "john@example.com"}
	newName := "John Updated"

	mockRepo.On("GetByID", ctx, "id-1").Return(existing, nil)
	mockRepo.On("GetByName", ctx, "John Updated").Return(nil, nil)
	mockRepo.On("Update", ctx, "id-1", map[string]any{"name": "John Updated"}).
		Return(&domain.User{ID: "id-1", Name: "John Updated", Email: "john@example.com"}, nil)

	u, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "id-1", Name: &newName})

	assert.NoError(t, err)
	assert.NotNil(t, u)
	assert.Equal(t, "John Updated", u.Name)
	assert.Equal(t, "john@example.com", u.Email)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	newName := "whatever"
	mockRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	u, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "missing", Name: &newName})

	assert.Error(t, err)
	assert.Nil(t, u)
	assert.EqualError(t, err, "User not found")

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUser_NoFields(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: "id-1", Name: "John Doe", Email: "john@example.com"}
	mockRepo.On("GetByID", ctx, "id-1").Return(existing, nil)

	u, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "id-1"})

	assert.NoError(t, err)
	assert.Equal(t, "John Doe", u.Name)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: "id-1", Name: "John Doe", Email: "john@example.com"}
	newEmail := "taken@example.com"

	mockRepo.On("GetByID", ctx, "id-1").Return(existing, nil)
	mockRepo.On("GetByEmail", ctx, "taken@example.com").
		Return(&domain.User{ID: "id-2", Name: "Other", Email: "taken@example.com"}, nil)

	u, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: "id-1", Email: &newEmail})

	assert.Error(t, err)
	assert.Nil(t, u)
	assert.Contains(t, err.Error(), "email already exists")
}

// ==================== DELETE TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.User{ID: "id-1", Name: "John Doe", Email: "john@example.com"}
	mockRepo.On("GetByID", ctx, "id-1").Return(existing, nil)
	mockRepo.On("Delete", ctx, "id-1").Return(nil)

	u, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "id-1"})

	assert.NoError(t, err)
	assert.NotNil(t, u)
	assert.Equal(t, "John Doe", u.Name)

	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	u, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: "missing"})

	assert.Error(t, err)
	assert.Nil(t, u)
	assert.EqualError(t, err, "User not found")

	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// ==================== LIST / SEARCH TESTS ====================

func TestListUsers_ReturnsAll(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx, "").Return([]domain.User{
		{ID: "id-1", Name: "John Paul"},
		{ID: "id-2", Name: "Anna Lauren"},
	}, nil)

	users, err := uc.ListUsers(ctx)

	assert.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestListUsers_Empty(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx, "").Return([]domain.User{}, nil)

	users, err := uc.ListUsers(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestSearchUsers_PassesFilter(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx, "john").Return([]domain.User{
		{ID: "id-1", Name: "John Paul"},
	}, nil)

	users, err := uc.SearchUsers(ctx, SearchUsersRequest{Filter: "john"})

	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "John Paul", users[0].Name)
}
