package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	CreateUsers(ctx context.Context, in []CreateUserRequest) ([]User, error)
	GetUser(ctx context.Context, in GetUserRequest) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SearchUsers(ctx context.Context, in SearchUsersRequest) ([]User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*User, error)
}
