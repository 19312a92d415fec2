package user

// CreateUserRequest represents the payload for creating a single user.
// Name and email are required; address is optional. Email format is not
// validated beyond presence, matching the store schema.
type CreateUserRequest struct {
	Name    string `validate:"required"`
	Email   string `validate:"required"`
	Address string
}

// UpdateUserRequest represents a partial update. Nil fields are left
// untouched; only the fields the client actually sent are applied.
type UpdateUserRequest struct {
	ID      string
	Name    *string
	Email   *string
	Address *string
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// SearchUsersRequest represents the request payload for the name search.
// An empty filter matches every user.
type SearchUsersRequest struct {
	Filter string
}

// User represents a stored user DTO for API responses.
type User struct {
	ID      string
	Name    string
	Email   string
	Address string
}
