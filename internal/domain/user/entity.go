package user

// User represents a user record as stored, including its assigned id.
type User struct {
	ID      string // ID is the opaque, store-assigned identifier
	Name    string // Name is the unique full name of the user
	Email   string // Email is the unique email address of the user
	Address string // Address is optional
}
