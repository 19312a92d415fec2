package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-rest-service/internal/domain/user"
)

// UserRepoPG implements the Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string    `gorm:"primaryKey;size:36"`   // Opaque store-assigned identifier
	Name      string    `gorm:"not null;uniqueIndex"` // User's full name (required, unique)
	Email     string    `gorm:"not null;uniqueIndex"` // User's email address (required, unique)
	Address   string                                  // Optional
	CreatedAt time.Time `gorm:"index"`                // Preserves insertion order for listings
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// BeforeCreate assigns the opaque id before the row is written.
func (u *UserSchema) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Create inserts a new user into the database and returns the stored record.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return toDomain(&model), nil
}

// CreateBatch inserts several users inside a single transaction. Either every
// record is written or none is.
func (r *UserRepoPG) CreateBatch(ctx context.Context, us []user.User) ([]user.User, error) {
	models := make([]UserSchema, len(us))
	for i, u := range us {
		models[i] = UserSchema{
			Name:    u.Name,
			Email:   u.Email,
			Address: u.Address,
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models).Error
	})
	if err != nil {
		r.log.Error("failed to create user batch in db", zap.Error(err), zap.Int("count", len(us)))
		return nil, fmt.Errorf("failed to create users: %w", err)
	}

	created := make([]user.User, len(models))
	for i := range models {
		created[i] = *toDomain(&models[i])
	}

	r.log.Info("user batch created in db", zap.Int("count", len(created)))
	return created, nil
}

// GetByID retrieves a user by id. Returns (nil, nil) when the id is absent.
func (r *UserRepoPG) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(&model), nil
}

// GetByName retrieves a user by exact name. Returns (nil, nil) when absent.
func (r *UserRepoPG) GetByName(ctx context.Context, name string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get user by name from db", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	return toDomain(&model), nil
}

// GetByEmail retrieves a user by exact email. Returns (nil, nil) when absent.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toDomain(&model), nil
}

// Update applies the given fields to the user and returns the post-update
// record. Returns (nil, nil) when the id is absent.
func (r *UserRepoPG) Update(ctx context.Context, id string, fields map[string]any) (*user.User, error) {
	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.String("id", id))
		return nil, fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	r.log.Info("user updated in db", zap.String("id", id))
	return r.GetByID(ctx, id)
}

// Delete removes a user from the database by id.
func (r *UserRepoPG) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserSchema{}).Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return nil
}

// likeEscaper neutralizes LIKE metacharacters so the filter is matched as a
// literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List retrieves users in insertion order. A non-empty filter restricts the
// result to names containing it as a case-insensitive substring.
func (r *UserRepoPG) List(ctx context.Context, filter string) ([]user.User, error) {
	q := r.db.WithContext(ctx).Order("created_at")
	if filter != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}

	var models []UserSchema
	if err := q.Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err), zap.String("filter", filter))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toDomain(&models[i])
	}

	return users, nil
}

func toDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Address: m.Address,
	}
}
