package repository

import (
	"context"
	"strings"
	"time"

	"trainbook/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        *string   `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	DisplayName  *string   `gorm:"column:display_name;index"`
	Privileged   bool      `gorm:"column:privileged"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var email, displayName string
	if m.Email != nil {
		email = *m.Email
	}
	if m.DisplayName != nil {
		displayName = *m.DisplayName
	}

	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        email,
		PasswordHash: m.PasswordHash,
		DisplayName:  displayName,
		Privileged:   m.Privileged,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var email, displayName *string
	if u.Email != "" {
		v := strings.TrimSpace(strings.ToLower(u.Email))
		email = &v
	}
	if u.DisplayName != "" {
		v := u.DisplayName
		displayName = &v
	}

	return userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        email,
		PasswordHash: u.PasswordHash,
		DisplayName:  displayName,
		Privileged:   u.Privileged,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// GetByDisplayName resolves a header-supplied external token to a user.
// The token matches the display_name column exactly.
func (r *UserRepository) GetByDisplayName(ctx context.Context, name string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("display_name = ?", name).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// ListRefs returns the id+username projection of every user.
func (r *UserRepository) ListRefs(ctx context.Context) ([]domain.UserRef, error) {
	var refs []domain.UserRef
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Select("id", "username").
		Order("id ASC").
		Scan(&refs)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return refs, nil
}
