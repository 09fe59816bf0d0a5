package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

func (s *Store) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return nil, fmt.Errorf("email is required: %w", ErrInvalid)
	}

	user := &User{Email: strings.TrimSpace(*in.Email)}
	if in.Name != nil {
		user.Name = *in.Name
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translate(err, "create user")
	}
	return user, nil
}

// ListUsers returns all users with their measurements.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := s.db.WithContext(ctx).Preload("Measurements").Order("id").Find(&users).Error
	if err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Preload("Measurements").First(&user, id).Error
	if err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uint, in UserInput) (*User, error) {
	updates := map[string]any{}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("email must not be empty: %w", ErrInvalid)
		}
		updates["email"] = email
	}
	if in.Name != nil {
		updates["name"] = *in.Name
	}

	var user User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, translate(err, "update user")
	}
	return &user, nil
}

// DeleteUser removes the user together with their measurements.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&Measurements{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "delete user")
}
