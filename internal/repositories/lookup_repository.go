package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arosaje/backend/internal/db"
	apperrors "github.com/arosaje/backend/internal/errors"
	"github.com/arosaje/backend/internal/models"
)

type plantCareRepository struct {
	db *db.DB
}

// NewPlantCareRepository creates the read-only plant-care lookup
func NewPlantCareRepository(database *db.DB) PlantCareRepository {
	return &plantCareRepository{db: database}
}

func (r *plantCareRepository) GetByID(ctx context.Context, id uint) (*models.PlantCare, error) {
	var care models.PlantCare
	err := r.db.WithContext(ctx).First(&care, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperrors.ErrNotFound{Resource: "plant care", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plant care: %w", err)
	}
	return &care, nil
}

type userRepository struct {
	db *db.DB
}

// NewUserRepository creates the read-only user lookup
func NewUserRepository(database *db.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperrors.ErrNotFound{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
