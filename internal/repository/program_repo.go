package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hackdesk/hackdesk-api/internal/models"
)

// ProgramRepository provides access to training program artifacts.
type ProgramRepository interface {
	Upsert(ctx context.Context, program *models.Program) error
	GetByProject(ctx context.Context, projectID uint) (models.Program, error)
}

type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository constructs a program repository.
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Upsert(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(program).Error
}

func (r *programRepository) GetByProject(ctx context.Context, projectID uint) (models.Program, error) {
	var program models.Program
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&program).Error; err != nil {
		return models.Program{}, err
	}

	return program, nil
}
