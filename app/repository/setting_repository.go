package repository

import (
	"github.com/jcid-dev/MoodleLink/app/models"
	"gorm.io/gorm"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get returns the current module settings snapshot
func (r *settingRepository) Get() (models.ModuleSettings, error) {
	return models.GetModuleSettings(), nil
}

// Save persists the module settings and refreshes the in-memory snapshot
func (r *settingRepository) Save(settings *models.ModuleSettings) error {
	return models.SaveSettings(r.db, settings)
}
