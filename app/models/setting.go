package models

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Setting represents one persisted module setting
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:setting_key;size:255;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "moodle_settings"
}

// ModuleSettings holds the operator-editable behavior switches of the
// connector. The Moodle endpoint, token and default password are startup
// configuration and live in the environment, not here.
type ModuleSettings struct {
	AutoEnrolEnabled          bool `json:"auto_enrol_enabled"`
	ManualEnrolEnabled        bool `json:"manual_enrol_enabled"`
	EmailNotificationsEnabled bool `json:"email_notifications_enabled"`
}

var (
	moduleSettings *ModuleSettings
	settingsMu     sync.RWMutex
)

// GetModuleSettings returns the in-memory settings snapshot. LoadSettings must
// have run at startup; before that a conservative all-disabled default is
// returned.
func GetModuleSettings() ModuleSettings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	if moduleSettings == nil {
		return ModuleSettings{}
	}
	return *moduleSettings
}

// LoadSettings loads settings from database into memory
func LoadSettings(db *gorm.DB) error {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	// New installations start with every switch off, like the original module.
	loaded := &ModuleSettings{}

	var settings []Setting
	if err := db.Find(&settings).Error; err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	for _, setting := range settings {
		enabled := setting.Value == "true"
		switch setting.Key {
		case "auto_enrol_enabled":
			loaded.AutoEnrolEnabled = enabled
		case "manual_enrol_enabled":
			loaded.ManualEnrolEnabled = enabled
		case "email_notifications_enabled":
			loaded.EmailNotificationsEnabled = enabled
		}
	}

	moduleSettings = loaded
	return nil
}

// SaveSettings persists the given settings and replaces the in-memory
// snapshot.
func SaveSettings(db *gorm.DB, settings *ModuleSettings) error {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	values := map[string]bool{
		"auto_enrol_enabled":          settings.AutoEnrolEnabled,
		"manual_enrol_enabled":        settings.ManualEnrolEnabled,
		"email_notifications_enabled": settings.EmailNotificationsEnabled,
	}

	for key, value := range values {
		var setting Setting
		err := db.Where("setting_key = ?", key).First(&setting).Error
		if err == gorm.ErrRecordNotFound {
			setting = Setting{Key: key, Value: fmt.Sprintf("%t", value)}
			if err := db.Create(&setting).Error; err != nil {
				return fmt.Errorf("failed to create setting %s: %w", key, err)
			}
			continue
		} else if err != nil {
			return fmt.Errorf("failed to query setting %s: %w", key, err)
		}

		setting.Value = fmt.Sprintf("%t", value)
		if err := db.Save(&setting).Error; err != nil {
			return fmt.Errorf("failed to update setting %s: %w", key, err)
		}
	}

	copied := *settings
	moduleSettings = &copied
	return nil
}
