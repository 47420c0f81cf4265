package repository

import (
	"github.com/jcid-dev/MoodleLink/app/models"
	"gorm.io/gorm"
)

// LinkRepository defines the interface for product-to-course link operations
type LinkRepository interface {
	// Create validates and stores a link. When a link with the same natural
	// key (product, variant, course, role) already exists, Create succeeds
	// without inserting a second row and without populating link.ID.
	Create(link *models.Link) error
	GetByID(id uint) (*models.Link, error)
	GetAll() ([]models.Link, error)
	GetEnabled() ([]models.Link, error)
	ExistsNaturalKey(link *models.Link) (bool, error)
	SetEnabled(id uint, enabled bool) error
	Delete(id uint) error
	Count() (int64, error)
}

// EnrolmentRepository defines the interface for enrolment audit records
type EnrolmentRepository interface {
	Create(enrolment *models.Enrolment) error
	GetByID(id uint) (*models.Enrolment, error)
	GetAll(offset, limit int) ([]models.Enrolment, error)
	// GetByOrder returns the attempts recorded for an order, newest first.
	// With autoOnly set, only automatic-mode rows are returned; this is the
	// query behind the automatic idempotency guard.
	GetByOrder(orderID uint, autoOnly bool) ([]models.Enrolment, error)
	Find(cond Condition, orderBy string) ([]models.Enrolment, error)
	Count() (int64, error)
}

// SettingRepository defines the interface for module settings
type SettingRepository interface {
	Get() (models.ModuleSettings, error)
	Save(settings *models.ModuleSettings) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Link      LinkRepository
	Enrolment EnrolmentRepository
	Setting   SettingRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Link:      NewLinkRepository(db),
		Enrolment: NewEnrolmentRepository(db),
		Setting:   NewSettingRepository(db),
	}
}
