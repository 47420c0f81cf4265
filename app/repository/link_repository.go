package repository

import (
	"github.com/jcid-dev/MoodleLink/app/models"
	"gorm.io/gorm"
)

// linkRepository implements the LinkRepository interface
type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new link repository instance
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

// Create stores a new link unless an identical natural key already exists.
// The duplicate case reports success and leaves link.ID unset; callers cannot
// tell "created" from "already existed", which is the contract the admin
// surface relies on.
func (r *linkRepository) Create(link *models.Link) error {
	if err := link.Validate(); err != nil {
		return err
	}

	exists, err := r.ExistsNaturalKey(link)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return r.db.Create(link).Error
}

func (r *linkRepository) GetByID(id uint) (*models.Link, error) {
	var link models.Link
	if err := r.db.First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) GetAll() ([]models.Link, error) {
	var links []models.Link
	err := r.db.Order("created_at").Find(&links).Error
	return links, err
}

func (r *linkRepository) GetEnabled() ([]models.Link, error) {
	var links []models.Link
	err := r.db.Where("enabled = ?", true).Order("created_at").Find(&links).Error
	return links, err
}

// ExistsNaturalKey checks for a row with the same (product, variant, course,
// role) tuple. The variant leg compares IS NULL when the candidate applies to
// all variants.
func (r *linkRepository) ExistsNaturalKey(link *models.Link) (bool, error) {
	var variantCond Condition
	if link.VariantID == nil {
		variantCond = IsNull("variant_id")
	} else {
		variantCond = Leaf{Field: "variant_id", Op: "=", Value: *link.VariantID, Kind: KindNumeric}
	}

	cond := And(Leaf{Field: "product_id", Op: "=", Value: link.ProductID, Kind: KindNumeric}, variantCond)
	cond = And(cond, Leaf{Field: "course_id", Op: "=", Value: link.CourseID, Kind: KindNumeric})
	cond = And(cond, Leaf{Field: "role_id", Op: "=", Value: link.RoleID, Kind: KindNumeric})

	clause, args := WhereClause(cond)
	var count int64
	err := r.db.Model(&models.Link{}).Where(clause, args...).Count(&count).Error
	return count > 0, err
}

func (r *linkRepository) SetEnabled(id uint, enabled bool) error {
	return r.db.Model(&models.Link{}).Where("id = ?", id).Update("enabled", enabled).Error
}

func (r *linkRepository) Delete(id uint) error {
	return r.db.Delete(&models.Link{}, id).Error
}

func (r *linkRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Link{}).Count(&count).Error
	return count, err
}
