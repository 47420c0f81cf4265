package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Link binds a shop product (optionally a single variant) to a Moodle course,
// the role the customer is enrolled with, and an optional enrolment duration.
// A nil VariantID means the rule matches every variant of the product. The
// natural key of a link is (product, variant, course, role); the repository
// refuses to store a second row for the same key.
type Link struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProductID    uint       `gorm:"not null;index:idx_moodle_links_product" json:"product_id" validate:"required"`
	VariantID    *uint      `gorm:"default:null" json:"variant_id,omitempty"`
	CourseID     uint       `gorm:"not null" json:"course_id" validate:"required"`
	RoleID       uint       `gorm:"not null" json:"role_id" validate:"required"`
	DurationDays *uint      `gorm:"default:null" json:"duration_days,omitempty"`
	Enabled      bool       `gorm:"not null;default:false" json:"enabled"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the Link model
func (Link) TableName() string {
	return "moodle_links"
}

var linkValidator = validator.New()

// Validate checks field constraints and normalizes optional references.
// A zero variant or duration is stored as NULL, matching the admin form
// semantics where 0 means "any variant" / "unlimited".
func (l *Link) Validate() error {
	if l.VariantID != nil && *l.VariantID == 0 {
		l.VariantID = nil
	}
	if l.DurationDays != nil && *l.DurationDays == 0 {
		l.DurationDays = nil
	}
	return linkValidator.Struct(l)
}

// Matches reports whether this link entitles the given order line to the
// linked course: the link must be enabled, the product must match, and the
// variant must match unless the link applies to all variants.
func (l *Link) Matches(line OrderLine) bool {
	if !l.Enabled {
		return false
	}
	if l.ProductID != line.ProductID {
		return false
	}
	if l.VariantID == nil {
		return true
	}
	return line.VariantID != nil && *l.VariantID == *line.VariantID
}

// SameNaturalKey reports whether two links share the (product, variant,
// course, role) natural key.
func (l *Link) SameNaturalKey(other *Link) bool {
	if l.ProductID != other.ProductID || l.CourseID != other.CourseID || l.RoleID != other.RoleID {
		return false
	}
	if (l.VariantID == nil) != (other.VariantID == nil) {
		return false
	}
	return l.VariantID == nil || *l.VariantID == *other.VariantID
}
