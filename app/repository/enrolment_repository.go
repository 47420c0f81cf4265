package repository

import (
	"github.com/jcid-dev/MoodleLink/app/models"
	"gorm.io/gorm"
)

// Enrolments are listed newest first, like the original audit view.
const enrolmentDefaultOrder = "created_at DESC"

// enrolmentRepository implements the EnrolmentRepository interface
type enrolmentRepository struct {
	db *gorm.DB
}

// NewEnrolmentRepository creates a new enrolment repository instance
func NewEnrolmentRepository(db *gorm.DB) EnrolmentRepository {
	return &enrolmentRepository{db: db}
}

// Create persists one attempt record. Re-running an orchestration accumulates
// new rows; existing rows are never updated.
func (r *enrolmentRepository) Create(enrolment *models.Enrolment) error {
	if err := enrolment.Validate(); err != nil {
		return err
	}
	return r.db.Create(enrolment).Error
}

func (r *enrolmentRepository) GetByID(id uint) (*models.Enrolment, error) {
	var enrolment models.Enrolment
	if err := r.db.Preload("Link").First(&enrolment, id).Error; err != nil {
		return nil, err
	}
	return &enrolment, nil
}

func (r *enrolmentRepository) GetAll(offset, limit int) ([]models.Enrolment, error) {
	var enrolments []models.Enrolment
	err := r.db.Preload("Link").Order(enrolmentDefaultOrder).Offset(offset).Limit(limit).Find(&enrolments).Error
	return enrolments, err
}

func (r *enrolmentRepository) GetByOrder(orderID uint, autoOnly bool) ([]models.Enrolment, error) {
	cond := Condition(Leaf{Field: "order_id", Op: "=", Value: orderID, Kind: KindNumeric})
	if autoOnly {
		cond = And(cond, Leaf{Field: "mode", Op: "=", Value: models.ModeAuto, Kind: KindString})
	}
	return r.Find(cond, enrolmentDefaultOrder)
}

// Find runs a filtered query built from a condition expression.
func (r *enrolmentRepository) Find(cond Condition, orderBy string) ([]models.Enrolment, error) {
	if orderBy == "" {
		orderBy = enrolmentDefaultOrder
	}

	query := r.db.Preload("Link").Order(orderBy)
	if clause, args := WhereClause(cond); clause != "" {
		query = query.Where(clause, args...)
	}

	var enrolments []models.Enrolment
	err := query.Find(&enrolments).Error
	return enrolments, err
}

func (r *enrolmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Enrolment{}).Count(&count).Error
	return count, err
}
