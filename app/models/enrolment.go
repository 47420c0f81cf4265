package models

import (
	"errors"
	"time"
)

// Enrolment modes. Automatic enrolments are triggered by the order-paid
// webhook, manual enrolments by an operator action. Manual triggers may be
// repeated; each run appends new rows instead of updating old ones.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// Enrolment status values. Init is the transient state of a freshly computed
// candidate; ok and err are terminal.
const (
	EnrolmentStatusInit = "init"
	EnrolmentStatusOK   = "ok"
	EnrolmentStatusErr  = "err"
)

var (
	// ErrEnrolmentTerminal is returned when a status transition is attempted
	// on an enrolment that already reached ok or err.
	ErrEnrolmentTerminal = errors.New("enrolment status is terminal")

	// ErrEnrolmentInvalid is returned by Validate for rows that must not be
	// persisted.
	ErrEnrolmentInvalid = errors.New("enrolment is not valid for persistence")
)

// Enrolment is the audit record of one concrete attempt to realize an
// entitlement through the Moodle web service. Every attempt is persisted,
// successful or not; errors are recorded in Status/Notes, never discarded.
type Enrolment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LinkID       uint      `gorm:"not null;index" json:"link_id"`
	Link         *Link     `gorm:"foreignKey:LinkID" json:"link,omitempty"`
	OrderID      uint      `gorm:"not null;index:idx_moodle_enrolments_order_mode,priority:1" json:"order_id"`
	OrderLineID  uint      `gorm:"not null" json:"order_line_id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	MoodleUserID *int64    `gorm:"default:null" json:"moodle_user_id,omitempty"`
	Mode         string    `gorm:"type:varchar(10);not null;index:idx_moodle_enrolments_order_mode,priority:2" json:"mode"`
	Status       string    `gorm:"type:varchar(10);not null" json:"status"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for the Enrolment model
func (Enrolment) TableName() string {
	return "moodle_enrolments"
}

// AppendNote appends a diagnostic fragment to the free-text notes.
func (e *Enrolment) AppendNote(note string) {
	e.Notes += note
}

// MarkOK transitions init -> ok. Terminal states cannot be left.
func (e *Enrolment) MarkOK() error {
	if e.Status != EnrolmentStatusInit {
		return ErrEnrolmentTerminal
	}
	e.Status = EnrolmentStatusOK
	return nil
}

// MarkErr transitions init -> err. Terminal states cannot be left.
func (e *Enrolment) MarkErr() error {
	if e.Status != EnrolmentStatusInit {
		return ErrEnrolmentTerminal
	}
	e.Status = EnrolmentStatusErr
	return nil
}

// Validate checks that the enrolment may be persisted. Only terminal rows are
// stored: an enrolment still in init has not been attempted yet.
func (e *Enrolment) Validate() error {
	if e.LinkID == 0 || e.OrderID == 0 || e.OrderLineID == 0 || e.CustomerID == 0 {
		return ErrEnrolmentInvalid
	}
	if e.Mode != ModeAuto && e.Mode != ModeManual {
		return ErrEnrolmentInvalid
	}
	if e.Status != EnrolmentStatusOK && e.Status != EnrolmentStatusErr {
		return ErrEnrolmentInvalid
	}
	return nil
}
