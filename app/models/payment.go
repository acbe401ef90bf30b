package models

import "time"

// Payment represents money received from a student for a school year.
// status=paid implies BalanceRemaining is zero and status=pending
// implies Amount is zero.
type Payment struct {
	ID               string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	StudentID        string        `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SchoolYearID     string        `json:"school_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount           float64       `json:"amount" gorm:"not null;type:decimal(10,2)" validate:"gte=0"`
	ExpectedAmount   float64       `json:"expected_amount" gorm:"type:decimal(10,2)"`
	AppliedDiscount  float64       `json:"applied_discount" gorm:"not null;default:0;type:decimal(10,2)"`
	BalanceRemaining float64       `json:"balance_remaining" gorm:"not null;default:0;type:decimal(10,2)"`
	Type             PaymentType   `json:"type" gorm:"not null;default:'tuition';type:varchar(20)"`
	Method           PaymentMethod `json:"method" gorm:"not null;default:'cash';type:varchar(20)"`
	Reference        string        `json:"reference" gorm:"uniqueIndex;not null" validate:"required,max=60"`
	Status           PaymentStatus `json:"status" gorm:"not null;default:'pending';type:varchar(20)"`
	PaymentDate      time.Time     `json:"payment_date" gorm:"not null;index"`
	Notes            *string       `json:"notes,omitempty"`
	RecordedByID     *string       `json:"recorded_by_id,omitempty" gorm:"index;type:uuid"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Student    *Student    `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	SchoolYear *SchoolYear `json:"school_year,omitempty" gorm:"foreignKey:SchoolYearID;references:ID"`
}
