package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is one purchase attempt. Status is never set to expired,
// entitlement is derived from EndDate when read.
type Subscription struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	PlanType      string     `gorm:"not null" json:"plan_type"`
	Status        string     `gorm:"index;not null;default:pending" json:"status"`
	OrderID       string     `gorm:"uniqueIndex;not null" json:"order_id"`
	TransactionID *string    `json:"transaction_id"`
	PaymentMethod *string    `json:"payment_method"`
	Price         int64      `gorm:"not null" json:"price"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
