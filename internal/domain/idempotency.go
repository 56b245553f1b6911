package domain

import (
	"time"

	"gorm.io/datatypes"
)

// IdempotencyRecord maps (operation, key) -> result, making external
// side-effects (enrolment sends, CRM upserts, video generation) safely
// retryable.
type IdempotencyRecord struct {
	Operation string         `gorm:"column:operation;primaryKey" json:"operation"`
	Key       string         `gorm:"column:key;primaryKey" json:"key"`
	Result    datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (IdempotencyRecord) TableName() string { return "idempotency" }
