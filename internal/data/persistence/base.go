package persistence

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/payments-example/internal/domain/entity"
)

// Base is embedded by every row. The store, not the domain, assigns id and timestamps.
type Base struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Meta converts the identity columns into a domain identity.
func (b Base) Meta() (entity.Meta, error) {
	return entity.NewMeta(b.ID, b.CreatedAt, b.UpdatedAt)
}

// BaseOf copies the identity of a loaded entity. Transient entities yield a zero Base.
func BaseOf[T any](e entity.Entity[T]) Base {
	meta, ok := entity.Identity(e)
	if !ok {
		return Base{}
	}
	return Base{ID: meta.ID(), CreatedAt: meta.CreatedAt(), UpdatedAt: meta.UpdatedAt()}
}
