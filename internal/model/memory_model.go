package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Memory rows are append only, so there is no UpdatedAt/DeletedAt.
type Memory struct {
	Id         uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserId     string                      `gorm:"type:varchar(255);not null;index:idx_memories_user_created,priority:1"`
	Content    string                      `gorm:"type:text;not null"`
	MemoryType string                      `gorm:"type:varchar(20);not null;index"`
	Embedding  *pgvector.Vector            `gorm:"type:vector"` // NULL when embedding failed
	Importance float64                     `gorm:"not null;default:0.5"`
	Tags       datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Metadata   datatypes.JSON              `gorm:"type:jsonb"`
	CreatedAt  time.Time                   `gorm:"not null;index:idx_memories_user_created,priority:2"`
}

func (Memory) TableName() string {
	return "memories"
}
