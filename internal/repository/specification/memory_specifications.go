package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByMemoryType struct {
	MemoryType string
}

func (s ByMemoryType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("memory_type = ?", s.MemoryType)
}

type MinImportance struct {
	Value float64
}

func (s MinImportance) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("importance >= ?", s.Value)
}

type CreatedAfter struct {
	Time time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Time)
}

// HasEmbedding skips rows whose embedding was never computed
type HasEmbedding struct{}

func (s HasEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}
