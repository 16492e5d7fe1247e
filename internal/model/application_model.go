package model

import (
	"time"

	"github.com/google/uuid"
)

type Application struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      string    `gorm:"type:varchar(255);not null;index"`
	Company     string    `gorm:"type:varchar(255);not null"`
	Position    string    `gorm:"type:varchar(255);not null"`
	Status      string    `gorm:"type:varchar(50);default:'applied'"`
	AppliedDate time.Time `gorm:"not null;index"`
	Feedback    string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Application) TableName() string {
	return "applications"
}
