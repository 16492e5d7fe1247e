package entity

import (
	"time"

	"github.com/google/uuid"
)

type Application struct {
	Id          uuid.UUID
	UserId      string
	Company     string
	Position    string
	Status      string
	AppliedDate time.Time
	Feedback    string
	CreatedAt   time.Time
}
