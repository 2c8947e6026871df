package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusComplete  TaskStatus = "COMPLETE"
	StatusCancelled TaskStatus = "CANCELLED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusComplete, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s TaskStatus) Terminal() bool {
	return s == StatusComplete || s == StatusCancelled
}

type Task struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	VehicleNumber string     `gorm:"size:32;not null" json:"vehicleNumber"`
	OwnerName     string     `gorm:"size:255;not null" json:"ownerName"`
	OwnerPhone    string     `gorm:"size:20;not null" json:"ownerPhone"`
	City          City       `gorm:"type:varchar(20);not null" json:"city"`
	Status        TaskStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	UploadedImage string     `gorm:"type:text" json:"uploadedImage,omitempty"`

	AuthorID string `gorm:"size:36;index;not null" json:"authorId"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
