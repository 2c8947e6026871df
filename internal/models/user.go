package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleModerator UserRole = "MODERATOR"
	RoleUser      UserRole = "USER"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// City is one of the fixed service cities.
type City string

const (
	CityBhopal   City = "bhopal"
	CityIndore   City = "indore"
	CityJabalpur City = "jabalpur"
	CityGwalior  City = "gwalior"
	CitySagar    City = "sagar"
)

var Cities = []City{CityBhopal, CityIndore, CityJabalpur, CityGwalior, CitySagar}

func (c City) Valid() bool {
	for _, known := range Cities {
		if c == known {
			return true
		}
	}
	return false
}

type User struct {
	ID           string   `gorm:"primaryKey;size:36" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FirstName    string   `gorm:"size:100;not null" json:"firstName"`
	LastName     string   `gorm:"size:100" json:"lastName"`
	City         City     `gorm:"type:varchar(20);index;not null" json:"city"`
	Role         UserRole `gorm:"type:varchar(20);index;not null" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
