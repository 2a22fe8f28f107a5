package model

import (
	"time"
)

type UserRole string

const (
	Admin       UserRole = "ADMIN"
	Author      UserRole = "AUTHOR"
	Participant UserRole = "PARTICIPANT"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string    `gorm:"size:100;not null" json:"name"`
	Username string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string    `gorm:"size:100;not null" json:"-"`
	Role     UserRole  `gorm:"type:varchar(20);default:'PARTICIPANT'" json:"role"`
	Phone    *string   `gorm:"size:30" json:"phone,omitempty"`
	LastSeen time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
