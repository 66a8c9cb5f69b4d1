package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"not null" json:"username"` // Username can be modified
	FullName    string    `gorm:"size:100" json:"full_name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"-"` // never in public payloads, owner gets it via ownerView
	Password    string    `gorm:"not null" json:"-"` // Hash
	Avatar      string    `gorm:"default:🍳" json:"avatar"` // emoji avatar
	Bio         string    `gorm:"size:200" json:"bio"`
	IsActivated bool      `gorm:"default:false" json:"-"`
	VerifyCode  string    `gorm:"size:20" json:"-"` // activation / password reset code
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// No DeletedAt for hard delete
}
