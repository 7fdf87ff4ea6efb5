package models

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `gorm:"primarykey;type:varchar(36)" bson:"_id" json:"id"`
	FirstName    string    `gorm:"type:varchar(50);not null" bson:"firstName" json:"firstName"`
	LastName     string    `gorm:"type:varchar(50);not null" bson:"lastName" json:"lastName"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" bson:"username" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `gorm:"not null" bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" bson:"updatedAt" json:"updatedAt"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
