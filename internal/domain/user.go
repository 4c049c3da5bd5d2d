package domain

import "time"

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// SystemActorID is recorded as creator/modifier for self-service registrations.
const SystemActorID int64 = 1

type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Fullname     string     `json:"fullname" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	Status       UserStatus `json:"status" gorm:"size:32;not null;default:active"`
	CreatedBy    int64      `json:"created_by"`
	ModifiedBy   int64      `json:"modified_by"`

	// Last issued access token, kept on the user row alongside the access_tokens table.
	AccessTokenHash      *string    `json:"-" gorm:"size:64"`
	AccessTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
