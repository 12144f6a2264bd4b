package models

import (
	"time"
)

type User struct {
	ID                  uint64     `gorm:"primarykey" json:"id"`
	FirstName           string     `gorm:"type:varchar(100);not null" json:"firstName" validate:"required,max=100"`
	LastName            string     `gorm:"type:varchar(100);not null" json:"lastName" validate:"required,max=100"`
	Age                 int        `gorm:"not null" json:"age" validate:"required,gte=13"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email,max=255"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-" validate:"required"`
	ResetTokenHash      *string    `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`

	// Relations
	Lists []List `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tasks []Task `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u User) PrimaryKey() uint64 { return u.ID }

// UniqueConstraints enforces one account per email address.
func (u User) UniqueConstraints() []UniqueConstraint {
	return []UniqueConstraint{
		{Columns: map[string]any{"email": u.Email}, Message: "Email is already registered"},
	}
}

// ResetTokenValid reports whether digest matches the stored reset token and the
// token has not expired at now.
func (u User) ResetTokenValid(digest string, now time.Time) bool {
	if u.ResetTokenHash == nil || u.ResetTokenExpiresAt == nil {
		return false
	}
	if *u.ResetTokenHash != digest {
		return false
	}
	return now.Before(*u.ResetTokenExpiresAt)
}
