package models

import "time"

type List struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_lists_user_title" json:"title" validate:"required,max=30"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_lists_user_title" json:"userId" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"-"`
}

func (l List) PrimaryKey() uint64 { return l.ID }

func (l List) OwnerID() uint64 { return l.UserID }

// UniqueConstraints forbids two lists with the same title for one owner. The
// comparison is exact and case-sensitive.
func (l List) UniqueConstraints() []UniqueConstraint {
	return []UniqueConstraint{
		{
			Columns: map[string]any{"user_id": l.UserID, "title": l.Title},
			Message: "You already have a list with this title",
		},
	}
}
