package model

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

type Review struct {
	ID        string       `json:"id" db:"id"`
	Author    string       `json:"author" db:"author"`
	Rating    int          `json:"rating" db:"rating"`
	Comment   string       `json:"comment" db:"comment"`
	Status    ReviewStatus `json:"status" db:"status"`
	Date      time.Time    `json:"date" db:"date"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
}

// ReviewRequest serves both POST and PUT. Rating is a pointer so that an
// absent rating is told apart from an out of range one.
type ReviewRequest struct {
	Author  string `json:"author" validate:"required,notblank"`
	Rating  *int   `json:"rating" validate:"required"`
	Comment string `json:"comment" validate:"required,notblank"`
	Status  string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}
