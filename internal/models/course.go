package models

import "time"

// Course represents a row in the courses table.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Department  *string   `db:"department" json:"department,omitempty"`
	IsArchived  bool      `db:"is_archived" json:"isArchived"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// CourseFilter captures the listing criteria for courses. IsArchived nil
// means "default to non-archived" at the service layer.
type CourseFilter struct {
	IsArchived *bool
	Department *string
	Search     string
}
