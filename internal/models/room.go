package models

import "time"

// Room represents a class section tied to a course and its creator.
// CourseName and CreatorUsername are populated from joins on reads.
type Room struct {
	ID              string     `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	JoinCode        string     `db:"join_code" json:"joinCode"`
	Description     *string    `db:"description" json:"description,omitempty"`
	CourseID        string     `db:"course_id" json:"courseId"`
	ClassSection    string     `db:"class_section" json:"classSection"`
	SchoolYearStart int        `db:"school_year_start" json:"schoolYearStart"`
	SchoolYearEnd   int        `db:"school_year_end" json:"schoolYearEnd"`
	CreatorID       string     `db:"creator_id" json:"creatorId"`
	IsActive        bool       `db:"is_active" json:"isActive"`
	IsArchived      bool       `db:"is_archived" json:"isArchived"`
	ArchivedAt      *time.Time `db:"archived_at" json:"archivedAt,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`

	CourseName      *string `db:"course_name" json:"courseName,omitempty"`
	CreatorUsername *string `db:"creator_username" json:"creatorUsername,omitempty"`
}

// RoomFilter captures the listing criteria for rooms. ClassSection is an
// exact, case-insensitive match; Search spans name and joinCode.
type RoomFilter struct {
	ClassSection string
	IsActive     *bool
	IsArchived   *bool
	Search       string
}
