package models

import "time"

// AccountRole enumerates the roles an account can hold.
type AccountRole string

const (
	RoleAdministrator AccountRole = "Administrator"
	RoleTeacher       AccountRole = "Teacher"
	RoleStudent       AccountRole = "Student"
)

// AccountStatus enumerates the lifecycle states of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
	AccountArchived AccountStatus = "Archived"
)

// Account represents a row in the accounts table. The password hash is
// never serialised into responses.
type Account struct {
	ID                string        `db:"id" json:"id"`
	Email             string        `db:"email" json:"email"`
	PasswordHash      string        `db:"password_hash" json:"-"`
	Username          string        `db:"username" json:"username"`
	ProfilePictureURL string        `db:"profile_picture_url" json:"profilePictureUrl"`
	Role              AccountRole   `db:"role" json:"role"`
	Status            AccountStatus `db:"status" json:"status"`
	CreatedAt         time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updatedAt"`
}

// AccountFilter captures the listing criteria for accounts. Search is a
// case-insensitive substring match against username and email.
type AccountFilter struct {
	Role   *AccountRole
	Status *AccountStatus
	Search string
}
