package models

import "time"

// MemberStatus enumerates the lifecycle states of a room membership.
type MemberStatus string

const (
	MemberActive   MemberStatus = "Active"
	MemberRemoved  MemberStatus = "Removed"
	MemberArchived MemberStatus = "Archived"
)

// RoomMember is a join row linking one account to one room. At most one
// logical membership exists per (room, account) pair; re-adding a
// non-active pair reactivates the same row.
type RoomMember struct {
	ID         string       `db:"id" json:"id"`
	RoomID     string       `db:"room_id" json:"roomId"`
	AccountID  string       `db:"account_id" json:"accountId"`
	JoinedAt   time.Time    `db:"joined_at" json:"joinedAt"`
	LeftAt     *time.Time   `db:"left_at" json:"leftAt,omitempty"`
	Status     MemberStatus `db:"status" json:"status"`
	ArchivedAt *time.Time   `db:"archived_at" json:"archivedAt,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updatedAt"`

	AccountUsername *string `db:"account_username" json:"accountUsername,omitempty"`
	AccountEmail    *string `db:"account_email" json:"accountEmail,omitempty"`
}

// MemberFilter captures the listing criteria for room members.
type MemberFilter struct {
	RoomID    string
	AccountID string
	Status    *MemberStatus
}
