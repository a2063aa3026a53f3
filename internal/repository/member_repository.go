package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/oid"
)

const memberColumns = `m.id, m.room_id, m.account_id, m.joined_at, m.left_at, m.status, m.archived_at,
	m.created_at, m.updated_at, a.username AS account_username, a.email AS account_email`

const memberJoins = ` FROM room_members m
	LEFT JOIN accounts a ON a.id = m.account_id`

// MemberRepository provides database access for room memberships.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// List returns memberships matching the filter, newest first, with the
// member account summary joined in.
func (r *MemberRepository) List(ctx context.Context, filter models.MemberFilter) ([]models.RoomMember, error) {
	query := `SELECT ` + memberColumns + memberJoins + ` WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("m.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.AccountID != "" {
		conditions = append(conditions, fmt.Sprintf("m.account_id = $%d", len(args)+1))
		args = append(args, filter.AccountID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("m.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY m.created_at DESC"

	members := []models.RoomMember{}
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// FindByID returns a membership by identifier.
func (r *MemberRepository) FindByID(ctx context.Context, id string) (*models.RoomMember, error) {
	query := `SELECT ` + memberColumns + memberJoins + ` WHERE m.id = $1 LIMIT 1`
	var member models.RoomMember
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find member by id: %w", err)
	}
	return &member, nil
}

// FindByRoomAndAccount returns the single logical membership for the
// (room, account) pair regardless of its status.
func (r *MemberRepository) FindByRoomAndAccount(ctx context.Context, roomID, accountID string) (*models.RoomMember, error) {
	const query = `SELECT id, room_id, account_id, joined_at, left_at, status, archived_at, created_at, updated_at
		FROM room_members WHERE room_id = $1 AND account_id = $2 LIMIT 1`
	var member models.RoomMember
	if err := r.db.GetContext(ctx, &member, query, roomID, accountID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find member by room and account: %w", err)
	}
	return &member, nil
}

// Create inserts a new membership row. A UNIQUE(room_id, account_id)
// index backstops concurrent adds for the same pair.
func (r *MemberRepository) Create(ctx context.Context, member *models.RoomMember) error {
	if member.ID == "" {
		member.ID = oid.New()
	}
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	const query = `INSERT INTO room_members (id, room_id, account_id, joined_at, left_at, status, archived_at, created_at, updated_at)
		VALUES (:id, :room_id, :account_id, :joined_at, :left_at, :status, :archived_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

// Update persists the lifecycle fields of a membership.
func (r *MemberRepository) Update(ctx context.Context, member *models.RoomMember) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE room_members SET joined_at = :joined_at, left_at = :left_at, status = :status,
		archived_at = :archived_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}
