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

const roomColumns = `r.id, r.name, r.join_code, r.description, r.course_id, r.class_section,
	r.school_year_start, r.school_year_end, r.creator_id, r.is_active, r.is_archived, r.archived_at,
	r.created_at, r.updated_at, c.name AS course_name, a.username AS creator_username`

const roomJoins = ` FROM rooms r
	LEFT JOIN courses c ON c.id = r.course_id
	LEFT JOIN accounts a ON a.id = r.creator_id`

// RoomRepository provides database access for rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new instance of RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms matching the filter, newest first, with course and
// creator summaries joined in.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + roomJoins + ` WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ClassSection != "" {
		// Exact match, case-insensitive.
		conditions = append(conditions, fmt.Sprintf("LOWER(r.class_section) = LOWER($%d)", len(args)+1))
		args = append(args, filter.ClassSection)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("r.is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}
	if filter.IsArchived != nil {
		conditions = append(conditions, fmt.Sprintf("r.is_archived = $%d", len(args)+1))
		args = append(args, *filter.IsArchived)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(r.name ILIKE $%d OR r.join_code ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, containsPattern(filter.Search))
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.created_at DESC"

	rooms := []models.Room{}
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindByID returns a room by identifier with joined summaries.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + roomJoins + ` WHERE r.id = $1 LIMIT 1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find room by id: %w", err)
	}
	return &room, nil
}

// FindByJoinCode returns a room by its unique join code.
func (r *RoomRepository) FindByJoinCode(ctx context.Context, joinCode string) (*models.Room, error) {
	const query = `SELECT id, name, join_code, description, course_id, class_section,
		school_year_start, school_year_end, creator_id, is_active, is_archived, archived_at,
		created_at, updated_at FROM rooms WHERE join_code = $1 LIMIT 1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, joinCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find room by join code: %w", err)
	}
	return &room, nil
}

// Create inserts a new room and fills in server-assigned fields.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = oid.New()
	}
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (id, name, join_code, description, course_id, class_section,
		school_year_start, school_year_end, creator_id, is_active, is_archived, archived_at, created_at, updated_at)
		VALUES (:id, :name, :join_code, :description, :course_id, :class_section,
		:school_year_start, :school_year_end, :creator_id, :is_active, :is_archived, :archived_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a room. Archive toggling goes
// through here as one write so the flag, is_active and archived_at
// always move together.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET name = :name, join_code = :join_code, description = :description,
		course_id = :course_id, class_section = :class_section, school_year_start = :school_year_start,
		school_year_end = :school_year_end, creator_id = :creator_id, is_active = :is_active,
		is_archived = :is_archived, archived_at = :archived_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}
