package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/innerview/innerview-api/internal/models"
)

const calendarEventColumns = `id, title, description, start_date, end_date, all_day, location, type, status, color, recurrence, creator_id, school_id, class_id, lesson_plan_id, created_at, updated_at`

// CalendarRepository persists calendar events and their participants.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a calendar repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// List returns calendar events overlapping the filter window.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	base := "FROM calendar_events"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.StartDate != nil && filter.EndDate != nil {
		// Overlap: the event touches the window, or fully spans it.
		where = append(where, fmt.Sprintf("(start_date <= $%d AND COALESCE(end_date, start_date) >= $%d)", len(args)+2, len(args)+1))
		args = append(args, *filter.StartDate, *filter.EndDate)
	} else if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("COALESCE(end_date, start_date) >= $%d", len(args)+1))
		args = append(args, *filter.StartDate)
	} else if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("start_date <= $%d", len(args)+1))
		args = append(args, *filter.EndDate)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		where = append(where, fmt.Sprintf("type = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(types))
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(*filter.Status))
	}
	if filter.CreatorID != "" {
		where = append(where, fmt.Sprintf("creator_id = $%d", len(args)+1))
		args = append(args, filter.CreatorID)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY start_date ASC LIMIT %d OFFSET %d",
		calendarEventColumns, base, whereClause, size, offset)
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list calendar events: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count calendar events: %w", err)
	}
	return events, total, nil
}

// GetByID fetches a calendar event without participants.
func (r *CalendarRepository) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	query := fmt.Sprintf("SELECT %s FROM calendar_events WHERE id = $1", calendarEventColumns)
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListParticipants returns the participant rows for an event.
func (r *CalendarRepository) ListParticipants(ctx context.Context, eventID string) ([]models.CalendarEventParticipant, error) {
	const query = `SELECT id, event_id, user_id, status, created_at, updated_at
FROM calendar_event_participants WHERE event_id = $1 ORDER BY created_at ASC`
	var participants []models.CalendarEventParticipant
	if err := r.db.SelectContext(ctx, &participants, query, eventID); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// Create inserts an event and its initial participant set in one transaction.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent, participantIDs []string) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO calendar_events (id, title, description, start_date, end_date, all_day, location, type, status, color, recurrence, creator_id, school_id, class_id, lesson_plan_id, created_at, updated_at)
VALUES (:id, :title, :description, :start_date, :end_date, :all_day, :location, :type, :status, :color, :recurrence, :creator_id, :school_id, :class_id, :lesson_plan_id, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, event); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create calendar event: %w", err)
	}
	if err := insertParticipants(ctx, tx, event.ID, participantIDs); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit calendar event: %w", err)
	}
	return nil
}

// Update modifies an event. When participantIDs is non-nil the whole
// participant set is replaced in the same transaction; an empty slice clears it.
func (r *CalendarRepository) Update(ctx context.Context, event *models.CalendarEvent, participantIDs *[]string) error {
	event.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `UPDATE calendar_events SET title = :title, description = :description, start_date = :start_date,
end_date = :end_date, all_day = :all_day, location = :location, type = :type, status = :status, color = :color,
recurrence = :recurrence, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, event); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update calendar event: %w", err)
	}
	if participantIDs != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM calendar_event_participants WHERE event_id = $1", event.ID); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("clear participants: %w", err)
		}
		if err := insertParticipants(ctx, tx, event.ID, *participantIDs); err != nil {
			tx.Rollback() //nolint:errcheck
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit calendar update: %w", err)
	}
	return nil
}

// Delete removes an event and its participants atomically.
func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM calendar_event_participants WHERE event_id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM calendar_events WHERE id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete calendar event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit calendar delete: %w", err)
	}
	return nil
}

// UpdateParticipantStatus records an invitee's RSVP. Returns sql.ErrNoRows
// semantics via RowsAffected when the participant row is absent.
func (r *CalendarRepository) UpdateParticipantStatus(ctx context.Context, eventID, userID string, status models.ParticipantStatus) (int64, error) {
	const query = `UPDATE calendar_event_participants SET status = $1, updated_at = $2 WHERE event_id = $3 AND user_id = $4`
	result, err := r.db.ExecContext(ctx, query, string(status), time.Now().UTC(), eventID, userID)
	if err != nil {
		return 0, fmt.Errorf("update participant status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("participant rows affected: %w", err)
	}
	return affected, nil
}

func insertParticipants(ctx context.Context, tx *sqlx.Tx, eventID string, userIDs []string) error {
	now := time.Now().UTC()
	for _, userID := range userIDs {
		participant := models.CalendarEventParticipant{
			ID:        uuid.NewString(),
			EventID:   eventID,
			UserID:    userID,
			Status:    models.ParticipantStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		const query = `INSERT INTO calendar_event_participants (id, event_id, user_id, status, created_at, updated_at)
VALUES (:id, :event_id, :user_id, :status, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, participant); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
	}
	return nil
}
