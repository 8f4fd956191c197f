package models

import "time"

// EventType enumerates the kinds of calendar entries.
type EventType string

const (
	EventTypeMeeting      EventType = "meeting"
	EventTypeLesson       EventType = "lesson"
	EventTypeAssessment   EventType = "assessment"
	EventTypeIntervention EventType = "intervention"
	EventTypePersonal     EventType = "personal"
)

// EventStatus enumerates the lifecycle states of an event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// ParticipantStatus tracks an invitee's response.
type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusAccepted ParticipantStatus = "accepted"
	ParticipantStatusDeclined ParticipantStatus = "declined"
)

// CalendarEvent represents a school calendar entry.
type CalendarEvent struct {
	ID           string      `db:"id" json:"id"`
	Title        string      `db:"title" json:"title"`
	Description  *string     `db:"description" json:"description,omitempty"`
	StartDate    time.Time   `db:"start_date" json:"startDate"`
	EndDate      *time.Time  `db:"end_date" json:"endDate,omitempty"`
	AllDay       bool        `db:"all_day" json:"allDay"`
	Location     *string     `db:"location" json:"location,omitempty"`
	Type         EventType   `db:"type" json:"type"`
	Status       EventStatus `db:"status" json:"status"`
	Color        *string     `db:"color" json:"color,omitempty"`
	Recurrence   *string     `db:"recurrence" json:"recurrence,omitempty"`
	CreatorID    string      `db:"creator_id" json:"creatorId"`
	SchoolID     *string     `db:"school_id" json:"schoolId,omitempty"`
	ClassID      *string     `db:"class_id" json:"classId,omitempty"`
	LessonPlanID *string     `db:"lesson_plan_id" json:"lessonPlanId,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`

	Participants []CalendarEventParticipant `db:"-" json:"participants,omitempty"`
}

// CalendarEventParticipant links a user to an event invitation.
type CalendarEventParticipant struct {
	ID        string            `db:"id" json:"id"`
	EventID   string            `db:"event_id" json:"eventId"`
	UserID    string            `db:"user_id" json:"userId"`
	Status    ParticipantStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`
}

// CalendarFilter narrows down event listings. The date window matches any
// event overlapping [StartDate, EndDate].
type CalendarFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Types     []EventType
	Status    *EventStatus
	CreatorID string
	Page      int
	PageSize  int
}
