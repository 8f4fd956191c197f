package dto

import "time"

// CreateEventRequest describes the calendar event creation payload.
type CreateEventRequest struct {
	Title          string     `json:"title" validate:"required"`
	Description    *string    `json:"description"`
	StartDate      time.Time  `json:"startDate" validate:"required"`
	EndDate        *time.Time `json:"endDate"`
	AllDay         bool       `json:"allDay"`
	Location       *string    `json:"location"`
	Type           string     `json:"type" validate:"required,event_type"`
	Color          *string    `json:"color"`
	Recurrence     *string    `json:"recurrence"`
	SchoolID       *string    `json:"schoolId" validate:"omitempty,uuid4"`
	ClassID        *string    `json:"classId" validate:"omitempty,uuid4"`
	LessonPlanID   *string    `json:"lessonPlanId" validate:"omitempty,uuid4"`
	ParticipantIDs []string   `json:"participantIds" validate:"omitempty,dive,uuid4"`
}

// UpdateEventRequest describes a partial event update. Nil fields are left
// untouched; a non-nil ParticipantIDs slice (including an empty one) replaces
// the whole participant set.
type UpdateEventRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	AllDay         *bool      `json:"allDay"`
	Location       *string    `json:"location"`
	Type           *string    `json:"type" validate:"omitempty,event_type"`
	Status         *string    `json:"status" validate:"omitempty,event_status"`
	Color          *string    `json:"color"`
	Recurrence     *string    `json:"recurrence"`
	ParticipantIDs *[]string  `json:"participantIds" validate:"omitempty,dive,uuid4"`
}

// UpdateParticipantStatusRequest carries an invitee's RSVP.
type UpdateParticipantStatusRequest struct {
	Status string `json:"status" validate:"required,participant_status"`
}
