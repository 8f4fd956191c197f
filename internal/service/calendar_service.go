package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
)

type calendarRepository interface {
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error)
	GetByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	ListParticipants(ctx context.Context, eventID string) ([]models.CalendarEventParticipant, error)
	Create(ctx context.Context, event *models.CalendarEvent, participantIDs []string) error
	Update(ctx context.Context, event *models.CalendarEvent, participantIDs *[]string) error
	Delete(ctx context.Context, id string) error
	UpdateParticipantStatus(ctx context.Context, eventID, userID string, status models.ParticipantStatus) (int64, error)
}

type participantLookup interface {
	ExistsByIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

// CalendarService manages calendar events and participant invitations.
type CalendarService struct {
	repo        calendarRepository
	users       participantLookup
	validator   *validator.Validate
	logger      *zap.Logger
	invalidator overviewInvalidator
}

// NewCalendarService constructs the service.
func NewCalendarService(repo calendarRepository, users participantLookup, validate *validator.Validate, logger *zap.Logger, invalidator overviewInvalidator) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CalendarService{repo: repo, users: users, validator: validate, logger: logger, invalidator: invalidator}
	registerEnumValidation(svc.validator, "event_type", string(models.EventTypeMeeting), string(models.EventTypeLesson), string(models.EventTypeAssessment), string(models.EventTypeIntervention), string(models.EventTypePersonal))
	registerEnumValidation(svc.validator, "event_status", string(models.EventStatusScheduled), string(models.EventStatusCancelled), string(models.EventStatusCompleted))
	registerEnumValidation(svc.validator, "participant_status", string(models.ParticipantStatusAccepted), string(models.ParticipantStatusDeclined))
	return svc
}

// CalendarListRequest describes filters for listing events.
type CalendarListRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	Types     []string
	Status    string
	CreatorID string
	Page      int
	PageSize  int
}

// List returns calendar events overlapping the requested window.
func (s *CalendarService) List(ctx context.Context, req CalendarListRequest) ([]models.CalendarEvent, *models.Pagination, error) {
	filter := models.CalendarFilter{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatorID: req.CreatorID,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	for _, t := range req.Types {
		filter.Types = append(filter.Types, models.EventType(t))
	}
	if req.Status != "" {
		status := models.EventStatus(req.Status)
		filter.Status = &status
	}
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendar events")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return events, pagination, nil
}

// Get returns a calendar event with its participants.
func (s *CalendarService) Get(ctx context.Context, id string) (*models.CalendarEvent, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get event")
	}
	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participants")
	}
	event.Participants = participants
	return event, nil
}

// Create registers a new event, optionally inviting participants.
func (s *CalendarService) Create(ctx context.Context, req dto.CreateEventRequest, creatorID string) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be on or after startDate")
	}
	if err := s.ensureParticipantsExist(ctx, req.ParticipantIDs); err != nil {
		return nil, err
	}
	event := &models.CalendarEvent{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AllDay:       req.AllDay,
		Location:     req.Location,
		Type:         models.EventType(req.Type),
		Status:       models.EventStatusScheduled,
		Color:        req.Color,
		Recurrence:   req.Recurrence,
		CreatorID:    creatorID,
		SchoolID:     req.SchoolID,
		ClassID:      req.ClassID,
		LessonPlanID: req.LessonPlanID,
	}
	if err := s.repo.Create(ctx, event, req.ParticipantIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	if len(req.ParticipantIDs) > 0 {
		participants, err := s.repo.ListParticipants(ctx, event.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participants")
		}
		event.Participants = participants
	}
	s.invalidateOverview(ctx)
	return event, nil
}

// Update applies a partial update. A non-nil ParticipantIDs replaces the whole
// participant set; an empty slice clears it and the response reflects that.
func (s *CalendarService) Update(ctx context.Context, id string, req dto.UpdateEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = req.EndDate
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.Type != nil {
		event.Type = models.EventType(*req.Type)
	}
	if req.Status != nil {
		event.Status = models.EventStatus(*req.Status)
	}
	if req.Color != nil {
		event.Color = req.Color
	}
	if req.Recurrence != nil {
		event.Recurrence = req.Recurrence
	}
	if event.EndDate != nil && event.EndDate.Before(event.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be on or after startDate")
	}
	var replace *[]string
	if req.ParticipantIDs != nil {
		ids := *req.ParticipantIDs
		if err := s.ensureParticipantsExist(ctx, ids); err != nil {
			return nil, err
		}
		replace = &ids
	}
	if err := s.repo.Update(ctx, event, replace); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participants")
	}
	event.Participants = participants
	return event, nil
}

// Delete removes an event together with its participants.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.invalidateOverview(ctx)
	return nil
}

// RespondParticipant records an invitee's RSVP for an event.
func (s *CalendarService) RespondParticipant(ctx context.Context, eventID, userID string, req dto.UpdateParticipantStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid participant status")
	}
	affected, err := s.repo.UpdateParticipantStatus(ctx, eventID, userID, models.ParticipantStatus(req.Status))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update participant status")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "participant not found for event")
	}
	return nil
}

func (s *CalendarService) ensureParticipantsExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 || s.users == nil {
		return nil
	}
	found, err := s.users.ExistsByIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify participants")
	}
	for _, id := range ids {
		if !found[id] {
			return appErrors.Clone(appErrors.ErrNotFound, "participant user not found: "+id)
		}
	}
	return nil
}

func (s *CalendarService) invalidateOverview(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateOverview(ctx); err != nil {
		s.logger.Warn("failed to invalidate overview cache", zap.Error(err))
	}
}
