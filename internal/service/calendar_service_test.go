package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
)

type recordingInvalidator struct {
	calls int
	err   error
}

func (r *recordingInvalidator) InvalidateOverview(ctx context.Context) error {
	r.calls++
	return r.err
}

type mockCalendarRepo struct {
	events       map[string]*models.CalendarEvent
	participants map[string][]models.CalendarEventParticipant
	lastReplace  *[]string
	replaceSeen  bool
	affected     int64
	updateErr    error
	deleteErr    error
}

func newMockCalendarRepo() *mockCalendarRepo {
	return &mockCalendarRepo{
		events:       make(map[string]*models.CalendarEvent),
		participants: make(map[string][]models.CalendarEventParticipant),
	}
}

func (m *mockCalendarRepo) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	events := make([]models.CalendarEvent, 0, len(m.events))
	for _, event := range m.events {
		events = append(events, *event)
	}
	return events, len(events), nil
}

func (m *mockCalendarRepo) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *event
	return &copy, nil
}

func (m *mockCalendarRepo) ListParticipants(ctx context.Context, eventID string) ([]models.CalendarEventParticipant, error) {
	return m.participants[eventID], nil
}

func (m *mockCalendarRepo) Create(ctx context.Context, event *models.CalendarEvent, participantIDs []string) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	m.events[event.ID] = event
	m.setParticipants(event.ID, participantIDs)
	return nil
}

func (m *mockCalendarRepo) Update(ctx context.Context, event *models.CalendarEvent, participantIDs *[]string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.events[event.ID] = event
	m.replaceSeen = true
	m.lastReplace = participantIDs
	if participantIDs != nil {
		m.setParticipants(event.ID, *participantIDs)
	}
	return nil
}

func (m *mockCalendarRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.events, id)
	delete(m.participants, id)
	return nil
}

func (m *mockCalendarRepo) UpdateParticipantStatus(ctx context.Context, eventID, userID string, status models.ParticipantStatus) (int64, error) {
	return m.affected, nil
}

func (m *mockCalendarRepo) setParticipants(eventID string, userIDs []string) {
	rows := make([]models.CalendarEventParticipant, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, models.CalendarEventParticipant{
			ID:      uuid.NewString(),
			EventID: eventID,
			UserID:  userID,
			Status:  models.ParticipantStatusPending,
		})
	}
	m.participants[eventID] = rows
}

type mockUserLookup struct {
	existing map[string]bool
	err      error
}

func (m *mockUserLookup) ExistsByIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	found := make(map[string]bool, len(ids))
	for _, id := range ids {
		found[id] = m.existing[id]
	}
	return found, nil
}

func TestCalendarServiceCreateEndBeforeStart(t *testing.T) {
	svc := NewCalendarService(newMockCalendarRepo(), &mockUserLookup{}, validator.New(), zap.NewNop(), nil)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Title:     "Reuniao RTI",
		StartDate: start,
		EndDate:   &end,
		Type:      string(models.EventTypeMeeting),
	}, "creator-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCalendarServiceCreateUnknownParticipant(t *testing.T) {
	ghost := uuid.NewString()
	svc := NewCalendarService(newMockCalendarRepo(), &mockUserLookup{existing: map[string]bool{}}, validator.New(), zap.NewNop(), nil)

	_, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Title:          "Reuniao RTI",
		StartDate:      time.Now(),
		Type:           string(models.EventTypeMeeting),
		ParticipantIDs: []string{ghost},
	}, "creator-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCalendarServiceCreateAttachesParticipants(t *testing.T) {
	repo := newMockCalendarRepo()
	invalidator := &recordingInvalidator{}
	userA := uuid.NewString()
	userB := uuid.NewString()
	users := &mockUserLookup{existing: map[string]bool{userA: true, userB: true}}
	svc := NewCalendarService(repo, users, validator.New(), zap.NewNop(), invalidator)

	event, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Title:          "Aplicacao de rastreio",
		StartDate:      time.Now(),
		Type:           string(models.EventTypeAssessment),
		ParticipantIDs: []string{userA, userB},
	}, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusScheduled, event.Status)
	assert.Equal(t, "creator-1", event.CreatorID)
	require.Len(t, event.Participants, 2)
	assert.Equal(t, models.ParticipantStatusPending, event.Participants[0].Status)
	assert.Equal(t, 1, invalidator.calls)
}

func TestCalendarServiceUpdateNilParticipantsKeepsSet(t *testing.T) {
	repo := newMockCalendarRepo()
	userA := uuid.NewString()
	repo.events["evt-1"] = &models.CalendarEvent{ID: "evt-1", Title: "Old", StartDate: time.Now(), Status: models.EventStatusScheduled}
	repo.setParticipants("evt-1", []string{userA})
	svc := NewCalendarService(repo, &mockUserLookup{}, validator.New(), zap.NewNop(), nil)

	title := "New title"
	event, err := svc.Update(context.Background(), "evt-1", dto.UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.True(t, repo.replaceSeen)
	assert.Nil(t, repo.lastReplace)
	assert.Equal(t, "New title", event.Title)
	require.Len(t, event.Participants, 1)
	assert.Equal(t, userA, event.Participants[0].UserID)
}

func TestCalendarServiceUpdateEmptySliceClearsParticipants(t *testing.T) {
	repo := newMockCalendarRepo()
	repo.events["evt-1"] = &models.CalendarEvent{ID: "evt-1", Title: "Old", StartDate: time.Now(), Status: models.EventStatusScheduled}
	repo.setParticipants("evt-1", []string{uuid.NewString()})
	svc := NewCalendarService(repo, &mockUserLookup{}, validator.New(), zap.NewNop(), nil)

	empty := []string{}
	event, err := svc.Update(context.Background(), "evt-1", dto.UpdateEventRequest{ParticipantIDs: &empty})
	require.NoError(t, err)
	require.NotNil(t, repo.lastReplace)
	assert.Empty(t, *repo.lastReplace)
	assert.Empty(t, event.Participants)
}

func TestCalendarServiceUpdateEndBeforeStart(t *testing.T) {
	repo := newMockCalendarRepo()
	start := time.Now()
	repo.events["evt-1"] = &models.CalendarEvent{ID: "evt-1", Title: "Old", StartDate: start, Status: models.EventStatusScheduled}
	svc := NewCalendarService(repo, &mockUserLookup{}, validator.New(), zap.NewNop(), nil)

	end := start.Add(-time.Hour)
	_, err := svc.Update(context.Background(), "evt-1", dto.UpdateEventRequest{EndDate: &end})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCalendarServiceGetNotFound(t *testing.T) {
	svc := NewCalendarService(newMockCalendarRepo(), &mockUserLookup{}, validator.New(), zap.NewNop(), nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCalendarServiceRespondUnknownParticipant(t *testing.T) {
	repo := newMockCalendarRepo()
	repo.affected = 0
	svc := NewCalendarService(repo, &mockUserLookup{}, validator.New(), zap.NewNop(), nil)

	err := svc.RespondParticipant(context.Background(), "evt-1", "user-1", dto.UpdateParticipantStatusRequest{Status: string(models.ParticipantStatusAccepted)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCalendarServiceRespondAccepted(t *testing.T) {
	repo := newMockCalendarRepo()
	repo.affected = 1
	svc := NewCalendarService(repo, &mockUserLookup{}, validator.New(), zap.NewNop(), nil)

	err := svc.RespondParticipant(context.Background(), "evt-1", "user-1", dto.UpdateParticipantStatusRequest{Status: string(models.ParticipantStatusAccepted)})
	require.NoError(t, err)
}
