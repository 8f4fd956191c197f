package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/middleware"
	"github.com/innerview/innerview-api/internal/models"
	"github.com/innerview/innerview-api/internal/service"
)

type calendarServiceMock struct {
	captured       service.CalendarListRequest
	createdCreator string
}

func (m *calendarServiceMock) List(ctx context.Context, req service.CalendarListRequest) ([]models.CalendarEvent, *models.Pagination, error) {
	m.captured = req
	return []models.CalendarEvent{{ID: "evt-1", Title: "Reuniao RTI"}}, &models.Pagination{Page: req.Page, PageSize: req.PageSize, TotalCount: 1}, nil
}

func (m *calendarServiceMock) Get(ctx context.Context, id string) (*models.CalendarEvent, error) {
	return &models.CalendarEvent{ID: id}, nil
}

func (m *calendarServiceMock) Create(ctx context.Context, req dto.CreateEventRequest, creatorID string) (*models.CalendarEvent, error) {
	m.createdCreator = creatorID
	return &models.CalendarEvent{ID: "evt-1", Title: req.Title, CreatorID: creatorID}, nil
}

func (m *calendarServiceMock) Update(ctx context.Context, id string, req dto.UpdateEventRequest) (*models.CalendarEvent, error) {
	return &models.CalendarEvent{ID: id}, nil
}

func (m *calendarServiceMock) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *calendarServiceMock) RespondParticipant(ctx context.Context, eventID, userID string, req dto.UpdateParticipantStatusRequest) error {
	return nil
}

func TestCalendarHandlerListParsesWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &calendarServiceMock{}
	handler := NewCalendarHandler(mockSvc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/calendar-events?startDate=2026-03-01&endDate=2026-03-31&type=meeting,assessment&page=2&pageSize=10", nil)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.captured.StartDate)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), mockSvc.captured.StartDate.UTC())
	require.NotNil(t, mockSvc.captured.EndDate)
	require.Equal(t, []string{"meeting", "assessment"}, mockSvc.captured.Types)
	require.Equal(t, 2, mockSvc.captured.Page)
	require.Equal(t, 10, mockSvc.captured.PageSize)
}

func TestCalendarHandlerListRejectsInvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(&calendarServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/calendar-events?startDate=bad", nil)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarHandlerCreateRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(&calendarServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/calendar-events", nil)
	c.Request = req

	handler.Create(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCalendarHandlerCreateUsesCallerAsCreator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &calendarServiceMock{}
	handler := NewCalendarHandler(mockSvc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"title":"Reuniao RTI","startDate":"2026-03-01T10:00:00Z","type":"meeting"}`
	req, _ := http.NewRequest(http.MethodPost, "/calendar-events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-7", Role: models.RoleCoordinator})

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "user-7", mockSvc.createdCreator)
}
