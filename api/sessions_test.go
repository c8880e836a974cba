package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kseleznev/stayfit/internal/domain"
)

type MockScheduleUseCase struct {
	mock.Mock
}

func (m *MockScheduleUseCase) GenerateSessions(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockScheduleUseCase) ListSessions(ctx context.Context, from, to time.Time, instructor string) ([]domain.SessionView, error) {
	args := m.Called(ctx, from, to, instructor)
	return args.Get(0).([]domain.SessionView), args.Error(1)
}

func (m *MockScheduleUseCase) ListTemplates(ctx context.Context) ([]domain.ClassTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ClassTemplate), args.Error(1)
}

func TestSessionHandler_listSessions(t *testing.T) {
	mockService := &MockScheduleUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/classes/sessions?from=2026-03-02&to=2026-03-09&instructor=Dana", nil)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	views := []domain.SessionView{
		{
			ID:             uuid.New(),
			TemplateID:     uuid.New(),
			TemplateName:   "Morning Yoga",
			Instructor:     "Dana",
			StartAt:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			Capacity:       10,
			SpotsRemaining: 4,
			Bookable:       true,
		},
	}
	mockService.On("ListSessions", c.Request.Context(), from, to, "Dana").Return(views, nil)

	handler.listSessions(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []sessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "Morning Yoga", response[0].Name)
	assert.Equal(t, 4, response[0].SpotsRemaining)
	assert.True(t, response[0].Bookable)
}

func TestSessionHandler_listSessions_badRange(t *testing.T) {
	handler := NewSessionHandler(&MockScheduleUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/classes/sessions?from=soon&to=2026-03-09", nil)

	handler.listSessions(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_generate(t *testing.T) {
	mockService := &MockScheduleUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(generateSessionsRequest{From: "2026-03-02", To: "2026-03-16"})
	c.Request = httptest.NewRequest("POST", "/v1/classes/sessions/generate", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	mockService.On("GenerateSessions", c.Request.Context(), from, to).Return(4, nil)

	handler.generate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"created": 4}`, w.Body.String())
}

func TestSessionHandler_listTemplates(t *testing.T) {
	mockService := &MockScheduleUseCase{}
	handler := NewSessionHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/classes/templates", nil)

	templates := []domain.ClassTemplate{
		{
			ID:         uuid.New(),
			Name:       "Morning Yoga",
			Instructor: "Dana",
			RecurDays:  []time.Weekday{time.Monday, time.Wednesday},
			StartTime:  "09:00",
			Active:     true,
		},
	}
	mockService.On("ListTemplates", c.Request.Context()).Return(templates, nil)

	handler.listTemplates(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []templateResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, []int{1, 3}, response[0].RecurDays)
}
