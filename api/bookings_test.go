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

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateStayBooking(ctx context.Context, userID, listingID uuid.UUID, start, end time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, userID, listingID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CreateSessionBooking(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func authedContext(t *testing.T, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", userID)
	return c, w
}

func TestBookingHandler_createStay(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	userID, listingID := uuid.New(), uuid.New()
	c, w := authedContext(t, userID)

	body, _ := json.Marshal(createStayBookingRequest{
		ListingID: listingID.String(),
		StartDate: "2026-03-10",
		EndDate:   "2026-03-13",
	})
	c.Request = httptest.NewRequest("POST", "/v1/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       domain.BookingKindStay,
		ResourceID: listingID,
		StartAt:    start,
		EndAt:      end,
		TotalCents: 36000,
		Status:     domain.BookingStatusConfirmed,
	}
	mockService.On("CreateStayBooking", c.Request.Context(), userID, listingID, start, end).Return(booking, nil)

	handler.createStay(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, booking.ID.String(), response.ID)
	assert.Equal(t, "stay", response.Kind)
	assert.Equal(t, int64(36000), response.TotalCents)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_createStay_conflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	userID, listingID := uuid.New(), uuid.New()
	c, w := authedContext(t, userID)

	body, _ := json.Marshal(createStayBookingRequest{
		ListingID: listingID.String(),
		StartDate: "2026-03-10",
		EndDate:   "2026-03-13",
	})
	c.Request = httptest.NewRequest("POST", "/v1/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateStayBooking", mock.Anything, userID, listingID, mock.Anything, mock.Anything).
		Return(nil, domain.ErrCapacityExceeded)

	handler.createStay(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_createStay_unauthenticated(t *testing.T) {
	handler := NewBookingHandler(&MockBookingUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/v1/bookings", bytes.NewReader([]byte("{}")))

	handler.createStay(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_createSession(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	userID, sessionID := uuid.New(), uuid.New()
	c, w := authedContext(t, userID)

	body, _ := json.Marshal(createSessionBookingRequest{SessionID: sessionID.String()})
	c.Request = httptest.NewRequest("POST", "/v1/session-bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	booking := &domain.Booking{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       domain.BookingKindSession,
		ResourceID: sessionID,
		TotalCents: 1500,
		Status:     domain.BookingStatusConfirmed,
	}
	mockService.On("CreateSessionBooking", c.Request.Context(), userID, sessionID).Return(booking, nil)

	handler.createSession(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_createSession_full(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	userID, sessionID := uuid.New(), uuid.New()
	c, w := authedContext(t, userID)

	body, _ := json.Marshal(createSessionBookingRequest{SessionID: sessionID.String()})
	c.Request = httptest.NewRequest("POST", "/v1/session-bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateSessionBooking", mock.Anything, userID, sessionID).Return(nil, domain.ErrSessionFull)

	handler.createSession(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	userID, bookingID := uuid.New(), uuid.New()
	c, w := authedContext(t, userID)
	c.Request = httptest.NewRequest("PATCH", "/v1/bookings/"+bookingID.String()+"/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: bookingID.String()}}

	booking := &domain.Booking{
		ID:     bookingID,
		UserID: userID,
		Kind:   domain.BookingKindStay,
		Status: domain.BookingStatusCancelled,
	}
	mockService.On("Cancel", c.Request.Context(), userID, bookingID).Return(booking, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)
}

func TestBookingHandler_cancel_forbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	userID, bookingID := uuid.New(), uuid.New()
	c, w := authedContext(t, userID)
	c.Request = httptest.NewRequest("PATCH", "/v1/bookings/"+bookingID.String()+"/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: bookingID.String()}}

	mockService.On("Cancel", mock.Anything, userID, bookingID).Return(nil, domain.ErrForbidden)

	handler.cancel(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingHandler_listMine(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	userID := uuid.New()
	c, w := authedContext(t, userID)
	c.Request = httptest.NewRequest("GET", "/v1/bookings/me", nil)

	bookings := []domain.Booking{
		{ID: uuid.New(), UserID: userID, Kind: domain.BookingKindStay, Status: domain.BookingStatusConfirmed},
		{ID: uuid.New(), UserID: userID, Kind: domain.BookingKindSession, Status: domain.BookingStatusCancelled},
	}
	mockService.On("ListMine", c.Request.Context(), userID).Return(bookings, nil)

	handler.listMine(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)
}
