package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/Domenick1991/transitops/internal/service/shifts"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockShiftUseCase struct {
	mock.Mock
}

func (m *MockShiftUseCase) AssignDriver(ctx context.Context, input shifts.AssignInput) (int64, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShiftUseCase) UnassignDriver(ctx context.Context, input shifts.UnassignInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockShiftUseCase) DriverRoster(ctx context.Context, date time.Time, shift domain.Shift) ([]shifts.DriverRosterEntry, error) {
	args := m.Called(ctx, date, shift)
	return args.Get(0).([]shifts.DriverRosterEntry), args.Error(1)
}

func (m *MockShiftUseCase) VehicleRoster(ctx context.Context, date time.Time, shift domain.Shift) ([]shifts.VehicleRosterEntry, error) {
	args := m.Called(ctx, date, shift)
	return args.Get(0).([]shifts.VehicleRosterEntry), args.Error(1)
}

func (m *MockShiftUseCase) History(ctx context.Context, date *time.Time, shift *domain.Shift) ([]domain.AssignmentHistory, error) {
	args := m.Called(ctx, date, shift)
	return args.Get(0).([]domain.AssignmentHistory), args.Error(1)
}

func TestAssignmentHandler_assign(t *testing.T) {
	mockService := &MockShiftUseCase{}
	handler := NewAssignmentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := shifts.AssignInput{DriverID: 1, VehicleID: 2, Date: "2024-06-01", Shift: "morning"}
	body, _ := json.Marshal(map[string]any{
		"driverId": 1, "vehicleId": 2, "date": "2024-06-01", "shift": "morning",
	})
	c.Request = httptest.NewRequest("POST", "/assignments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("AssignDriver", c.Request.Context(), input).Return(int64(12), nil)

	handler.assign(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, true, response["ok"])
	assert.Equal(t, float64(12), response["assignmentId"])

	mockService.AssertExpectations(t)
}

func TestAssignmentHandler_assign_VehicleNotFound(t *testing.T) {
	mockService := &MockShiftUseCase{}
	handler := NewAssignmentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]any{
		"driverId": 1, "vehicleId": 99, "date": "2024-06-01", "shift": "morning",
	})
	c.Request = httptest.NewRequest("POST", "/assignments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("AssignDriver", c.Request.Context(), mock.Anything).Return(int64(0), domain.ErrNotFound)

	handler.assign(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentHandler_assign_VehicleInMaintenance(t *testing.T) {
	mockService := &MockShiftUseCase{}
	handler := NewAssignmentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]any{
		"driverId": 1, "vehicleId": 2, "date": "2024-06-01", "shift": "morning",
	})
	c.Request = httptest.NewRequest("POST", "/assignments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("AssignDriver", c.Request.Context(), mock.Anything).Return(int64(0), domain.ErrVehicleUnavailable)

	handler.assign(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignmentHandler_unassign(t *testing.T) {
	mockService := &MockShiftUseCase{}
	handler := NewAssignmentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := shifts.UnassignInput{DriverID: 1, Date: "2024-06-01", Shift: "morning"}
	body, _ := json.Marshal(map[string]any{
		"driverId": 1, "date": "2024-06-01", "shift": "morning",
	})
	c.Request = httptest.NewRequest("POST", "/assignments/unassign", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("UnassignDriver", c.Request.Context(), input).Return(nil)

	handler.unassign(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, true, response["ok"])

	mockService.AssertExpectations(t)
}

func TestAssignmentHandler_history(t *testing.T) {
	mockService := &MockShiftUseCase{}
	handler := NewAssignmentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/assignments/history?date=2024-06-01&shift=morning", nil)

	date, _ := domain.ParseDate("2024-06-01")
	prevVehicle := int64(5)
	changedAt := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	rows := []domain.AssignmentHistory{
		{
			ID:            2,
			AssignDate:    date,
			Shift:         domain.ShiftMorning,
			Action:        domain.HistoryActionReassign,
			DriverID:      1,
			VehicleID:     6,
			PrevVehicleID: &prevVehicle,
			Note:          "assigned via shift board",
			ChangedAt:     changedAt,
		},
	}

	mockService.On("History", c.Request.Context(), mock.Anything, mock.Anything).Return(rows, nil)

	handler.history(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []historyResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "2024-06-01", response[0].AssignDate)
	assert.Equal(t, "REASSIGN", response[0].Action)
	assert.Equal(t, &prevVehicle, response[0].PrevVehicleID)
	assert.Equal(t, "2024-06-01T08:30:00Z", response[0].ChangedAt)
}

func TestAssignmentHandler_history_BadDate(t *testing.T) {
	mockService := &MockShiftUseCase{}
	handler := NewAssignmentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/assignments/history?date=junk", nil)

	handler.history(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "History")
}
