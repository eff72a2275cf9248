package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brewbox/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMachineHandler_Menu(t *testing.T) {
	mockService := new(MockMachineService)
	handler := NewMachineHandler(mockService, zerolog.Nop())

	entries := []model.MenuEntry{
		{Product: "Cappuccino", Size: "Large", Price: "$5.00", PriceCents: 500},
		{Product: "Espresso", Size: "Small", Price: "$2.50", PriceCents: 250},
	}
	mockService.On("ListProducts", mock.Anything).Return(entries)

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	w := httptest.NewRecorder()

	handler.Menu(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []model.MenuEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, entries, got)
	mockService.AssertExpectations(t)
}

func TestMachineHandler_Availability(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockReturn     *model.Availability
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:  "Available",
			query: "?product=Black&size=Small",
			mockReturn: &model.Availability{
				Product: "Black", Size: "Small", Available: true,
			},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Unknown size",
			query:          "?product=Black&size=Huge",
			mockError:      model.NewDomainError(model.ErrCodeInvalidSelection, "unknown size"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Missing parameters",
			query:          "?product=Black",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMachineService)
			handler := NewMachineHandler(mockService, zerolog.Nop())

			if tt.expectService {
				mockService.On("CheckAvailability", mock.Anything, "Black", mock.AnythingOfType("string")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/menu/availability"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.Availability(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestMachineHandler_Inventory(t *testing.T) {
	mockService := new(MockMachineService)
	handler := NewMachineHandler(mockService, zerolog.Nop())

	report := model.InventoryReport{Resources: []model.InventoryItem{
		{Kind: model.Milk, Name: "Milk", Unit: "ml", Quantity: 8000},
		{Kind: model.SugarPacket, Name: "Sugar Packets", Unit: "packets", Quantity: 100},
	}}
	mockService.On("InventoryReport", mock.Anything).Return(report)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	w := httptest.NewRecorder()

	handler.Inventory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got model.InventoryReport
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, report, got)
}

func TestMachineHandler_Refill(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		mockKind       model.ResourceKind
		mockAmount     int64
		mockReturn     int64
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodPost,
			body:           `{"resource":"water","amount":250}`,
			mockKind:       model.Water,
			mockAmount:     250,
			mockReturn:     5250,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Display name accepted",
			method:         http.MethodPost,
			body:           `{"resource":"Sugar Packets","amount":10}`,
			mockKind:       model.SugarPacket,
			mockAmount:     10,
			mockReturn:     110,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Negative amount",
			method:         http.MethodPost,
			body:           `{"resource":"water","amount":-5}`,
			mockKind:       model.Water,
			mockAmount:     -5,
			mockError:      model.NewDomainError(model.ErrCodeInvalidInput, "refill amount for Water must not be negative"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Unknown resource",
			method:         http.MethodPost,
			body:           `{"resource":"cream","amount":5}`,
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Invalid JSON",
			method:         http.MethodPost,
			body:           `{"resource":`,
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMachineService)
			handler := NewMachineHandler(mockService, zerolog.Nop())

			if tt.expectService {
				mockService.On("Refill", mock.Anything, tt.mockKind, tt.mockAmount).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, "/api/inventory/refill", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Refill(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp model.RefillResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.mockKind, resp.Resource)
				assert.Equal(t, tt.mockReturn, resp.Quantity)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestMachineHandler_Maintenance(t *testing.T) {
	mockService := new(MockMachineService)
	handler := NewMachineHandler(mockService, zerolog.Nop())

	status := model.MaintenanceStatus{
		Operational:  false,
		AnyAvailable: true,
		Shortages:    []model.ResourceKind{model.Milk},
	}
	mockService.On("MaintenanceStatus", mock.Anything).Return(status)

	req := httptest.NewRequest(http.MethodGet, "/api/maintenance", nil)
	w := httptest.NewRecorder()

	handler.Maintenance(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got model.MaintenanceStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, status, got)
}
