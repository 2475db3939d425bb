package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"address-resolver/internal/models"
	"address-resolver/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSessionService is a mock implementation of the SessionService interface
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Open(mode models.DisplayMode) service.SessionView {
	args := m.Called(mode)
	return args.Get(0).(service.SessionView)
}

func (m *MockSessionService) View(id string) (service.SessionView, error) {
	args := m.Called(id)
	return args.Get(0).(service.SessionView), args.Error(1)
}

func (m *MockSessionService) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockSessionService) Select(id string, place *models.PlaceResult) (models.Outputs, error) {
	args := m.Called(id, place)
	return args.Get(0).(models.Outputs), args.Error(1)
}

func (m *MockSessionService) SelectAddress(ctx context.Context, id, query string) (models.Outputs, error) {
	args := m.Called(ctx, id, query)
	return args.Get(0).(models.Outputs), args.Error(1)
}

func (m *MockSessionService) Sync(ctx context.Context, id, coordinates string) (models.Outputs, error) {
	args := m.Called(ctx, id, coordinates)
	return args.Get(0).(models.Outputs), args.Error(1)
}

func (m *MockSessionService) SetDisplayMode(id string, mode models.DisplayMode) (models.Outputs, error) {
	args := m.Called(id, mode)
	return args.Get(0).(models.Outputs), args.Error(1)
}

const sessionID = "5f0c6c3e-9a57-4d52-8a4c-1f1f3d1c2b7a"

var melbourneOutputs = models.Outputs{
	FullAddress:         "200 Spencer St, Melbourne VIC 3000, Australia",
	Label:               "Melbourne, VIC 3000",
	State:               "VIC",
	Coordinates:         "-37.8136,144.9631",
	ClosestDepot:        map[string]string{"BFG": "-38.0972,145.4951"},
	NearestRailTerminal: "-37.8,144.9",
}

// jsonValue normalizes v to what encoding/json produces when decoding into interface{}
func jsonValue(t *testing.T, v interface{}) interface{} {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: sessionID}}
	return c, w
}

func TestSessionHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockMode       models.DisplayMode
		expectCall     bool
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "default mode",
			body:           "",
			mockMode:       "",
			expectCall:     true,
			expectedStatus: http.StatusCreated,
			expectedBody:   service.SessionView{ID: sessionID, DisplayMode: models.DisplayDefault, Status: "idle"},
		},
		{
			name:           "header mode",
			body:           `{"display_mode":"Header"}`,
			mockMode:       models.DisplayHeader,
			expectCall:     true,
			expectedStatus: http.StatusCreated,
			expectedBody:   service.SessionView{ID: sessionID, DisplayMode: models.DisplayHeader, Status: "idle"},
		},
		{
			name:           "unknown mode",
			body:           `{"display_mode":"Compact"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid display mode"},
		},
		{
			name:           "malformed body",
			body:           `{"display_mode":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockSessionService)
			handler := NewSessionHandler(mockSvc)

			if tt.expectCall {
				view, _ := tt.expectedBody.(service.SessionView)
				mockSvc.On("Open", tt.mockMode).Return(view)
			}

			c, w := newTestContext(http.MethodPost, "/sessions", tt.body)

			// Execute
			handler.Create(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var actualBody interface{}
			err := json.Unmarshal(w.Body.Bytes(), &actualBody)
			assert.NoError(t, err)
			assert.Equal(t, jsonValue(t, tt.expectedBody), actualBody)

			mockSvc.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_SyncCoordinates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		coordinates    string
		mockError      error
		expectCall     bool
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "missing coordinates",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "missing required field 'coordinates'"},
		},
		{
			name:           "resolved",
			body:           `{"coordinates":"-37.8136,144.9631"}`,
			coordinates:    "-37.8136,144.9631",
			expectCall:     true,
			expectedStatus: http.StatusOK,
			expectedBody:   melbourneOutputs,
		},
		{
			name:           "empty coordinates reset",
			body:           `{"coordinates":""}`,
			coordinates:    "",
			expectCall:     true,
			expectedStatus: http.StatusOK,
			expectedBody:   melbourneOutputs,
		},
		{
			name:           "invalid coordinates",
			body:           `{"coordinates":"north"}`,
			coordinates:    "north",
			mockError:      fmt.Errorf("service: %q: %w", "north", service.ErrInvalidCoordinates),
			expectCall:     true,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   gin.H{"error": "invalid coordinates"},
		},
		{
			name:           "superseded",
			body:           `{"coordinates":"-37.8136,144.9631"}`,
			coordinates:    "-37.8136,144.9631",
			mockError:      fmt.Errorf("service: reverse geocode: %w", service.ErrSuperseded),
			expectCall:     true,
			expectedStatus: http.StatusConflict,
			expectedBody:   gin.H{"error": "superseded by a newer request"},
		},
		{
			name:           "no address",
			body:           `{"coordinates":"-37.8136,144.9631"}`,
			coordinates:    "-37.8136,144.9631",
			mockError:      fmt.Errorf("service: reverse geocode: %w", service.ErrAddressNotFound),
			expectCall:     true,
			expectedStatus: http.StatusNotFound,
			expectedBody:   gin.H{"error": "no address found near the specified coordinates"},
		},
		{
			name:           "unknown session",
			body:           `{"coordinates":"-37.8136,144.9631"}`,
			coordinates:    "-37.8136,144.9631",
			mockError:      service.ErrSessionNotFound,
			expectCall:     true,
			expectedStatus: http.StatusNotFound,
			expectedBody:   gin.H{"error": "session not found"},
		},
		{
			name:           "provider error",
			body:           `{"coordinates":"-37.8136,144.9631"}`,
			coordinates:    "-37.8136,144.9631",
			mockError:      assert.AnError,
			expectCall:     true,
			expectedStatus: http.StatusBadGateway,
			expectedBody:   gin.H{"error": "geocoding provider error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockSessionService)
			handler := NewSessionHandler(mockSvc)

			if tt.expectCall {
				mockSvc.On("Sync", mock.Anything, sessionID, tt.coordinates).Return(melbourneOutputs, tt.mockError)
			}

			c, w := newTestContext(http.MethodPut, "/sessions/"+sessionID+"/coordinates", tt.body)

			// Execute
			handler.SyncCoordinates(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var actualBody interface{}
			err := json.Unmarshal(w.Body.Bytes(), &actualBody)
			assert.NoError(t, err)
			assert.Equal(t, jsonValue(t, tt.expectedBody), actualBody)

			mockSvc.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_Select(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("null clears", func(t *testing.T) {
		mockSvc := new(MockSessionService)
		mockSvc.On("Select", sessionID, (*models.PlaceResult)(nil)).Return(models.Outputs{ClosestDepot: map[string]string{}}, nil)
		c, w := newTestContext(http.MethodPost, "/sessions/"+sessionID+"/selection", "null")

		NewSessionHandler(mockSvc).Select(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("place result", func(t *testing.T) {
		mockSvc := new(MockSessionService)
		mockSvc.On("Select", sessionID, mock.MatchedBy(func(p *models.PlaceResult) bool {
			return p != nil &&
				p.FormattedAddress == "200 Spencer St, Melbourne VIC 3000, Australia" &&
				len(p.Components) == 1 &&
				p.Components[0].ShortName == "VIC" &&
				p.Location != nil && p.Location.Lat == -37.8136
		})).Return(melbourneOutputs, nil)
		body := `{
			"address_components": [{"types": ["administrative_area_level_1", "political"], "long_name": "Victoria", "short_name": "VIC"}],
			"formatted_address": "200 Spencer St, Melbourne VIC 3000, Australia",
			"location": {"lat": -37.8136, "lng": 144.9631}
		}`
		c, w := newTestContext(http.MethodPost, "/sessions/"+sessionID+"/selection", body)

		NewSessionHandler(mockSvc).Select(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var actualBody interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actualBody))
		assert.Equal(t, jsonValue(t, melbourneOutputs), actualBody)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		mockSvc := new(MockSessionService)
		c, w := newTestContext(http.MethodPost, "/sessions/"+sessionID+"/selection", `{"address_components": 3}`)

		NewSessionHandler(mockSvc).Select(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
	})
}

func TestSessionHandler_SelectAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockError      error
		expectCall     bool
		expectedStatus int
	}{
		{
			name:           "missing address",
			body:           `{"address":""}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "resolved",
			body:           `{"address":"200 Spencer St Melbourne"}`,
			expectCall:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "lookup not configured",
			body:           `{"address":"200 Spencer St Melbourne"}`,
			mockError:      service.ErrForwardUnavailable,
			expectCall:     true,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockSessionService)
			if tt.expectCall {
				mockSvc.On("SelectAddress", mock.Anything, sessionID, "200 Spencer St Melbourne").Return(melbourneOutputs, tt.mockError)
			}
			c, w := newTestContext(http.MethodPost, "/sessions/"+sessionID+"/address", tt.body)

			// Execute
			NewSessionHandler(mockSvc).SelectAddress(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_SetDisplayMode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockSessionService)
	mockSvc.On("SetDisplayMode", sessionID, models.DisplayFull).Return(melbourneOutputs, nil)
	handler := NewSessionHandler(mockSvc)

	c, w := newTestContext(http.MethodPut, "/sessions/"+sessionID+"/display-mode", `{"display_mode":"Full"}`)
	handler.SetDisplayMode(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodPut, "/sessions/"+sessionID+"/display-mode", `{"display_mode":""}`)
	handler.SetDisplayMode(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockSvc.AssertExpectations(t)
}

func TestSessionHandler_GetAndDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	view := service.SessionView{ID: sessionID, DisplayMode: models.DisplayDefault, Status: "resolved", Outputs: melbourneOutputs}

	mockSvc := new(MockSessionService)
	mockSvc.On("View", sessionID).Return(view, nil).Once()
	mockSvc.On("Delete", sessionID).Return(nil).Once()
	mockSvc.On("View", sessionID).Return(service.SessionView{}, service.ErrSessionNotFound).Once()
	handler := NewSessionHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/sessions/"+sessionID, "")
	handler.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
	var actualBody interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actualBody))
	assert.Equal(t, jsonValue(t, view), actualBody)

	c, w = newTestContext(http.MethodDelete, "/sessions/"+sessionID, "")
	handler.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())

	c, w = newTestContext(http.MethodGet, "/sessions/"+sessionID, "")
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	mockSvc.AssertExpectations(t)
}
