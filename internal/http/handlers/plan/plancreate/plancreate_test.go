package plancreate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rkonweb/pre-school-sub006/internal/billing"
	"github.com/rkonweb/pre-school-sub006/internal/models"
	"github.com/rkonweb/pre-school-sub006/internal/storage/repository"
)

// MockService реализует интерфейс plancreate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyPlan) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func validBody() models.DummyPlan {
	ten := 10
	return models.DummyPlan{
		Name:          "Premium School",
		Tier:          "premium",
		Price:         4999,
		Currency:      "USD",
		BillingPeriod: "monthly",
		MaxStudents:   500,
		MaxStaff:      50,
		MaxStorageGB:  100,
		AddonUserTiers: []models.DummyBand{
			{From: 1, To: &ten, PricePerUser: 20},
			{From: 11, To: nil, PricePerUser: 15},
		},
	}
}

func TestPlanCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание плана",
			requestBody: validBody(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummyPlan")).
					Return("11111111-1111-1111-1111-111111111111", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"11111111-1111-1111-1111-111111111111"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации",
			requestBody:    models.DummyPlan{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is a required field`,
		},
		{
			name:        "неизвестный тарифный уровень",
			requestBody: validBody(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return("", billing.ErrInvalidTierKind)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "slug уже занят",
			requestBody: validBody(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return("", repository.ErrSlugTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `plan slug already taken`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: validBody(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not create plan`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
