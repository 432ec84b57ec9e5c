package deduct

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tudai-mobility/monopatines/internal/models"
)

// MockService реализует интерфейс Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Deduct(ctx context.Context, id int64, amount float64) (float64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(float64), args.Error(1)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		urlID      string
		body       string
		mockResult float64
		mockErr    error
		mockCalled bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "успешное списание",
			urlID:      "1",
			body:       `{"amount": 30}`,
			mockResult: 70,
			mockCalled: true,
			wantStatus: http.StatusOK,
			wantBody:   `"balance":70`,
		},
		{
			name:       "некорректный id",
			urlID:      "abc",
			body:       `{"amount": 30}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "failed to decode id from url",
		},
		{
			name:       "битый JSON",
			urlID:      "1",
			body:       `{"amount":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid request body",
		},
		{
			name:       "отрицательная сумма не проходит валидацию",
			urlID:      "1",
			body:       `{"amount": -5}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "field Amount",
		},
		{
			name:       "недостаточно средств",
			urlID:      "1",
			body:       `{"amount": 30}`,
			mockErr:    models.ErrInsufficientBalance,
			mockCalled: true,
			wantStatus: http.StatusBadRequest,
			wantBody:   "insufficient balance",
		},
		{
			name:       "аннулированный счёт",
			urlID:      "1",
			body:       `{"amount": 30}`,
			mockErr:    models.ErrAccountInactive,
			mockCalled: true,
			wantStatus: http.StatusBadRequest,
			wantBody:   "account is inactive",
		},
		{
			name:       "счёт не найден",
			urlID:      "999",
			body:       `{"amount": 30}`,
			mockErr:    models.ErrAccountNotFound,
			mockCalled: true,
			wantStatus: http.StatusNotFound,
			wantBody:   "account not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			if tt.mockCalled {
				service.On("Deduct", mock.Anything, mock.AnythingOfType("int64"), mock.AnythingOfType("float64")).
					Return(tt.mockResult, tt.mockErr)
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
			handler := New(logger, service)

			req := httptest.NewRequest(http.MethodPost, "/accounts/"+tt.urlID+"/deduct",
				bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			service.AssertExpectations(t)
		})
	}
}
