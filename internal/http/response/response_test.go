package response

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudai-mobility/monopatines/internal/models"
)

func TestError_BodyShape(t *testing.T) {
	before := time.Now().UTC()
	body := Error(http.StatusNotFound, "account not found")

	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "Not Found", body.Error)
	assert.Equal(t, "account not found", body.Message)
	assert.False(t, body.Timestamp.Before(before))
	assert.False(t, body.Timestamp.After(time.Now().UTC()))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "счёт не найден", err: models.ErrAccountNotFound, want: http.StatusNotFound},
		{name: "дубликат счёта", err: models.ErrAccountAlreadyExists, want: http.StatusConflict},
		{name: "дубликат связи", err: models.ErrAssociationAlreadyExists, want: http.StatusConflict},
		{name: "аннулированный счёт", err: models.ErrAccountInactive, want: http.StatusBadRequest},
		{name: "недостаточно средств", err: models.ErrInsufficientBalance, want: http.StatusBadRequest},
		{name: "неизвестная роль", err: models.ErrUnknownRole, want: http.StatusBadRequest},
		{name: "неверные учётные данные", err: models.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "обёрнутая ошибка сохраняет статус", err: fmt.Errorf("op: %w", models.ErrUserNotFound), want: http.StatusNotFound},
		{name: "неизвестная ошибка", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		fallback    string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "известная ошибка отдаёт свой текст",
			err:         fmt.Errorf("op: %w", models.ErrInsufficientBalance),
			fallback:    "could not deduct",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "insufficient balance",
		},
		{
			name:        "внутренняя ошибка прячется за fallback",
			err:         fmt.Errorf("connection refused"),
			fallback:    "could not deduct",
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "could not deduct",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/accounts/1/deduct", nil)
			rr := httptest.NewRecorder()

			RenderError(rr, req, tt.err, tt.fallback)

			require.Equal(t, tt.wantStatus, rr.Code)
			body := rr.Body.String()
			assert.Contains(t, body, tt.wantMessage)
			assert.Contains(t, body, `"timestamp"`)
			assert.Contains(t, body, fmt.Sprintf(`"status":%d`, tt.wantStatus))
		})
	}
}
