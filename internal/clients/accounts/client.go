// Package accounts содержит HTTP-клиент accounts-service для auth-service.
// auth-service не имеет собственного хранилища пользователей: регистрация
// и поиск учётных записей выполняются через этот клиент.
package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tudai-mobility/monopatines/internal/models"
)

// Client обращается к внутренним эндпоинтам accounts-service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт новый клиент accounts-service.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope повторяет формат ответа response.Response; Data остаётся
// сырой, чтобы вызывающий метод декодировал её в нужный тип.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNotFound:
		return models.ErrUserNotFound
	case http.StatusConflict:
		return models.ErrUserAlreadyExists
	default:
		return fmt.Errorf("unexpected status %s: %s", resp.Status, env.Error)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// CreateUser регистрирует пользователя в accounts-service.
// Пароль в req уже захэширован.
func (c *Client) CreateUser(ctx context.Context, req models.DummyUser) (*models.User, error) {
	const op = "accounts.CreateUser"
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var user models.User
	if err := c.do(httpReq, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя с ролями по email.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "accounts.GetUserByEmail"
	path := "/users/by-email?email=" + url.QueryEscape(email)
	httpReq, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var user models.User
	if err := c.do(httpReq, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// ValidatePassword проверяет пару email/пароль в accounts-service.
// false означает либо отсутствие пользователя, либо неверный пароль.
func (c *Client) ValidatePassword(ctx context.Context, email, plainPassword string) (bool, error) {
	const op = "accounts.ValidatePassword"
	body := map[string]string{"email": email, "password": plainPassword}
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/users/validate-password", body)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	var result struct {
		Valid bool `json:"valid"`
	}
	if err := c.do(httpReq, &result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return result.Valid, nil
}
