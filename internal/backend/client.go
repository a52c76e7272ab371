// Package backend talks to the Analify REST API.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/analify/dashboard-gateway/internal/config"
	"github.com/analify/dashboard-gateway/internal/domain"
)

// Client is a thin JSON client for the auth and employee endpoints.
type Client struct {
	http    *fiber.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewClient builds a client for cfg.BaseURL.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    &fiber.Client{},
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

// BaseURL returns the API root all endpoints hang off.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	agent := c.http.Post(c.baseURL + "/auth/login").JSON(loginRequest{Email: email, Password: password})

	var resp loginResponse
	if err := c.do(ctx, agent, "", &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &APIError{Status: fiber.StatusBadGateway, Message: "login response carried no token"}
	}
	return resp.Token, nil
}

// GetProfile loads the employee record of userID.
func (c *Client) GetProfile(ctx context.Context, userID int64, token string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, c.http.Get(c.employeeURL(userID)), token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile writes patch to the employee record of userID and returns the stored record.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, token string, patch domain.ProfilePatch) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, c.http.Put(c.employeeURL(userID)).JSON(patch), token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) employeeURL(userID int64) string {
	return c.baseURL + "/employees/" + strconv.FormatInt(userID, 10)
}

func (c *Client) do(ctx context.Context, agent *fiber.Agent, token string, out any) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	agent.Timeout(timeout).Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	req := agent.Request()
	method, uri := string(req.Header.Method()), req.URI().String()

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.logger.Warn("backend request failed", zap.String("method", method), zap.String("url", uri), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, uri, err)
	}

	if status < 200 || status > 299 {
		c.logger.Debug("backend answered with error", zap.String("method", method), zap.String("url", uri), zap.Int("status", status))
		return statusError(status, body)
	}
	if status == fiber.StatusNoContent || out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, uri, err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	switch status {
	case fiber.StatusUnauthorized:
		return ErrUnauthorized
	case fiber.StatusForbidden:
		return ErrForbidden
	}

	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.Error
	if msg == "" {
		msg = eb.Message
	}
	return &APIError{Status: status, Message: msg}
}
