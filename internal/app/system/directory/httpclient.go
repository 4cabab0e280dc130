package directory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
)

// HTTPClient talks to a hosted directory service over its admin REST API.
type HTTPClient struct {
	rc *resty.Client
}

// NewHTTPClient returns a client for the directory at baseURL, sending the
// service token on every request.
func NewHTTPClient(baseURL, serviceToken string, timeout time.Duration) *HTTPClient {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetAuthToken(serviceToken)
	return &HTTPClient{rc: rc}
}

type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (c *HTTPClient) CreateIdentity(ctx context.Context, in NewIdentity) (Identity, error) {
	var out userPayload
	var apiErr errorPayload
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(createUserRequest{Email: in.Email, Password: in.Password, Username: in.Username, Role: in.Role}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/admin/users")
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Remote, "directory create failed", err)
	}
	if resp.IsError() {
		return Identity{}, statusToErr(resp.StatusCode(), apiErr.Message, "directory rejected account creation")
	}
	return Identity{ID: out.ID, Email: out.Email, Username: out.Username, Role: out.Role}, nil
}

func (c *HTTPClient) DeleteIdentity(ctx context.Context, id string) error {
	var apiErr errorPayload
	resp, err := c.rc.R().
		SetContext(ctx).
		SetError(&apiErr).
		Delete("/admin/users/" + id)
	if err != nil {
		return apperr.Wrap(apperr.Remote, "directory delete failed", err)
	}
	if resp.IsError() {
		return statusToErr(resp.StatusCode(), apiErr.Message, "directory rejected account deletion")
	}
	return nil
}

func (c *HTTPClient) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	var out userPayload
	var apiErr errorPayload
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(authRequest{Email: email, Password: password}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/auth/verify")
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Remote, "directory authentication failed", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
			return Identity{}, apperr.New(apperr.Validation, "invalid email or password")
		}
		return Identity{}, statusToErr(resp.StatusCode(), apiErr.Message, "directory authentication failed")
	}
	return Identity{ID: out.ID, Email: out.Email, Username: out.Username, Role: out.Role}, nil
}

// statusToErr maps a directory HTTP status onto the error taxonomy.
func statusToErr(status int, detail, fallback string) error {
	msg := detail
	if msg == "" {
		msg = fallback
	}
	switch status {
	case http.StatusConflict:
		return apperr.New(apperr.Conflict, msg)
	case http.StatusNotFound:
		return apperr.New(apperr.NotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperr.New(apperr.Validation, msg)
	default:
		return apperr.Newf(apperr.Remote, "%s (status %d)", msg, status)
	}
}

var _ Service = (*HTTPClient)(nil)

// String identifies the client target for startup logging.
func (c *HTTPClient) String() string {
	return fmt.Sprintf("directory http client (%s)", c.rc.BaseURL)
}
