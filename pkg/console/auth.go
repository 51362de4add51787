package console

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Dashboard is where a logged-in user lands
type Dashboard string

const (
	DashboardNone     Dashboard = ""
	DashboardMerchant Dashboard = "merchant"
	DashboardAdmin    Dashboard = "admin"
)

const warnNoDashboard = "this account cannot use the merchant or admin console"

// DashboardFor maps a role to its dashboard; the user role has none
func DashboardFor(role Role) Dashboard {
	switch role {
	case RoleMerchant:
		return DashboardMerchant
	case RoleAdmin:
		return DashboardAdmin
	}
	return DashboardNone
}

type LoginResult struct {
	User      *User
	Dashboard Dashboard
	ExpiresAt time.Time
	// Warning is set instead of a dashboard for roles without console access
	Warning string
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	ExpiresAt int64  `json:"expiresAt"`
	User      *User  `json:"user"`
}

// Login authenticates and initializes the session
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(username) == "" {
		verr.add("username", "is required")
	}
	if password == "" {
		verr.add("password", "is required")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	var resp loginResponse
	r := request{op: "login", method: http.MethodPost, path: "/auth/login", public: true}
	_, err := c.doJSON(ctx, r, map[string]string{
		"username": strings.TrimSpace(username),
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, &APIError{Code: http.StatusOK, Message: "login response is missing the token"}
	}

	// zero means the server gave no expiry and the session never expires locally
	var expiresAt time.Time
	switch {
	case resp.ExpiresAt > 0:
		expiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		expiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	c.session.Init(resp.Token, resp.User, expiresAt)

	result := &LoginResult{
		User:      resp.User,
		Dashboard: DashboardFor(resp.User.Role),
		ExpiresAt: expiresAt,
	}
	if result.Dashboard == DashboardNone {
		result.Warning = warnNoDashboard
		c.log.Warn("Logged in without dashboard access", map[string]interface{}{
			"username": resp.User.Username,
			"role":     resp.User.Role,
		})
	}
	return result, nil
}

// Logout revokes the token on the server. The session is cleared even when
// the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Clear()
	if !c.session.Active() {
		return nil
	}
	_, err := c.sendJSON(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
	return err
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Register creates a merchant or user account; admins are provisioned offline
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	verr := &ValidationError{}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		verr.add("username", "is required")
	}
	if in.Password == "" {
		verr.add("password", "is required")
	}
	if in.Role == RoleAdmin {
		verr.add("role", "admin accounts cannot be registered")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	var out struct {
		User *User `json:"user"`
	}
	r := request{op: "register", method: http.MethodPost, path: "/auth/register", public: true}
	if _, err := c.doJSON(ctx, r, in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Me returns the profile behind the current token
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.get(ctx, "get profile", "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// RequireDashboard fails for sessions whose role has no console access
func (c *Client) RequireDashboard() (Dashboard, error) {
	if _, err := c.session.Token(); err != nil {
		return DashboardNone, err
	}
	user := c.session.User()
	if user == nil {
		return DashboardNone, ErrNotLoggedIn
	}
	d := DashboardFor(user.Role)
	if d == DashboardNone {
		return d, ErrNoDashboard
	}
	return d, nil
}
