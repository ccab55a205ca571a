package api

import "context"

// User roles as the backend reports them.
const (
	RoleStudent    = "STUDENT"
	RoleTeacher    = "TEACHER"
	RoleDirector   = "DIRECTOR"
	RoleSupervisor = "SUPERVISOR"
	RoleAdmin      = "ADMIN"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role"`
	SchoolID    string `json:"schoolId,omitempty"`
}

// Login exchanges credentials for a bearer token and profile. It is the one
// call made without a token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &out)
	return out, err
}
