package api

import (
	"context"
	"strings"
)

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	RoleID      string `json:"roleId,omitempty"`
	SchoolID    string `json:"schoolId,omitempty"`
	ClassroomID string `json:"classroomId,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type UserParams struct {
	ListParams
	Name  string
	Email string
}

type UserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// rolePath maps a role constant to its /user segment.
func rolePath(role string) string {
	return "/user/" + strings.ToLower(role)
}

// GetUsersByRole lists users of one role, paginated.
func (c *Client) GetUsersByRole(ctx context.Context, role string, params UserParams) (Page[User], error) {
	q := params.values()
	if params.Name != "" {
		q.Set("name", params.Name)
	}
	if params.Email != "" {
		q.Set("email", params.Email)
	}
	var out Page[User]
	err := c.get(ctx, rolePath(role), q, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, role string, req UserRequest) (User, error) {
	var out User
	err := c.post(ctx, rolePath(role), req, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, role, id string, req UserRequest) (User, error) {
	var out User
	err := c.patch(ctx, rolePath(role)+"/"+id, req, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, role, id string) error {
	return c.delete(ctx, rolePath(role)+"/"+id, nil)
}
