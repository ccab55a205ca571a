package api

import "context"

type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"imagePath,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type SubjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c *Client) GetSubjects(ctx context.Context, params ListParams) (Page[Subject], error) {
	var out Page[Subject]
	err := c.get(ctx, "/subject", params.values(), &out)
	return out, err
}

func (c *Client) CreateSubject(ctx context.Context, req SubjectRequest) (Subject, error) {
	var out Subject
	err := c.post(ctx, "/subject", req, &out)
	return out, err
}

func (c *Client) UpdateSubject(ctx context.Context, id string, req SubjectRequest) (Subject, error) {
	var out Subject
	err := c.patch(ctx, "/subject/"+id, req, &out)
	return out, err
}

func (c *Client) DeleteSubject(ctx context.Context, id string) error {
	return c.delete(ctx, "/subject/"+id, nil)
}
