package api

import "context"

type School struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Neighborhood string  `json:"neighborhood"`
	ZipCode      string  `json:"zipCode"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	AverageGrade float64 `json:"averageGrade"`
	SupervisorID string  `json:"supervisorId,omitempty"`
	DirectorID   string  `json:"directorId,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

type SchoolParams struct {
	ListParams
	Name  string
	City  string
	State string
}

type SchoolRequest struct {
	Name         string   `json:"name,omitempty"`
	Address      string   `json:"address,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	ZipCode      string   `json:"zipCode,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	AverageGrade *float64 `json:"averageGrade,omitempty"`
}

func (c *Client) GetSchools(ctx context.Context, params SchoolParams) (Page[School], error) {
	q := params.values()
	if params.Name != "" {
		q.Set("name", params.Name)
	}
	if params.City != "" {
		q.Set("city", params.City)
	}
	if params.State != "" {
		q.Set("state", params.State)
	}
	var out Page[School]
	err := c.get(ctx, "/school", q, &out)
	return out, err
}

func (c *Client) CreateSchool(ctx context.Context, req SchoolRequest) (School, error) {
	var out School
	err := c.post(ctx, "/school", req, &out)
	return out, err
}

func (c *Client) UpdateSchool(ctx context.Context, id string, req SchoolRequest) (School, error) {
	var out School
	err := c.patch(ctx, "/school/"+id, req, &out)
	return out, err
}

// AssignDirector puts a director in charge of the school.
func (c *Client) AssignDirector(ctx context.Context, schoolID, directorID string) (School, error) {
	var out School
	err := c.post(ctx, "/school/"+schoolID+"/director", map[string]string{"directorId": directorID}, &out)
	return out, err
}

// UnassignTeacher removes a teacher from the school roster.
func (c *Client) UnassignTeacher(ctx context.Context, schoolID, teacherID string) error {
	return c.delete(ctx, "/school/"+schoolID+"/teacher/"+teacherID, nil)
}
