package api

import (
	"context"
	"fmt"
)

// Several write endpoints wrap the task in a message envelope; only the task
// itself is of interest to callers.
type taskEnvelope struct {
	Message string `json:"message"`
	Task    Task   `json:"task"`
}

type userEnvelope struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// GetMyTasks lists the tasks assigned to the authenticated user, newest
// first.
func (c *Client) GetMyTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/user/tasks")
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return out, nil
}

func (c *Client) GetMyTask(ctx context.Context, taskID int64) (*Task, error) {
	var out Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/user/tasks/%d", taskID))
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out, nil
}

// UpdateTaskStatus moves one of the caller's own tasks to the given status.
// The server refuses anything outside the user-selectable set and any change
// to a validated task.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, statut string) (*Task, error) {
	var out taskEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"statut": statut}).
		SetResult(&out).
		Put(fmt.Sprintf("/api/user/tasks/%d/status", taskID))
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out.Task, nil
}

// SubmitTaskNote attaches or replaces the free-text note on one of the
// caller's own tasks.
func (c *Client) SubmitTaskNote(ctx context.Context, taskID int64, note string) (*Task, error) {
	var out taskEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"note_utilisateur": note}).
		SetResult(&out).
		Put(fmt.Sprintf("/api/user/tasks/%d/note", taskID))
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out.Task, nil
}

func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var out User
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/user/profile")
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out, nil
}

// GetAllUsers lists the standard accounts tasks can be assigned to. Admin
// only.
func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var out []User
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/admin/users")
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return out, nil
}

// CreateUser provisions an account with an explicit role. Admin only.
func (c *Client) CreateUser(ctx context.Context, data CreateUserData) (*User, error) {
	var out userEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(data).
		SetResult(&out).
		Post("/auth/admin/create-user")
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out.User, nil
}

func (c *Client) GetAllTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/admin/tasks")
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return out, nil
}

func (c *Client) GetUserTasks(ctx context.Context, userID int64) ([]Task, error) {
	var out []Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/api/admin/users/%d/tasks", userID))
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return out, nil
}

// CreateTask assigns a new task to a standard user. It always starts in
// 'à faire'.
func (c *Client) CreateTask(ctx context.Context, data CreateTaskData) (*Task, error) {
	var out Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(data).
		SetResult(&out).
		Post("/api/admin/tasks")
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID int64, update TaskUpdate) (*Task, error) {
	var out Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(update).
		SetResult(&out).
		Put(fmt.Sprintf("/api/admin/tasks/%d", taskID))
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out, nil
}

// ValidateTask signs a finished task off. The server only accepts tasks in
// 'terminé'.
func (c *Client) ValidateTask(ctx context.Context, taskID int64) (*Task, error) {
	var out taskEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Put(fmt.Sprintf("/api/admin/tasks/%d/validate", taskID))
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return nil, serverError(resp)
	}
	return &out.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/api/admin/tasks/%d", taskID))
	if err != nil {
		return transportError(err)
	}
	if resp.IsError() {
		return serverError(resp)
	}
	return nil
}
