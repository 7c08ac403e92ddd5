package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrSubmitFailed = errors.New("failed to submit data")

type submission struct {
	Tasks []Task `json:"tasks"`
}

// Client syncs tasks with the task server's single /tasks resource.
type Client struct {
	http     *resty.Client
	endpoint string
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	http := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: http, endpoint: endpoint}
}

func (c *Client) Submit(ctx context.Context, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(submission{Tasks: tasks}).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: server answered %s", ErrSubmitFailed, resp.Status())
	}
	return nil
}

func (c *Client) Fetch(ctx context.Context) ([]Task, error) {
	var tasks []Task

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&tasks).
		Get(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch tasks: server answered %s", resp.Status())
	}
	return tasks, nil
}

// Shutdown drops idle keep-alive connections.
func (c *Client) Shutdown() {
	c.http.GetClient().CloseIdleConnections()
}
