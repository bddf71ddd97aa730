package api

import (
	"context"
	"fmt"
	"time"

	"github.com/yosida95/uritemplate/v3"
)

var acknowledgeTemplate = uritemplate.MustNew("/api/feedback/{id}/acknowledge")

// Feedback is a structured feedback record exchanged with the remote API.
type Feedback struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	ManagerID    string    `json:"manager_id"`
	Strengths    string    `json:"strengths"`
	Improvements string    `json:"improvements"`
	Sentiment    string    `json:"sentiment"`
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateFeedbackRequest is the payload for submitting feedback.
type CreateFeedbackRequest struct {
	EmployeeID   string `json:"employee_id"`
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
	Sentiment    string `json:"sentiment"`
}

// ListEmployees returns the employees visible to the authenticated manager.
func (c *Client) ListEmployees(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.get(ctx, "/api/employees", &out); err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	return out, nil
}

// ListFeedbackGiven returns feedback authored by the authenticated manager.
func (c *Client) ListFeedbackGiven(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	if err := c.get(ctx, "/api/feedback/given", &out); err != nil {
		return nil, fmt.Errorf("listing feedback given: %w", err)
	}
	return out, nil
}

// ListFeedbackReceived returns feedback addressed to the authenticated employee.
func (c *Client) ListFeedbackReceived(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	if err := c.get(ctx, "/api/feedback/received", &out); err != nil {
		return nil, fmt.Errorf("listing feedback received: %w", err)
	}
	return out, nil
}

// CreateFeedback submits a new feedback record.
func (c *Client) CreateFeedback(ctx context.Context, req CreateFeedbackRequest) (*Feedback, error) {
	var out Feedback
	if err := c.post(ctx, "/api/feedback", req, &out, true); err != nil {
		return nil, fmt.Errorf("creating feedback: %w", err)
	}
	return &out, nil
}

// AcknowledgeFeedback marks a received feedback record as read.
func (c *Client) AcknowledgeFeedback(ctx context.Context, id string) error {
	path, err := acknowledgeTemplate.Expand(uritemplate.Values{
		"id": uritemplate.String(id),
	})
	if err != nil {
		return fmt.Errorf("building acknowledge path: %w", err)
	}
	if err := c.post(ctx, path, nil, nil, true); err != nil {
		return fmt.Errorf("acknowledging feedback: %w", err)
	}
	return nil
}
