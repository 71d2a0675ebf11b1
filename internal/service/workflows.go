package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rshade/grantdesk/internal/api"
	"github.com/rshade/grantdesk/internal/model"
)

// WorkflowService wraps the /workflows resource. Every call is critical.
type WorkflowService struct {
	client   *api.Client
	validate *validator.Validate
}

// NewWorkflowService binds the facade to a transport client.
func NewWorkflowService(client *api.Client) *WorkflowService {
	return &WorkflowService{client: client, validate: validator.New()}
}

// GetByRequest fetches the workflow paired with a request.
func (s *WorkflowService) GetByRequest(ctx context.Context, requestID string) (*model.Workflow, error) {
	if requestID == "" {
		return nil, ErrEmptyID
	}
	var wf model.Workflow
	if err := s.client.GetOne(ctx, api.Path("workflows", "by-request", requestID), &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// ListComments fetches the comment thread in insertion order. A null body
// decodes to an empty slice.
func (s *WorkflowService) ListComments(ctx context.Context, id string) ([]model.Comment, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var out []model.Comment
	if err := s.client.Get(ctx, api.Path("workflows", id, "comments"), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Comment{}
	}
	return out, nil
}

// AddComment posts a new comment and returns the created record.
func (s *WorkflowService) AddComment(ctx context.Context, id string, c model.NewComment) (*model.Comment, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if err := s.validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid comment: %w", err)
	}
	var created model.Comment
	if err := s.client.PostOne(ctx, api.Path("workflows", id, "comments"), c, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
