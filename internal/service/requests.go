package service

import (
	"context"
	"errors"

	"github.com/rshade/grantdesk/internal/api"
	"github.com/rshade/grantdesk/internal/model"
)

// ErrEmptyID is returned when a critical call is made without an identifier.
var ErrEmptyID = errors.New("resource id cannot be empty")

// RequestReader is the read side of the request facade consumed by the loader.
type RequestReader interface {
	Get(ctx context.Context, id string) (*model.Request, error)
}

// RequestService wraps the /requests resource. Every call is critical.
type RequestService struct {
	client *api.Client
}

// NewRequestService binds the facade to a transport client.
func NewRequestService(client *api.Client) *RequestService {
	return &RequestService{client: client}
}

// Get fetches one request. Failures propagate unchanged.
func (s *RequestService) Get(ctx context.Context, id string) (*model.Request, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var req model.Request
	if err := s.client.GetOne(ctx, api.Path("requests", id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// List fetches requests matching filter, in backend order.
func (s *RequestService) List(ctx context.Context, filter model.RequestFilter) ([]model.Request, error) {
	var out []model.Request
	if err := s.client.Get(ctx, "/requests", requestQuery(filter), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Request{}
	}
	return out, nil
}
