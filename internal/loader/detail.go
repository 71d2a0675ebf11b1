package loader

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/grantdesk/internal/logging"
	"github.com/rshade/grantdesk/internal/model"
)

// FailureMessage is shown whenever the request detail cannot be loaded.
const FailureMessage = "Failed to load request details. Please try again."

// ErrNotLoaded is returned by AddComment when no request is populated.
var ErrNotLoaded = errors.New("request details are not loaded")

// RequestFetcher reads the primary entity.
type RequestFetcher interface {
	Get(ctx context.Context, id string) (*model.Request, error)
}

// WorkflowFetcher reads the entities that depend on a request.
type WorkflowFetcher interface {
	GetByRequest(ctx context.Context, requestID string) (*model.Workflow, error)
	ListComments(ctx context.Context, id string) ([]model.Comment, error)
}

// CommentPoster creates a comment on a request's workflow.
type CommentPoster interface {
	AddComment(ctx context.Context, id string, c model.NewComment) (*model.Comment, error)
}

// Detail is the populated request view. Partial is set after Retry, which
// only re-reads the request.
type Detail struct {
	Request  *model.Request
	Workflow *model.Workflow
	Comments []model.Comment
	Partial  bool
}

// DetailSnapshot is an immutable copy of a controller's state.
type DetailSnapshot struct {
	RequestID string
	State[Detail]
}

// DetailController loads a request, its workflow, and its comments as one unit.
type DetailController struct {
	requests  RequestFetcher
	workflows WorkflowFetcher
	poster    CommentPoster

	resource *Resource[Detail]

	mu        sync.RWMutex
	requestID string
}

// NewDetailController wires the controller to its facades.
func NewDetailController(requests RequestFetcher, workflows WorkflowFetcher, poster CommentPoster) *DetailController {
	return &DetailController{
		requests:  requests,
		workflows: workflows,
		poster:    poster,
		resource:  NewResource[Detail]("request_detail", FailureMessage),
	}
}

// Load fetches request id, then its workflow and comments concurrently. Any
// failure leaves the view NotFound with nothing populated. An empty id
// settles NotFound without calling the backend.
func (c *DetailController) Load(ctx context.Context, id string) DetailSnapshot {
	if id == "" {
		c.mu.Lock()
		c.requestID = id
		c.resource.Settle(StatusNotFound)
		c.mu.Unlock()
		return c.Snapshot()
	}

	// The id and the new sequence change together so a Snapshot never pairs
	// the new id with the previous request's state.
	c.mu.Lock()
	c.requestID = id
	seqCtx, seq := c.resource.begin(ctx)
	c.mu.Unlock()

	d, err := c.fetchDetail(seqCtx, id)
	return c.snapshotOf(c.resource.finish(ctx, seq, d, err))
}

func (c *DetailController) fetchDetail(ctx context.Context, id string) (Detail, error) {
	req, err := c.requests.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	var (
		wf       *model.Workflow
		comments []model.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var wfErr error
		wf, wfErr = c.workflows.GetByRequest(gctx, id)
		return wfErr
	})
	g.Go(func() error {
		var listErr error
		comments, listErr = c.workflows.ListComments(gctx, id)
		return listErr
	})
	if err := g.Wait(); err != nil {
		return Detail{}, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	return Detail{Request: req, Workflow: wf, Comments: comments}, nil
}

// Retry re-reads only the request for the last requested id. Workflow and
// comments are left empty and Partial is set; call Load for a full refresh.
func (c *DetailController) Retry(ctx context.Context) DetailSnapshot {
	c.mu.Lock()
	id := c.requestID
	if id == "" {
		c.resource.Settle(StatusNotFound)
		c.mu.Unlock()
		return c.Snapshot()
	}
	seqCtx, seq := c.resource.begin(ctx)
	c.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("component", "loader").
		Str("request_id", id).
		Msg("retrying request read")

	var d Detail
	req, err := c.requests.Get(seqCtx, id)
	if err == nil {
		d = Detail{Request: req, Comments: []model.Comment{}, Partial: true}
	}
	return c.snapshotOf(c.resource.finish(ctx, seq, d, err))
}

// AddComment posts text on the loaded request and appends the created comment
// to the end of the thread. If the view was reloaded while the call was in
// flight the append is skipped, since the reload owns the thread.
func (c *DetailController) AddComment(ctx context.Context, text string) (*model.Comment, error) {
	snap := c.Snapshot()
	id := snap.RequestID
	if snap.Status != StatusPopulated || id == "" {
		return nil, ErrNotLoaded
	}

	created, err := c.poster.AddComment(ctx, id, model.NewComment{Comment: text})
	if err != nil {
		logging.FromContext(ctx).Error().
			Str("component", "loader").
			Str("request_id", id).
			Err(err).
			Msg("add comment failed")
		return nil, err
	}

	c.resource.Mutate(snap.Seq, func(d *Detail) {
		next := make([]model.Comment, len(d.Comments), len(d.Comments)+1)
		copy(next, d.Comments)
		d.Comments = append(next, *created)
	})
	return created, nil
}

// Snapshot returns a deep copy of the current state.
func (c *DetailController) Snapshot() DetailSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyState(c.requestID, c.resource.State())
}

func (c *DetailController) snapshotOf(st State[Detail]) DetailSnapshot {
	return c.copyState(c.RequestID(), st)
}

func (c *DetailController) copyState(id string, st State[Detail]) DetailSnapshot {
	d := st.Value
	if d.Request != nil {
		r := *d.Request
		d.Request = &r
	}
	if d.Workflow != nil {
		w := *d.Workflow
		d.Workflow = &w
	}
	if d.Comments != nil {
		d.Comments = append([]model.Comment(nil), d.Comments...)
		if d.Comments == nil {
			d.Comments = []model.Comment{}
		}
	}
	st.Value = d
	return DetailSnapshot{RequestID: id, State: st}
}

// RequestID returns the identifier most recently passed to Load.
func (c *DetailController) RequestID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requestID
}
