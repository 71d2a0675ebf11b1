package pagination

import (
	"errors"

	"github.com/spf13/cobra"
)

// Validation limits.
const (
	MaxLimit    = 500
	MaxPageSize = 500
)

// Validation errors.
var (
	ErrNegative      = errors.New("limit, offset, page and page-size cannot be negative")
	ErrLimitTooLarge = errors.New("limit must be <= 500")
	ErrPageTooLarge  = errors.New("page-size must be <= 500")
	ErrMixedModes    = errors.New("page and offset parameters are mutually exclusive")
	ErrPageSizeAlone = errors.New("page must be specified when using page-size: page must be >= 1")
	ErrPageAlone     = errors.New("page-size must be specified when using page: page-size must be > 0")
)

// Params holds list pagination flags. Offset mode uses Limit and Offset;
// page mode uses Page (1-based) and PageSize. Zero means unset.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
}

// Bind registers the pagination flags on cmd.
func (p *Params) Bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "maximum number of results (server default when 0)")
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&p.Page, "page", 0, "1-based page number (requires --page-size)")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 0, "results per page (requires --page)")
}

// Validate checks bounds and that the two modes are not mixed.
func (p Params) Validate() error {
	switch {
	case p.Limit < 0 || p.Offset < 0 || p.Page < 0 || p.PageSize < 0:
		return ErrNegative
	case p.Limit > MaxLimit:
		return ErrLimitTooLarge
	case p.PageSize > MaxPageSize:
		return ErrPageTooLarge
	case p.Page > 0 && p.Offset > 0:
		return ErrMixedModes
	case p.Page == 0 && p.PageSize > 0:
		return ErrPageSizeAlone
	case p.PageSize == 0 && p.Page > 0:
		return ErrPageAlone
	}
	return nil
}

// IsPageBased reports whether page mode is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// Query returns the limit and offset to send, nil for values left to the
// server's defaults.
//
//nolint:nonamedreturns // Named returns document the pair.
func (p Params) Query() (limit, offset *int) {
	if p.IsPageBased() {
		l := p.PageSize
		o := (p.Page - 1) * p.PageSize
		return &l, &o
	}
	if p.Limit > 0 {
		l := p.Limit
		limit = &l
	}
	if p.Offset > 0 {
		o := p.Offset
		offset = &o
	}
	return limit, offset
}

// WithDefaultLimit returns p with Limit set to def when no size was given.
func (p Params) WithDefaultLimit(def int) Params {
	if p.Limit == 0 && !p.IsPageBased() {
		p.Limit = def
	}
	return p
}
