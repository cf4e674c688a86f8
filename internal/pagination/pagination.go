package pagination

import "math"

const (
	DefaultPage       = 1
	DefaultPerPage    = 15
	DefaultMaxPerPage = 100
)

type Config struct {
	Page       int
	PerPage    int
	MaxPerPage int
}

// PageRequest is a resolved, always-valid page selection.
type PageRequest struct {
	Page    int
	PerPage int
}

func (p PageRequest) Offset() uint64 {
	return uint64(p.Page-1) * uint64(p.PerPage)
}

func (p PageRequest) Limit() uint64 {
	return uint64(p.PerPage)
}

// LastPage is at least 1, also for an empty result.
func (p PageRequest) LastPage(total int64) int {
	if total <= 0 {
		return 1
	}
	per := int64(p.PerPage)
	return int((total + per - 1) / per)
}

type Resolver struct {
	cfg Config
}

// NewResolver replaces non-positive config values with package defaults and
// keeps PerPage within MaxPerPage.
func NewResolver(cfg Config) *Resolver {
	if cfg.Page <= 0 {
		cfg.Page = DefaultPage
	}
	if cfg.MaxPerPage <= 0 {
		cfg.MaxPerPage = DefaultMaxPerPage
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = DefaultPerPage
	}
	if cfg.PerPage > cfg.MaxPerPage {
		cfg.PerPage = cfg.MaxPerPage
	}
	return &Resolver{cfg: cfg}
}

// Resolve treats missing and non-positive input the same way and clamps
// per_page to the configured maximum. Page is capped so the offset stays
// within a Postgres bigint.
func (r *Resolver) Resolve(rawPage, rawPerPage *int) PageRequest {
	req := PageRequest{Page: r.cfg.Page, PerPage: r.cfg.PerPage}
	if rawPage != nil && *rawPage > 0 {
		req.Page = *rawPage
	}
	if rawPerPage != nil && *rawPerPage > 0 {
		req.PerPage = *rawPerPage
	}
	if req.PerPage > r.cfg.MaxPerPage {
		req.PerPage = r.cfg.MaxPerPage
	}
	if maxPage := math.MaxInt64 / int64(req.PerPage); int64(req.Page) > maxPage {
		req.Page = int(maxPage)
	}
	return req
}
