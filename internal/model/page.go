package model

// Page is one slice of an owner-scoped listing.
type Page[T any] struct {
	Items    []T
	Page     int
	PerPage  int
	Total    int64
	LastPage int
}

type PageQuery struct {
	Page    *int `form:"page"`
	PerPage *int `form:"per_page"`
}

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

type PageResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func NewPageResponse[T any](p Page[T]) PageResponse[T] {
	data := p.Items
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data: data,
		Meta: PageMeta{
			CurrentPage: p.Page,
			LastPage:    p.LastPage,
			PerPage:     p.PerPage,
			Total:       p.Total,
		},
	}
}

type DataResponse[T any] struct {
	Data T `json:"data"`
}
