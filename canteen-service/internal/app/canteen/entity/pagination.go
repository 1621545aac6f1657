package entity

const (
	DefaultPage       = 1
	MaxPerPage        = 50
	PerPageReviews    = 10
	PerPageItems      = 20
	PerPageReplies    = 20
	DefaultPopularTop = 10
)

// PageRequest - номер страницы и размер, уже приведённые к допустимым значениям
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest ограничивает запрос клиента: page >= 1, 1 <= perPage <= 50
func NewPageRequest(page, perPage, defaultPerPage int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p PageRequest) Limit() int {
	return p.PerPage
}

// Pagination - блок пагинации в ответе
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

func NewPagination(p PageRequest, total int64) Pagination {
	pages := (total + int64(p.PerPage) - 1) / int64(p.PerPage)
	return Pagination{
		Page:    p.Page,
		PerPage: p.PerPage,
		Total:   total,
		Pages:   pages,
		HasNext: int64(p.Page) < pages,
		HasPrev: p.Page > 1,
	}
}
