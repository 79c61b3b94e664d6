package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 250
)

type Pagination struct {
	Page  int `form:"page,default=1" json:"page"`
	Limit int `form:"limit,default=20" json:"limit"`
}

// Normalize clamps Page to >= 1 and Limit to [1, MaxLimit].
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

func BuildPageInfo(p Pagination, total int64) PageInfo {
	p = p.Normalize()
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageInfo{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasMore:    p.Page < pages,
	}
}
