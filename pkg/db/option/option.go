package option

import (
	"fmt"
	"strings"

	"admissions-backoffice/pkg/db/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryOption mutates a query before it is executed by a repository.
type QueryOption func(*gorm.DB) *gorm.DB

type Operator string

const (
	EQ    Operator = "="
	NEQ   Operator = "<>"
	GT    Operator = ">"
	GTE   Operator = ">="
	LT    Operator = "<"
	LTE   Operator = "<="
	IN    Operator = "IN"
	LIKE  Operator = "LIKE"
	NULL  Operator = "IS NULL"
	NNULL Operator = "IS NOT NULL"
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// ApplyOperator adds a WHERE condition. Field names are written by the
// service code, never taken from request input.
func ApplyOperator(conds ...Condition) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range conds {
			switch c.Operator {
			case NULL, NNULL:
				db = db.Where(fmt.Sprintf("%s %s", c.Field, c.Operator))
			case IN:
				db = db.Where(fmt.Sprintf("%s IN ?", c.Field), c.Value)
			default:
				db = db.Where(fmt.Sprintf("%s %s ?", c.Field, c.Operator), c.Value)
			}
		}
		return db
	}
}

// Search matches term against any of the given columns with LIKE.
func Search(term string, fields ...string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(fields) == 0 {
			return db
		}
		like := "%" + term + "%"
		parts := make([]string, 0, len(fields))
		args := make([]any, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, fmt.Sprintf("%s LIKE ?", f))
			args = append(args, like)
		}
		return db.Where(strings.Join(parts, " OR "), args...)
	}
}

type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

// WithSortBy orders by SortBy when it is listed in Allow, otherwise by
// created_at.
func WithSortBy(s QuerySortBy) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		column := "created_at"
		if s.SortBy != "" && s.Allow[s.SortBy] {
			column = s.SortBy
		}
		desc := strings.EqualFold(s.OrderBy, "desc")
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
}

func ApplyPagination(p pagination.Pagination) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		p = p.Normalize()
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}
