package employee

import (
	"math"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
)

// NewPagination computes page metadata for a normalized page and limit.
func NewPagination(total int64, page, limit int) employee.PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return employee.PaginationMeta{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
