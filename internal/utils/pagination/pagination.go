package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParseFromRequest reads ?page and ?limit. ok is false when neither is
// present, in which case callers return the full list.
func ParseFromRequest(c *fiber.Ctx) (p Pagination, ok bool) {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return Pagination{}, false
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, true
}

// Window returns the [start, end) bounds of the page within total items.
func (p Pagination) Window(total int) (int, int) {
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

// TotalPages is the number of pages needed for total items.
func (p Pagination) TotalPages(total int) int {
	pages := total / p.Limit
	if total%p.Limit > 0 {
		pages++
	}
	return pages
}

// Apply slices items to the page and sets the X-Total-Count and
// X-Total-Pages headers.
func Apply[T any](c *fiber.Ctx, p Pagination, items []T) []T {
	c.Set("X-Total-Count", strconv.Itoa(len(items)))
	c.Set("X-Total-Pages", strconv.Itoa(p.TotalPages(len(items))))
	start, end := p.Window(len(items))
	return items[start:end]
}
