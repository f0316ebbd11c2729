package query

import "math"

// MaxOffset is the largest OFFSET postgres accepts (bigint).
const MaxOffset = math.MaxInt64

// Pagination is the LIMIT/OFFSET pair of a list query.
type Pagination struct {
	Limit  uint64
	Offset uint64
}

// Paginate converts a 1-based page and a page size into limit and offset.
// Non-positive values count as absent. The offset is always derived from the
// resolved limit, so a page without a size uses defaultSize for both. Offsets
// past MaxOffset saturate there and yield an empty page.
func Paginate(page, size, defaultSize int) Pagination {
	limit := defaultSize
	if size > 0 {
		limit = size
	}
	if limit < 0 {
		limit = 0
	}

	p := Pagination{Limit: uint64(limit)}
	if page > 1 && limit > 0 {
		skipped := uint64(page - 1)
		if skipped > MaxOffset/uint64(limit) {
			p.Offset = MaxOffset
		} else {
			p.Offset = uint64(limit) * skipped
		}
	}

	return p
}
