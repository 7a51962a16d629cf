package service

import "math"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	// maxPage keeps (page-1)*limit inside int for every allowed limit.
	maxPage = math.MaxInt / maxLimit
)

// normalizePage applies the listing defaults and caps both the page number and the page size.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
