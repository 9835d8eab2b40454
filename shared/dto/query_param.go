package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"appointly/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// MaxLimit caps page size so one listing cannot pull a whole scope's history.
const MaxLimit = 100

// FromRequest reads page, limit, sort_by and sort_dir from the query string. Malformed or
// non-positive numbers are ignored. With withDefaults, missing page and limit get defaults.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page, ok := positiveInt(values.Get(constant.RequestParamPage)); ok {
		q.Page = page
	}

	if limit, ok := positiveInt(values.Get(constant.RequestParamLimit)); ok {
		q.Limit = min(limit, MaxLimit)
	}

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)

	return n, err == nil && n > 0
}

// Sanitize restricts SortBy to allowed columns, qualifies it with table and fills SortDir.
// SortBy ends up in ORDER BY verbatim, so anything outside allowed becomes fallback.
func (q *QueryParams) Sanitize(table string, allowed []string, fallback string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = fallback
	}

	q.SortBy = table + "." + q.SortBy

	if q.SortDir == constant.Empty {
		q.SortDir = constant.DefaultValueSortDir
	}
}
