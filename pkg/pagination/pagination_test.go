// Copyright (c) 2026 Odara. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odara-app/odara/pkg/pagination"
)

/* TestParams_Offset verifies the page-to-offset arithmetic. */
func TestParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		params pagination.Params
		want   int
	}{
		{"first_page", pagination.Params{Page: 1, Limit: 20}, 0},
		{"second_page", pagination.Params{Page: 2, Limit: 20}, 20},
		{"fifth_page_small_limit", pagination.Params{Page: 5, Limit: 5}, 20},
		{"zero_page_clamps_to_zero", pagination.Params{Page: 0, Limit: 20}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.Offset())
		})
	}
}

/* TestFromRequest verifies query parsing and clamping. */
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", pagination.DefaultPage, pagination.DefaultLimit},
		{"explicit_values", "?page=3&limit=50", 3, 50},
		{"negative_page_clamped", "?page=-1", pagination.DefaultPage, pagination.DefaultLimit},
		{"zero_limit_clamped", "?limit=0", pagination.DefaultPage, pagination.DefaultLimit},
		{"excessive_limit_clamped", "?limit=10000", pagination.DefaultPage, pagination.DefaultLimit},
		{"non_numeric_ignored", "?page=abc&limit=xyz", pagination.DefaultPage, pagination.DefaultLimit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/products"+tc.query, nil)

			params := pagination.FromRequest(r)

			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantLimit, params.Limit)
		})
	}
}

/* TestNewMeta verifies total page calculation. */
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		limit          int
		total          int
		wantTotalPages int
	}{
		{"exact_fit", 1, 20, 40, 2},
		{"partial_last_page", 1, 20, 41, 3},
		{"empty_result", 1, 20, 0, 0},
		{"single_item", 1, 20, 1, 1},
		{"zero_limit_guard", 1, 0, 10, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta := pagination.NewMeta(tc.page, tc.limit, tc.total)

			assert.Equal(t, tc.page, meta.Page)
			assert.Equal(t, tc.limit, meta.Limit)
			assert.Equal(t, tc.total, meta.Total)
			assert.Equal(t, tc.wantTotalPages, meta.TotalPages)
		})
	}
}
