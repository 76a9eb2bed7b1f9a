package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobSortColumn(t *testing.T) {
	tests := []struct {
		field   string
		want    string
		allowed bool
	}{
		{"name", "name", true},
		{"customer", "customer", true},
		{"startDate", "start_date", true},
		{"endDate", "end_date", true},
		{"status", "status", true},
		{"id", "", false},
		{"start_date", "", false},
		{"", "", false},
		{"name; DROP TABLE jobs", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			col, ok := JobSortColumn(tt.field)
			assert.Equal(t, tt.allowed, ok)
			assert.Equal(t, tt.want, col)
		})
	}
}

func TestBuildListJobsQuery(t *testing.T) {
	startAfter := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	endBefore := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		filter      JobFilter
		wantClauses []string
		wantNot     []string
		wantArgs    []interface{}
	}{
		{
			name: "no filters",
			filter: JobFilter{
				SortColumn: "start_date",
				Limit:      100,
				Offset:     0,
			},
			wantClauses: []string{
				"ORDER BY start_date ASC, id ASC",
				"LIMIT $1 OFFSET $2",
			},
			wantNot:  []string{"AND name", "AND customer", "AND status", "DESC"},
			wantArgs: []interface{}{100, 0},
		},
		{
			name: "all filters with descending sort",
			filter: JobFilter{
				Name:       "Roof A",
				Customer:   "Acme",
				StartAfter: &startAfter,
				EndBefore:  &endBefore,
				Status:     "InProgress",
				SortColumn: "name",
				SortDesc:   true,
				Limit:      10,
				Offset:     20,
			},
			wantClauses: []string{
				"AND name = $1",
				"AND customer = $2",
				"AND start_date >= $3",
				"AND end_date <= $4",
				"AND status = $5",
				"ORDER BY name DESC, id DESC",
				"LIMIT $6 OFFSET $7",
			},
			wantArgs: []interface{}{"Roof A", "Acme", startAfter, endBefore, "InProgress", 10, 20},
		},
		{
			name: "customer filter only",
			filter: JobFilter{
				Customer:   "Acme",
				SortColumn: "customer",
				Limit:      100,
				Offset:     100,
			},
			wantClauses: []string{
				"AND customer = $1",
				"ORDER BY customer ASC, id ASC",
				"LIMIT $2 OFFSET $3",
			},
			wantNot:  []string{"AND name", "AND status", "AND start_date", "AND end_date"},
			wantArgs: []interface{}{"Acme", 100, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListJobsQuery(tt.filter)

			for _, clause := range tt.wantClauses {
				assert.Contains(t, query, clause)
			}
			for _, clause := range tt.wantNot {
				assert.NotContains(t, query, clause)
			}
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildListWorkersQuery(t *testing.T) {
	jobID := int64(5)

	tests := []struct {
		name        string
		filter      WorkerFilter
		wantClauses []string
		wantNot     []string
		wantArgs    []interface{}
	}{
		{
			name: "no filters",
			filter: WorkerFilter{
				Limit:  100,
				Offset: 0,
			},
			wantClauses: []string{
				"ORDER BY id ASC",
				"LIMIT $1 OFFSET $2",
			},
			wantNot:  []string{"AND name", "AND role", "AND job_id"},
			wantArgs: []interface{}{100, 0},
		},
		{
			name: "all filters",
			filter: WorkerFilter{
				Name:   "Jordan",
				Role:   "Foreman",
				JobID:  &jobID,
				Limit:  25,
				Offset: 50,
			},
			wantClauses: []string{
				"AND name = $1",
				"AND role = $2",
				"AND job_id = $3",
				"LIMIT $4 OFFSET $5",
			},
			wantArgs: []interface{}{"Jordan", "Foreman", int64(5), 25, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListWorkersQuery(tt.filter)

			for _, clause := range tt.wantClauses {
				assert.Contains(t, query, clause)
			}
			for _, clause := range tt.wantNot {
				assert.NotContains(t, query, clause)
			}
			require.Equal(t, tt.wantArgs, args)
		})
	}
}
