package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/crewtrackhq/crewtrack-be/internal/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "valid date",
			input: `"2024-01-01"`,
			want:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "null leaves zero value",
			input: `null`,
			want:  time.Time{},
		},
		{
			name:    "rejects datetime",
			input:   `"2024-01-01T10:00:00Z"`,
			wantErr: true,
		},
		{
			name:    "rejects garbage",
			input:   `"not-a-date"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.want.Equal(d.Time))
			}
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	d := NewDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-01"`, string(out))
}

func TestJobFromModel(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	status := "InProgress"

	job := &model.Job{
		ID:        7,
		Name:      "Roof A",
		Customer:  "Acme",
		StartDate: &start,
		Status:    &status,
	}

	resp := JobFromModel(job)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "Roof A", resp.Name)
	assert.Equal(t, "Acme", resp.Customer)
	require.NotNil(t, resp.StartDate)
	assert.True(t, start.Equal(resp.StartDate.Time))
	assert.Nil(t, resp.EndDate)
	require.NotNil(t, resp.Status)
	assert.Equal(t, "InProgress", *resp.Status)

	// Dates serialize as calendar dates, not RFC 3339 timestamps
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"startDate":"2024-01-01"`)
	assert.Contains(t, string(out), `"endDate":null`)
}

func TestWorkerFromModel(t *testing.T) {
	jobID := int64(3)
	worker := &model.Worker{
		ID:    1,
		Name:  "Jordan",
		Role:  "Foreman",
		JobID: &jobID,
	}

	resp := WorkerFromModel(worker)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Jordan", resp.Name)
	assert.Equal(t, "Foreman", resp.Role)
	require.NotNil(t, resp.JobID)
	assert.Equal(t, int64(3), *resp.JobID)
}
