package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/crewtrackhq/crewtrack-be/internal/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorker(t *testing.T) {
	tests := []struct {
		name       string
		seedJobs   []model.Job
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid worker without assignment",
			body:       `{"name":"Jordan","role":"Foreman"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "valid worker with assignment",
			seedJobs:   []model.Job{{ID: 1, Name: "Roof A", Customer: "Acme"}},
			body:       `{"name":"Jordan","role":"Foreman","jobId":1}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"role":"Foreman"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Name field required",
		},
		{
			name:       "missing role",
			body:       `{"name":"Jordan"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Role field required",
		},
		{
			name:       "unknown job reference",
			body:       `{"name":"Jordan","role":"Foreman","jobId":42}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Job with id 42 does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.jobs = tt.seedJobs
			r := newTestRouter(store)

			w := doRequest(r, http.MethodPost, "/workers/", tt.body)

			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorDetail(t, w))
				// Nothing persisted on a validation failure
				assert.Zero(t, store.createWorkerCalls)
				assert.Empty(t, store.workers)
				return
			}

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Jordan", resp["name"])
			assert.Equal(t, "Foreman", resp["role"])
			assert.NotZero(t, resp["id"])
			assert.Equal(t, 1, store.createWorkerCalls)
		})
	}
}

func TestBulkCreateWorkers(t *testing.T) {
	t.Run("creates all workers", func(t *testing.T) {
		store := newFakeStore()
		store.jobs = []model.Job{{ID: 1, Name: "Roof A", Customer: "Acme"}}
		r := newTestRouter(store)

		body := `[{"name":"Jordan","role":"Foreman","jobId":1},{"name":"Sam","role":"Laborer"}]`
		w := doRequest(r, http.MethodPost, "/workers/bulk/", body)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2 workers created successfully", resp["message"])
		assert.Len(t, store.workers, 2)
	})

	t.Run("unknown job reference aborts the whole batch", func(t *testing.T) {
		store := newFakeStore()
		r := newTestRouter(store)

		body := `[{"name":"Jordan","role":"Foreman"},{"name":"Sam","role":"Laborer","jobId":9}]`
		w := doRequest(r, http.MethodPost, "/workers/bulk/", body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Job with id 9 does not exist", errorDetail(t, w))
		assert.Empty(t, store.workers)
	})
}

func TestListWorkers(t *testing.T) {
	t.Run("default pagination", func(t *testing.T) {
		store := newFakeStore()
		r := newTestRouter(store)

		w := doRequest(r, http.MethodGet, "/workers/", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, store.lastWorkerFilter)
		assert.Equal(t, 100, store.lastWorkerFilter.Limit)
		assert.Equal(t, 0, store.lastWorkerFilter.Offset)
	})

	t.Run("filters pass through", func(t *testing.T) {
		store := newFakeStore()
		store.jobs = []model.Job{{ID: 2, Name: "Roof B", Customer: "Acme"}}
		r := newTestRouter(store)

		w := doRequest(r, http.MethodGet, "/workers/?name=Jordan&role=Foreman&jobId=2&page=2&limit=5", "")

		require.Equal(t, http.StatusOK, w.Code)
		filter := store.lastWorkerFilter
		require.NotNil(t, filter)
		assert.Equal(t, "Jordan", filter.Name)
		assert.Equal(t, "Foreman", filter.Role)
		require.NotNil(t, filter.JobID)
		assert.Equal(t, int64(2), *filter.JobID)
		assert.Equal(t, 5, filter.Limit)
		assert.Equal(t, 5, filter.Offset)
	})

	t.Run("unknown job filter is rejected", func(t *testing.T) {
		store := newFakeStore()
		r := newTestRouter(store)

		w := doRequest(r, http.MethodGet, "/workers/?jobId=42", "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Job with id 42 does not exist", errorDetail(t, w))
		assert.Nil(t, store.lastWorkerFilter)
	})

	t.Run("returns stored workers", func(t *testing.T) {
		store := newFakeStore()
		jobID := int64(1)
		store.workers = []model.Worker{
			{ID: 1, Name: "Jordan", Role: "Foreman", JobID: &jobID},
			{ID: 2, Name: "Sam", Role: "Laborer"},
		}
		r := newTestRouter(store)

		w := doRequest(r, http.MethodGet, "/workers/", "")

		require.Equal(t, http.StatusOK, w.Code)
		var resp []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, float64(1), resp[0]["jobId"])
		assert.Nil(t, resp[1]["jobId"])
	})
}
