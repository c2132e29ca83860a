package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/exam-seating/internal/logging"
	"github.com/rhyrak/exam-seating/internal/metrics"
	"github.com/rhyrak/exam-seating/internal/scheduler"
	"github.com/rhyrak/exam-seating/internal/store"
)

const (
	enrollmentCSV = "course_code,rollno\nCS101,r1\nCS101,r2\nCS101,r3\nMA101,r4\n"
	scheduleCSV   = "Date,Morning,Evening\n07-05-2024,CS101,MA101\n"
	roomsCSV      = "Block,Room No.,Exam Capacity\n9,101,2\nLT,LT-1,10\n"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	plans, err := store.Open(filepath.Join(t.TempDir(), "seating.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = plans.Close() })

	reg := prometheus.NewRegistry()
	return newRouter(&server{
		cfg:      scheduler.NewDefaultConfiguration(),
		plans:    plans,
		logger:   logging.NewNop(),
		metrics:  metrics.NewPrometheus(reg, "seating"),
		gatherer: reg,
	})
}

func uploadRequest(t *testing.T, files map[string]string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile(name, name+".csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/plans", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func allFiles() map[string]string {
	return map[string]string{
		"enrollment": enrollmentCSV,
		"schedule":   scheduleCSV,
		"rooms":      roomsCSV,
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createPlan(t *testing.T, r *gin.Engine, fields map[string]string) map[string]any {
	t.Helper()
	rec := serve(r, uploadRequest(t, allFiles(), fields))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestPostPlan(t *testing.T) {
	t.Run("allocates and archives", func(t *testing.T) {
		r := newTestServer(t)

		resp := createPlan(t, r, nil)

		require.NotEmpty(t, resp["id"])
		require.Equal(t, float64(0), resp["unseated"])
		require.Contains(t, resp["report"], "[  OK]")

		rec := serve(r, httptest.NewRequest(http.MethodGet, "/plans/"+resp["id"].(string), nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Plan store.PlanMeta `json:"plan"`
			Data string         `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, store.StatusComplete, got.Plan.Status)
		require.Equal(t, 3, got.Plan.Assignments)
		require.Equal(t, "Date,Session,Course_Code,Room,Allocated_Students,Students\n"+
			"2024-05-07,Morning,CS101,101,2,r1; r2\n"+
			"2024-05-07,Morning,CS101,LT-1,1,r3\n"+
			"2024-05-07,Evening,MA101,LT-1,1,r4\n", got.Data)
	})

	t.Run("form fields override the policy", func(t *testing.T) {
		r := newTestServer(t)

		resp := createPlan(t, r, map[string]string{"margin": "9"})

		// 101 holds nothing and LT-1 holds one seat for the whole run.
		require.Equal(t, float64(3), resp["unseated"])
		require.Contains(t, resp["report"], "[FAIL]")
	})

	t.Run("unknown mode falls back to dense", func(t *testing.T) {
		r := newTestServer(t)

		resp := createPlan(t, r, map[string]string{"mode": "roomy"})

		require.Equal(t, float64(0), resp["unseated"])
	})

	t.Run("rejects missing files", func(t *testing.T) {
		r := newTestServer(t)
		files := allFiles()
		delete(files, "rooms")

		rec := serve(r, uploadRequest(t, files, nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "rooms")
	})

	t.Run("rejects malformed tables", func(t *testing.T) {
		r := newTestServer(t)
		files := allFiles()
		files["rooms"] = "Block,Room No.,Exam Capacity\n9,101,-4\n"

		rec := serve(r, uploadRequest(t, files, nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		list := serve(r, httptest.NewRequest(http.MethodGet, "/plans", nil))
		require.JSONEq(t, `{"plans":[]}`, list.Body.String())
	})

	t.Run("rejects negative margin", func(t *testing.T) {
		r := newTestServer(t)

		rec := serve(r, uploadRequest(t, allFiles(), map[string]string{"margin": "-1"}))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPlanLifecycle(t *testing.T) {
	r := newTestServer(t)
	id := createPlan(t, r, nil)["id"].(string)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/plans", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Plans []store.PlanMeta `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Plans, 1)
	require.Equal(t, id, list.Plans[0].ID)

	rec = serve(r, httptest.NewRequest(http.MethodDelete, "/plans/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/plans/"+id, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = serve(r, httptest.NewRequest(http.MethodDelete, "/plans/"+id, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestServer(t)
	createPlan(t, r, nil)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "seating_batch_runs_total 1"), rec.Body.String())
}

func TestPreflight(t *testing.T) {
	r := newTestServer(t)

	rec := serve(r, httptest.NewRequest(http.MethodOptions, "/plans", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
