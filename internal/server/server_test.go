package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanpath/internal/app"
	"scanpath/internal/db"
	"scanpath/internal/paths"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Service) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "scanpath.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := app.New(store, nil)
	svc.Now = func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	ts := httptest.NewServer(New(svc, nil).Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func configure(t *testing.T, svc *app.Service) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.SetTemplate(ctx, "i22", paths.KindVisit, "{instrument}/{visit}"))
	require.NoError(t, svc.SetTemplate(ctx, "i22", paths.KindScan, "{beamline.visit}/{scan_number}"))
	require.NoError(t, svc.SetTemplate(ctx, "i22", paths.KindDetector, "{scan.scan_number}_{detector}"))
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	blob, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(blob))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	var body map[string]string
	status := getJSON(t, ts.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestPaths(t *testing.T) {
	ts, svc := newTestServer(t)
	configure(t, svc)

	var body visitPathResponse
	status := getJSON(t, ts.URL+"/paths?beamline=i22&visit=cm12345-3", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "i22/cm12345-3", body.Directory)
}

func TestPathsMissingParams(t *testing.T) {
	ts, _ := newTestServer(t)
	var body errorResponse
	status := getJSON(t, ts.URL+"/paths?beamline=i22", &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPathsInvalidVisit(t *testing.T) {
	ts, svc := newTestServer(t)
	configure(t, svc)
	var body errorResponse
	status := getJSON(t, ts.URL+"/paths?beamline=i22&visit=not-a-visit", &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPathsUnknownBeamline(t *testing.T) {
	ts, _ := newTestServer(t)
	var body errorResponse
	status := getJSON(t, ts.URL+"/paths?beamline=b99&visit=cm12345-3", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body.Error, "b99")
}

func TestScanAllocation(t *testing.T) {
	ts, svc := newTestServer(t)
	configure(t, svc)

	var body scanResponse
	status := postJSON(t, ts.URL+"/scan", scanRequest{
		Beamline:  "i22",
		Visit:     "cm12345-3",
		Detectors: []string{"det 1", "det-2"},
	}, &body)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body.ScanNumber)
	assert.Equal(t, "cm12345-3/1", body.ScanFile)
	require.Len(t, body.Detectors, 2)
	assert.Equal(t, app.DetectorPath{Name: "det_1", Path: "1_det_1"}, body.Detectors[0])
	assert.Equal(t, app.DetectorPath{Name: "det_2", Path: "1_det_2"}, body.Detectors[1])

	// A second request gets the next number.
	var second scanResponse
	status = postJSON(t, ts.URL+"/scan", scanRequest{Beamline: "i22", Visit: "cm12345-3"}, &second)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, second.ScanNumber)
	assert.Empty(t, second.Detectors)
}

func TestScanRejectsBadSubdirectory(t *testing.T) {
	ts, svc := newTestServer(t)
	configure(t, svc)

	var body errorResponse
	status := postJSON(t, ts.URL+"/scan", scanRequest{
		Beamline:     "i22",
		Visit:        "cm12345-3",
		Subdirectory: "../escape",
	}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestScanTemplateNotSet(t *testing.T) {
	ts, svc := newTestServer(t)
	require.NoError(t, svc.SetTemplate(context.Background(), "i22", paths.KindVisit, "{instrument}/{visit}"))

	var body errorResponse
	status := postJSON(t, ts.URL+"/scan", scanRequest{Beamline: "i22", Visit: "cm12345-3"}, &body)
	assert.Equal(t, http.StatusConflict, status)
}
