package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wakelightd/internal/clock"
	"wakelightd/internal/effect"
	"wakelightd/internal/output"
)

type fixedClock struct {
	wall clock.WallTime
}

func (c *fixedClock) Millis() uint64            { return 0 }
func (c *fixedClock) WallClock() clock.WallTime { return c.wall }
func (c *fixedClock) Synced() bool              { return true }

// The scheduler itself satisfies Controller; handler tests drive it
// directly without the serializing loop.
func newTestServer(t *testing.T) (*Server, *effect.Scheduler) {
	t.Helper()
	clk := &fixedClock{wall: clock.WallTime{Hour: 12, Minute: 34}}
	sched := effect.New(clk, output.NewConsole(), nil, effect.DefaultSnapshot())
	return NewServer("127.0.0.1", 0, 1000, sched), sched
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSetAlarm(t *testing.T) {
	srv, sched := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/set-alarm", `{"hour":7,"minute":15}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"hour":7,"minute":15,"enabled":true}`, rec.Body.String())

	alarm := sched.Alarm()
	require.Equal(t, 7, alarm.Hour)
	require.Equal(t, 15, alarm.Minute)
	require.True(t, alarm.Enabled)
}

func TestSetAlarmValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"hour_out_of_range", `{"hour":24,"minute":0}`},
		{"minute_out_of_range", `{"hour":6,"minute":60}`},
		{"missing_minute", `{"hour":6}`},
		{"not_json", `hour=6`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, sched := newTestServer(t)
			rec := doRequest(t, srv, http.MethodPost, "/set-alarm", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.False(t, sched.Alarm().Enabled)
		})
	}
}

func TestToggleAlarm(t *testing.T) {
	srv, sched := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/toggle-alarm", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, sched.Alarm().Enabled)

	rec = doRequest(t, srv, http.MethodPost, "/toggle-alarm", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, sched.Alarm().Enabled)
}

func TestSetBrightness(t *testing.T) {
	srv, sched := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/set-brightness", `{"warm":600,"cool":200}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"warm":600,"cool":200,"fading":true}`, rec.Body.String())
	require.Equal(t, effect.KindManualFade, sched.ActiveKind())
}

func TestSetBrightnessOutOfRange(t *testing.T) {
	srv, sched := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/set-brightness", `{"warm":2000,"cool":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, effect.KindIdle, sched.ActiveKind())
	require.Equal(t, effect.Level{}, sched.Output())
}

func TestManualOnOff(t *testing.T) {
	srv, sched := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/manual-on", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, effect.KindManualFade, sched.ActiveKind())

	rec = doRequest(t, srv, http.MethodPost, "/manual-off", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, effect.KindManualFade, sched.ActiveKind())
}

func TestAutoOffEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/set-auto-off", `{"enabled":true,"minutes":30}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/get-auto-off", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"enabled":true,"minutes":30}`, rec.Body.String())

	rec = doRequest(t, srv, http.MethodPost, "/set-auto-off", `{"enabled":true,"minutes":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"currentTime": "12:34",
		"clockSynced": true,
		"alarmTime": "06:30",
		"alarmEnabled": false,
		"activeEffect": "idle",
		"warmBrightness": 0,
		"coolBrightness": 0,
		"autoOffEnabled": true,
		"autoOffMinutes": 45
	}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodOptions, "/set-alarm", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitRejectsBursts(t *testing.T) {
	clk := &fixedClock{}
	sched := effect.New(clk, output.NewConsole(), nil, effect.DefaultSnapshot())
	srv := NewServer("127.0.0.1", 0, 2, sched)

	var rejected bool
	for i := 0; i < 10; i++ {
		rec := doRequest(t, srv, http.MethodPost, "/manual-on", "")
		if rec.Code == http.StatusTooManyRequests {
			rejected = true
		}
	}
	require.True(t, rejected, "burst of commands should trip the rate limit")

	// Reads are never limited.
	rec := doRequest(t, srv, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
