package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"

	"github.com/phanxgames/rolloc"
	"github.com/phanxgames/rolloc/internal/catalog"
)

type fixedRNG struct {
	f float64
	n int
}

func (r fixedRNG) Float64() float64 { return r.f }
func (r fixedRNG) IntN(n int) int   { return r.n % n }

const testCatalog = `
wheels:
  - id: coin
    title: Coin
    wheel:
      rollOptions:
        duration: 1000
      items:
        - value: heads
        - value: tails
`

type fixture struct {
	e     *echo.Echo
	svc   *Service
	clock *clock.Mock
}

func newFixture(t *testing.T, rng rolloc.RNG, timeout time.Duration) *fixture {
	t.Helper()
	return newLimitedFixture(t, rng, Limits{SpinTimeout: timeout})
}

func newLimitedFixture(t *testing.T, rng rolloc.RNG, limits Limits) *fixture {
	t.Helper()
	cat, err := catalog.Parse(strings.NewReader(testCatalog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mock := clock.NewMock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewService(cat, logger, limits, rolloc.WithRNG(rng), rolloc.WithClock(mock))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.Use(LoggingMiddleware(logger))
	NewHandler(svc).Register(e)
	return &fixture{e: e, svc: svc, clock: mock}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

// landWhenSpinning advances the mock clock once wheel id has a spin running.
func (f *fixture) landWhenSpinning(t *testing.T, id string, d time.Duration) {
	t.Helper()
	w, err := f.svc.Wheel(id)
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for !w.Spinning() && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		f.clock.Add(d)
	}()
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	rec := f.do(http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(headerRequestID) == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestRequestID_Preserved(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "abc-123")
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	if got := rec.Header().Get(headerRequestID); got != "abc-123" {
		t.Errorf("X-Request-Id = %q, want abc-123", got)
	}
}

func TestListWheels(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	rec := f.do(http.MethodGet, "/v1/wheels", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp WheelListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Wheels) != 1 || resp.Wheels[0].ID != "coin" || resp.Wheels[0].Items != 2 {
		t.Errorf("wheels = %+v", resp.Wheels)
	}
}

func TestGetWheel(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	rec := f.do(http.MethodGet, "/v1/wheels/coin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp WheelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Title != "Coin" || resp.Radius != 250 || resp.Anchor.Type != "line" || resp.Anchor.PositionAngle != 100 {
		t.Errorf("unexpected wheel: %+v", resp)
	}
	if resp.Roll.Type != "anchor" || resp.Roll.Duration.Ms != 1000 {
		t.Errorf("roll = %+v", resp.Roll)
	}
	if len(resp.Items) != 2 || resp.Items[0].EndAngle != 180 || resp.Items[1].StartAngle != 180 || resp.Items[1].EndAngle != 360 {
		t.Errorf("items = %+v", resp.Items)
	}
}

func TestGetWheel_NotFound(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	for _, path := range []string{"/v1/wheels/nope", "/v1/wheels/nope/svg"} {
		if rec := f.do(http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s = %d, want 404", path, rec.Code)
		}
	}
}

func TestGetSVG(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	rec := f.do(http.MethodGet, "/v1/wheels/coin/svg", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"<svg", `id="slice-0"`, `id="slice-1"`, `id="anchor"`, ">heads<"} {
		if !strings.Contains(body, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestSpin(t *testing.T) {
	tests := []struct {
		name      string
		rng       fixedRNG
		wantValue string
		wantDelta float64
	}{
		// 1000ms * 1 = 1000deg; (1000 + 100) mod 360 = 20 -> slice 0.
		{"heads", fixedRNG{f: 0}, "heads", 1000},
		// 1000ms * 2 = 2000deg; (2000 + 100) mod 360 = 300 -> slice 1.
		{"tails", fixedRNG{f: 0.5}, "tails", 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.rng, 0)
			f.landWhenSpinning(t, "coin", time.Second)

			rec := f.do(http.MethodPost, "/v1/wheels/coin/spin", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			var resp SpinResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Value != tt.wantValue || resp.Delta != tt.wantDelta || resp.Rotation != tt.wantDelta {
				t.Errorf("spin = %+v", resp)
			}
			if resp.DurationMS != 1000 || resp.Seq != 1 || resp.RequestID == "" {
				t.Errorf("spin meta = %+v", resp)
			}
		})
	}
}

func TestSpin_DurationOverride(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	f.landWhenSpinning(t, "coin", 250*time.Millisecond)

	rec := f.do(http.MethodPost, "/v1/wheels/coin/spin", `{"duration": {"min": 250, "max": 250}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp SpinResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DurationMS != 250 || resp.Delta != 250 {
		t.Errorf("spin = %+v", resp)
	}
}

func TestSpin_BadRequest(t *testing.T) {
	bodies := []string{
		`{"duration": -5}`,
		`{"duration": {"min": 10, "max": 1}}`,
		`{"speed": 3}`,
		`{"duration": `,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			f := newFixture(t, fixedRNG{}, 0)
			rec := f.do(http.MethodPost, "/v1/wheels/coin/spin", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			w, _ := f.svc.Wheel("coin")
			if w.Rotation() != 0 {
				t.Errorf("rejected spin changed rotation to %v", w.Rotation())
			}
		})
	}
}

func TestSpin_NotFound(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	if rec := f.do(http.MethodPost, "/v1/wheels/nope/spin", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSpin_Conflict(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 0)
	w, _ := f.svc.Wheel("coin")
	s, err := w.Spin(context.Background(), rolloc.SpinOptions{})
	if err != nil {
		t.Fatal(err)
	}

	rec := f.do(http.MethodPost, "/v1/wheels/coin/spin", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}

	f.clock.Add(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := s.Wait(ctx); err != nil {
		t.Fatalf("first spin did not land: %v", err)
	}
}

func TestSpin_Timeout(t *testing.T) {
	f := newFixture(t, fixedRNG{}, 20*time.Millisecond)
	rec := f.do(http.MethodPost, "/v1/wheels/coin/spin", "")
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestSpin_DurationTooLong(t *testing.T) {
	f := newLimitedFixture(t, fixedRNG{}, Limits{MaxSpinDuration: 5 * time.Second})
	for _, body := range []string{
		`{"duration": 1e11}`,
		`{"duration": 5001}`,
		`{"duration": {"min": 100, "max": 6000}}`,
	} {
		rec := f.do(http.MethodPost, "/v1/wheels/coin/spin", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
	}
	w, _ := f.svc.Wheel("coin")
	if w.Spinning() || w.Rotation() != 0 {
		t.Error("a rejected spin must not start")
	}

	// At the limit the spin runs.
	f.landWhenSpinning(t, "coin", 5*time.Second)
	rec := f.do(http.MethodPost, "/v1/wheels/coin/spin", `{"duration": 5000}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestSpin_DefaultDurationTooLong(t *testing.T) {
	f := newLimitedFixture(t, fixedRNG{}, Limits{MaxSpinDuration: 500 * time.Millisecond})
	// The coin wheel defaults to 1000 ms.
	rec := f.do(http.MethodPost, "/v1/wheels/coin/spin", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
