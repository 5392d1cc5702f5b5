// README: Farecheck cases: reference fares, audit table, route cache and HTTP API checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"rido/internal/modules/pricing"
)

type Runner struct {
	cfg    Config
	httpc  *http.Client
	db     *pgxpool.Pool
	redis  *redis.Client
	engine pricing.Engine
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: 10 * time.Second},
		engine: pricing.DefaultEngine(),
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

type fareCase struct {
	name     string
	distance float64
	duration float64
	pickup   string
	hour     int
	want     int64
}

var referenceFares = []fareCase{
	{"central at noon", 0, 0, "MG Road", 12, 78},
	{"it corridor at morning peak", 10, 20, "Whitefield", 9, 420},
	{"unknown area late night", 5, 10, "Unknown Area", 22, 130},
	{"north at evening peak", 3, 8, "Hebbal", 18, 184},
	{"south off peak", 8, 15, "Jayanagar, 4th Block", 14, 189},
}

func (f fareCase) at() time.Time {
	return time.Date(2026, 2, 10, f.hour, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
}

func (r *Runner) cases() []TestCase {
	var tests []TestCase
	for _, f := range referenceFares {
		tests = append(tests, localFareCase(f))
	}
	tests = append(tests,
		TestCase{Name: "Engine: negative distance rejected", Run: func(ctx context.Context, r *Runner) Result {
			if _, err := r.engine.Calculate(-1, 5, "MG Road", time.Now()); err == nil {
				return Result{Status: "FAIL", Note: "expected invalid input"}
			}
			return Result{Status: "PASS"}
		}},
		TestCase{Name: "Env: Postgres fare_quotes table", Run: checkAuditTable},
		TestCase{Name: "Env: Redis route cache", Run: checkRedis},
		apiCase("API: health", http.MethodGet, "/health", nil, http.StatusOK),
		apiCase("API: zone catalog", http.MethodGet, "/api/zones", nil, http.StatusOK),
		apiCase("API: quote missing fields -> 400", http.MethodPost, "/api/fares/quote", map[string]any{}, http.StatusBadRequest),
		apiCase("API: quote negative distance -> 400", http.MethodPost, "/api/fares/quote", map[string]any{
			"distance_km": -2, "duration_min": 5, "pickup": "MG Road",
		}, http.StatusBadRequest),
		apiCase("API: booking without login -> 401", http.MethodPost, "/api/rides", map[string]any{
			"pickup": "MG Road", "drop": "Whitefield",
		}, http.StatusUnauthorized),
		apiCase("API: mock login", http.MethodPost, "/api/session/login", map[string]any{"handle": "farecheck@example.com"}, http.StatusCreated),
	)
	for _, f := range referenceFares {
		tests = append(tests, apiFareCase(f))
	}
	tests = append(tests, TestCase{Name: "Perf: quote load", Run: quoteLoad})
	return tests
}

func localFareCase(f fareCase) TestCase {
	return TestCase{
		Name: "Engine: " + f.name,
		Run: func(ctx context.Context, r *Runner) Result {
			q, err := r.engine.Calculate(f.distance, f.duration, f.pickup, f.at())
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if q.RoundedTotal != f.want {
				return Result{Status: "FAIL", Note: fmt.Sprintf("total=%d want=%d", q.RoundedTotal, f.want)}
			}
			return Result{Status: "PASS", Note: fmt.Sprintf("₹%d %s", q.RoundedTotal, q.ZoneName)}
		},
	}
}

func apiFareCase(f fareCase) TestCase {
	return TestCase{
		Name: "API: quote " + f.name,
		Run: func(ctx context.Context, r *Runner) Result {
			if r.cfg.BaseURL == "" {
				return Result{Status: "SKIP", Note: "base-url not set"}
			}
			body := map[string]any{
				"distance_km":  f.distance,
				"duration_min": f.duration,
				"pickup":       f.pickup,
				"at":           f.at().Format(time.RFC3339),
			}
			var out struct {
				Quote pricing.Quote `json:"quote"`
			}
			status, latency, err := r.doJSON(ctx, http.MethodPost, "/api/fares/quote", body, &out)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if status != http.StatusOK {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			if out.Quote.RoundedTotal != f.want {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("total=%d want=%d", out.Quote.RoundedTotal, f.want)}
			}
			return Result{Status: "PASS", Latency: latency}
		},
	}
}

func apiCase(name, method, path string, body any, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			if r.cfg.BaseURL == "" {
				return Result{Status: "SKIP", Note: "base-url not set"}
			}
			status, latency, err := r.doJSON(ctx, method, path, body, nil)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			note := fmt.Sprintf("status=%d", status)
			if status != want {
				return Result{Status: "FAIL", Latency: latency, Note: note}
			}
			return Result{Status: "PASS", Latency: latency, Note: note}
		},
	}
}

func (r *Runner) doJSON(ctx context.Context, method, path string, body, out any) (int, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, 0, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	latency := time.Since(start)
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, latency, err
		}
		return resp.StatusCode, latency, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, latency, nil
}

func checkAuditTable(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: "SKIP", Note: "dsn not set"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
		"fare_quotes",
	).Scan(&exists)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if !exists {
		return Result{Status: "FAIL", Note: "missing table: fare_quotes"}
	}
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM fare_quotes").Scan(&n); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("quotes=%d", n)}
}

func checkRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: "SKIP", Note: "redis not set"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	keys, _, err := r.redis.Scan(ctx, 0, "route:*", 100).Result()
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("cached routes (first page)=%d", len(keys))}
}

func quoteLoad(ctx context.Context, r *Runner) Result {
	if r.cfg.BaseURL == "" || r.cfg.Duration <= 0 {
		return Result{Status: "SKIP", Note: "base-url or duration not set"}
	}
	b, _ := json.Marshal(map[string]any{"distance_km": 10, "duration_min": 20, "pickup": "Whitefield"})
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/api/fares/quote", strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}
