// Package roster exposes the daily roster log over HTTP.
package roster

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/core/rosterlog"
)

// NewLogHandler returns an HTTP handler exposing the roster log via
// GET /api/roster/log. Supported filters are day, from_day, to_day,
// vehicle_id and duty. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewLogHandler(store rosterlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []rosterlog.Record{}
		}
		writeJSON(w, records)
	})
}

// NewSummaryHandler exposes the final fleet status and duty counts via
// GET /api/roster/summary.
func NewSummaryHandler(store rosterlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sum, err := rosterlog.FinalStatus(r.Context(), store)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, sum)
	})
}

// RateLimit rejects requests beyond rps with 429. A non-positive rps
// disables the limit.
func RateLimit(next http.Handler, rps float64, burst int) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !lim.Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func authorized(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	got := r.Header.Get("Authorization")
	return subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+token)) == 1
}

func parseQuery(r *http.Request) (rosterlog.Query, error) {
	v := r.URL.Query()
	q := rosterlog.Query{VehicleID: v.Get("vehicle_id")}
	for name, dst := range map[string]*int{"day": &q.Day, "from_day": &q.FromDay, "to_day": &q.ToDay} {
		s := v.Get(name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return q, &paramError{name: name, value: s}
		}
		*dst = n
	}
	if s := v.Get("duty"); s != "" {
		d, err := model.ParseDuty(s)
		if err != nil {
			return q, &paramError{name: "duty", value: s}
		}
		q.Duty = &d
	}
	return q, nil
}

type paramError struct{ name, value string }

func (e *paramError) Error() string { return "invalid " + e.name + ": " + e.value }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
