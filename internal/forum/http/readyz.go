package http

import (
	"net/http"
	"time"

	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/corkboard/corkboard/pkg/httpx"
)

// ReadyzHandler is the readiness probe: it pings the database and reports 503
// until it answers.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:   "ok",
			Uptime:   time.Since(startTime).String(),
			Version:  version,
			Database: "ok",
		}
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = "error: " + err.Error()
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, resp)
	}
}
