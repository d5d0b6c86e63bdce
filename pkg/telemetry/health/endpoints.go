package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Paths configures where the health endpoints are mounted.
type Paths struct {
	Liveness  string
	Readiness string
	Version   string
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	writeJSON(w, r, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	return false
}

// LivenessHandler serves the liveness probe. It always answers 200.
//
//	{"status": "ok", "uptime": "3m12s", "timestamp": "2026-01-01T10:30:00Z"}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler serves the readiness probe: 200 when every check passes,
// 503 when the service is degraded.
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "quota": {"status": "ok", "duration_ms": 0.01},
//	        "generation": {"status": "unhealthy", "message": "provider marked unhealthy", "duration_ms": 0.02}
//	    },
//	    "timestamp": "2026-01-01T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}

		status := c.CheckReadiness(r.Context())
		code := http.StatusOK
		if status.Status != StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler serves build information.
func VersionHandler(version, commit, buildTime string) http.HandlerFunc {
	info := VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, info)
	}
}

// Register mounts the liveness, readiness and version handlers on mux.
// Empty paths are skipped.
func Register(mux *http.ServeMux, checker *Checker, paths Paths, info VersionInfo) {
	if paths.Liveness != "" {
		mux.HandleFunc(paths.Liveness, checker.LivenessHandler())
	}
	if paths.Readiness != "" {
		mux.HandleFunc(paths.Readiness, checker.ReadinessHandler())
	}
	if paths.Version != "" {
		mux.HandleFunc(paths.Version, VersionHandler(info.Version, info.Commit, info.BuildTime))
	}
}
