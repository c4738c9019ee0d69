// Package http provides HTTP routing and JSON handlers for the
// hardware-loan portal API.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/avolkovs/hwledger/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the portal
// API. It applies JSON content-type enforcement and request logging, and
// mounts the auth, hardware, and project endpoints under /api.
//
// Routes:
//
//	POST /api/register                    → authHandler.Register
//	POST /api/login                       → authHandler.Login
//	POST /api/logout                      → authHandler.Logout
//	GET  /api/hardware                    → hardwareHandler.Status
//	POST /api/hardware/{name}/checkout    → hardwareHandler.Checkout (session required)
//	POST /api/hardware/{name}/checkin     → hardwareHandler.Checkin  (session required)
//	POST /api/projects                    → projectHandler.Create    (session required)
//	GET  /api/projects                    → projectHandler.List      (session required)
//	GET  /api/projects/{id}               → projectHandler.Get       (session required)
//	POST /api/projects/{id}/join          → projectHandler.Join      (session required)
//	POST /api/projects/{id}/leave         → projectHandler.Leave     (session required)
func NewRouter(
	authHandler *AuthHandler,
	hardwareHandler *HardwareHandler,
	projectHandler *ProjectHandler,
	sessionSecret []byte,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/hardware", hardwareHandler.Status)

		// Protected group: requires a valid session cookie
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessionSecret))

			r.Post("/hardware/{name}/checkout", hardwareHandler.Checkout)
			r.Post("/hardware/{name}/checkin", hardwareHandler.Checkin)

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", projectHandler.Create)
				r.Get("/", projectHandler.List)
				r.Get("/{id}", projectHandler.Get)
				r.Post("/{id}/join", projectHandler.Join)
				r.Post("/{id}/leave", projectHandler.Leave)
			})
		})
	})

	return r
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
