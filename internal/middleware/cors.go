package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"tta-backend/internal/config"
)

// NewCORS builds the CORS wrapper for the dashboard SPA. Origins,
// methods, and headers come from config; credentials stay on because
// the SPA sends the bearer token on every call.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		// Preflight cache, 5 minutes
		MaxAge: 300,
	})

	return c.Handler
}
