package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 2 * time.Second

//go:embed static/openapi.json templates/docs.html
var docAssets embed.FS

var (
	openAPIDocument = mustReadAsset("static/openapi.json")
	docsTemplate    = template.Must(template.ParseFS(docAssets, "templates/docs.html"))
)

func mustReadAsset(name string) []byte {
	data, err := docAssets.ReadFile(name)
	if err != nil {
		panic("missing embedded asset " + name + ": " + err.Error())
	}
	return data
}

type docsPageData struct {
	AppName string
	SpecURL string
}

// OpenAPIHandler serves the static API description
func (s *Server) OpenAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if _, err := w.Write(openAPIDocument); err != nil {
			logError(r.Method, r.URL.Path, err.Error())
		}
	}
}

// DocsHandler renders a ReDoc page over /openapi.json
func (s *Server) DocsHandler() http.HandlerFunc {
	data := docsPageData{
		AppName: s.config.GetAppName(),
		SpecURL: RouteOpenAPI,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := docsTemplate.Execute(w, data); err != nil {
			log.Error().Err(err).Msg("failed to render docs template")
		}
	}
}

// HealthHandler pings the database
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
