package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-forum-auth/auth"
	"github.com/jrsteele09/go-forum-auth/internal/config"
	"github.com/jrsteele09/go-forum-auth/token"
	"github.com/pkg/errors"
)

// Pinger reports database reachability for the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	handler http.HandlerFunc
	routes  []string
	paths   map[string]struct{}
	config  config.Config
	auth    *auth.Service
	codec   *token.Codec
	repos   auth.Repos
	db      Pinger
	metrics *Metrics
	nowTime func() time.Time
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithNowTime sets the clock used for session expiry checks (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// New wires the HTTP surface. Every request passes through the standard
// middleware and the request gate before reaching the mux.
func New(config config.Config, authService *auth.Service, codec *token.Codec, repos auth.Repos, db Pinger, options ...ServerOption) (*Server, error) {
	if config == nil {
		return nil, errors.New("[server.New] config is required")
	}
	if authService == nil {
		return nil, errors.New("[server.New] auth service is required")
	}
	if codec == nil {
		return nil, errors.New("[server.New] codec is required")
	}
	if repos.Users == nil || repos.Sessions == nil {
		return nil, errors.New("[server.New] user and session repos are required")
	}
	if db == nil {
		return nil, errors.New("[server.New] database pinger is required")
	}

	s := &Server{
		env:     config.GetEnv(),
		mux:     http.NewServeMux(),
		paths:   make(map[string]struct{}),
		config:  config,
		auth:    authService,
		codec:   codec,
		repos:   repos,
		db:      db,
		metrics: NewMetrics(),
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.StandardMiddleware(s.RequireAuth())...)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) now() time.Time {
	return s.nowTime()
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.trackRoute(pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.trackRoute(pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) trackRoute(pattern string) {
	s.routes = append(s.routes, pattern)
	if _, path, ok := strings.Cut(pattern, " "); ok {
		s.paths[path] = struct{}{}
	} else {
		s.paths[pattern] = struct{}{}
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}
