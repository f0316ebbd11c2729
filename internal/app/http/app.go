package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"content_hub/internal/lib/logger/sl"
	authmw "content_hub/internal/middleware"
	httprouters "content_hub/internal/transport/http"
)

const uploadsPath = "/uploads"

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	m       *http.ServeMux
	routers *httprouters.Routers
	authn   authmw.Authenticator
	host    string
	port    string
	timeout time.Duration
	uploads string
}

type Options struct {
	Host       string
	Port       string
	Timeout    time.Duration
	UploadsDir string
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers, authn authmw.Authenticator) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(echoprometheus.NewMiddleware("content_hub"))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Warn("statsviz is not registered", sl.Err(err))
	}

	return &Server{
		log:     log,
		e:       e,
		m:       mux,
		routers: routers,
		authn:   authn,
		host:    opts.Host,
		port:    opts.Port,
		timeout: opts.Timeout,
		uploads: opts.UploadsDir,
	}
}

func (s *Server) BuildRouters() {
	s.e.GET("/metrics", echoprometheus.NewHandler())

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	if s.uploads != "" {
		s.e.Static(uploadsPath, s.uploads)
	}

	s.routers.Register(s.e, s.authn)
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info("starting http server", slog.String("op", op), slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	srv := &http.Server{
		Addr:         s.addr(),
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
	}

	if err := s.e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	const op = "http.Server.Stop"

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: could not shutdown server gracefully: %w", op, err)
	}

	return nil
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.host, s.port)
}
