package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kleviz/pkg/cache"
	"github.com/matzehuels/kleviz/pkg/config"
	"github.com/matzehuels/kleviz/pkg/errors"
	"github.com/matzehuels/kleviz/pkg/observability"
	"github.com/matzehuels/kleviz/pkg/pipeline"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

type serveOpts struct {
	addr    string
	redis   string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var o serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run an HTTP service that renders KLE layouts.

  POST /render/{format}   body: KLE JSON; format: svg, png, json or html
  GET  /healthz

Query parameters width, padding, background, pivots, embed_font, title and
name override the configured render options per request. Artifacts are
cached in redis when --redis (or serve.redis_addr) is set, and in the local
cache directory otherwise.`,
		Example: `  kleviz serve --addr :9000
  curl --data-binary @planck.json localhost:8080/render/svg > planck.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.Serve.Addr = o.addr
			}
			if cmd.Flags().Changed("redis") {
				c.cfg.Serve.RedisAddr = o.redis
			}
			return c.runServe(cmd.Context(), o)
		},
	}

	cmd.Flags().StringVar(&o.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&o.redis, "redis", "", "redis address or URL for the shared artifact cache")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, o serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newServiceRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              c.cfg.Serve.Addr,
		Handler:           newServer(runner, c.cfg, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	printSuccess("Listening on %s", c.cfg.Serve.Addr)

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newServiceRunner prefers redis when configured. An unreachable redis is
// logged and the local cache is used instead, so the service still starts.
func (c *CLI) newServiceRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)
	if !noCache && c.cfg.Serve.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.cfg.Serve.RedisAddr})
		if err == nil {
			runner := pipeline.NewRunner(rc, versionKeyer(), logger)
			runner.TTL = c.cfg.Serve.CacheTTL
			logger.Info("Using redis cache", "addr", c.cfg.Serve.RedisAddr)
			return runner, nil
		}
		logger.Warn("Redis unavailable, using local cache", "err", err)
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, err
	}
	runner.TTL = c.cfg.Serve.CacheTTL
	return runner, nil
}

// =============================================================================
// HTTP handlers
// =============================================================================

type server struct {
	runner  *pipeline.Runner
	base    pipeline.Options
	maxBody int64
	logger  *log.Logger
}

func newServer(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *server {
	base := pipeline.FromConfig(cfg)
	base.Logger = logger
	return &server{
		runner:  runner,
		base:    base,
		maxBody: cfg.Serve.MaxBodyBytes,
		logger:  logger,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render/{format}", s.handleRender)
	return r
}

// requestID tags every request with an X-Request-ID, keeping one supplied
// by the client when it parses as a UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		r.Header.Set(requestIDHeader, id)
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// observe reports every request to the HTTP hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		id := r.Header.Get(requestIDHeader)
		hooks.OnRequest(r.Context(), id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), id, r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, name, err := s.requestOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.New(errors.ErrCodeTooLarge, "layout too large (max %d bytes)", s.maxBody)
		}
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateLayoutData(data); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Input{Name: name, Data: data}, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Cache", cacheStatus(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// requestOptions applies query overrides to the configured options.
func (s *server) requestOptions(r *http.Request, format string) (pipeline.Options, string, error) {
	q := r.URL.Query()
	opts := s.base
	opts.Formats = []string{format}

	name := q.Get("name")
	if err := errors.ValidateName(name); err != nil {
		return opts, "", err
	}
	if name == "" {
		name = "request"
	}

	if v := q.Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "width: %q is not an integer", v)
		}
		opts.PixelWidth = n
	}
	if v := q.Get("padding"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "padding: %q is not a number", v)
		}
		opts.Padding = pipeline.Padding(p)
	}
	if q.Has("background") {
		opts.Background = q.Get("background")
	}
	for param, dst := range map[string]*bool{"pivots": &opts.Pivots, "embed_font": &opts.EmbedFont} {
		if v := q.Get(param); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, "", errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a boolean", param, v)
			}
			*dst = b
		}
	}
	opts.Title = q.Get("title")
	opts.Refresh = q.Get("refresh") == "true"

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, "", err
	}
	return opts, name, nil
}

type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "path", r.URL.Path, "err", err)
	}

	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	body.Error.RequestID = r.Header.Get(requestIDHeader)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
