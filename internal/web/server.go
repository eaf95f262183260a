// Package web serves the task list over HTTP: a JSON API under /api and,
// when no token is configured, an HTML page with plain forms.
package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/tasks/internal/auth"
	"github.com/idilsaglam/tasks/internal/store"
)

// Server is the tasks web server.
type Server struct {
	store  *store.Store
	router *gin.Engine
	token  string
	logger *log.Logger

	// mu serialises mutations so the notifications produced by one request
	// are not mixed with another's.
	mu       sync.Mutex
	captured []string
}

// NewServer wires routes over st. A non-empty token protects /api and
// disables the HTML pages, which cannot send it.
func NewServer(st *store.Store, token string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), limitBody)

	s := &Server{
		store:  st,
		router: router,
		token:  token,
		logger: logger,
	}
	st.SetNotifier(store.NotifierFunc(s.capture))

	if token == "" {
		router.SetHTMLTemplate(template.Must(template.New("index.html").Parse(indexHTML)))
		router.GET("/", s.handleIndex)
		router.POST("/tasks", s.handleFormAdd)
		router.POST("/tasks/:id/edit", s.handleFormEdit)
		router.POST("/tasks/:id/complete", s.handleFormComplete)
		router.POST("/tasks/:id/delete", s.handleFormDelete)
	}

	api := router.Group("/api", s.requireToken)
	{
		api.GET("/tasks", s.handleAPIList)
		api.GET("/tasks/:id", s.handleAPIGet)
		api.POST("/tasks", s.handleAPIAdd)
		api.PUT("/tasks/:id", s.handleAPIEdit)
		api.POST("/tasks/:id/complete", s.handleAPIComplete)
		api.DELETE("/tasks/:id", s.handleAPIDelete)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// capture is the store's notifier. It runs inside mutate, with mu held.
func (s *Server) capture(msg string) {
	s.logger.Printf("notify: %s", msg)
	s.captured = append(s.captured, msg)
}

// mutate runs fn and returns the notifications it produced.
func (s *Server) mutate(fn func() error) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured = nil
	err := fn()
	msgs := s.captured
	s.captured = nil
	if msgs == nil {
		msgs = []string{}
	}
	return msgs, err
}

func (s *Server) requireToken(c *gin.Context) {
	if s.token == "" {
		c.Next()
		return
	}
	got, found := bearerToken(c.GetHeader("Authorization"))
	if !found || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively, as auth.StripBearer does for stored tokens.
func bearerToken(header string) (string, bool) {
	h := strings.TrimSpace(header)
	tok := auth.StripBearer(h)
	if tok == "" || tok == h {
		return "", false
	}
	return tok, true
}

// limitBody caps request bodies at maxBodySize.
func limitBody(c *gin.Context) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	}
	c.Next()
}
