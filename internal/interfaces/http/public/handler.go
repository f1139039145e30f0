package public

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jlvrmt/cafe-guide-services/api/internal/interfaces/http/common"
	publicapp "github.com/jlvrmt/cafe-guide-services/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger      *log.Logger
	cafeQueries publicapp.CafeQueryService
	accounts    publicapp.AdminAccountRepository
	sessions    *common.SessionEvents
	jwtSecret   []byte
	jwtIssuer   string
	jwtAudience string
	tokenTTL    time.Duration
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger      *log.Logger
	CafeQueries publicapp.CafeQueryService
	Accounts    publicapp.AdminAccountRepository
	Sessions    *common.SessionEvents
	JWTSecret   []byte
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Handler{
		logger:      cfg.Logger,
		cafeQueries: cfg.CafeQueries,
		accounts:    cfg.Accounts,
		sessions:    cfg.Sessions,
		jwtSecret:   cfg.JWTSecret,
		jwtIssuer:   cfg.JWTIssuer,
		jwtAudience: cfg.JWTAudience,
		tokenTTL:    ttl,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/cafes", h.cafeListHandler())
	r.Get("/cafes/cities", h.cityListHandler())
	r.Post("/auth/login", h.loginHandler())
	r.With(authMiddleware).Get("/auth/session", h.sessionHandler())
	r.With(authMiddleware).Post("/auth/logout", h.logoutHandler())
}
