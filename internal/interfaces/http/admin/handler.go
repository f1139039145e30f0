package admin

import (
	"log"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/jlvrmt/cafe-guide-services/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger        *log.Logger
	lookupService adminapp.LookupService
	cafeService   adminapp.CafeService
	reviewService adminapp.ReviewService
	saveWorkflow  *adminapp.SaveWorkflow
}

// Config provides dependencies for Handler.
type Config struct {
	Logger        *log.Logger
	LookupService adminapp.LookupService
	CafeService   adminapp.CafeService
	ReviewService adminapp.ReviewService
	SaveWorkflow  *adminapp.SaveWorkflow
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		lookupService: cfg.LookupService,
		cafeService:   cfg.CafeService,
		reviewService: cfg.ReviewService,
		saveWorkflow:  cfg.SaveWorkflow,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/lookups", h.lookupHandler())
	r.Get("/reviews", h.reviewGroupListHandler())
	r.Post("/reviews", h.reviewSaveHandler())
	r.Delete("/reviews/{id}", h.reviewDeleteHandler())
	r.Delete("/cafes/{id}", h.cafeDeleteHandler())
}
