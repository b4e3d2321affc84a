package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"ms-booths/internal/auth"
	"ms-booths/internal/logger"
	"ms-booths/internal/middleware"
)

const APIBase = "/api/v1"

type RouterConfig struct {
	Handler        *Handler
	Gate           *auth.Gate
	Logger         *logger.Logger
	OrderLimiter   *middleware.RateLimiter // optional
	AllowedOrigins []string
	StaticDir      string
	UploadDir      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler
	log := cfg.Logger

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.EnhancedLogger(log))
	r.Use(middleware.SecurityHeaders(log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// --- Static pages ---
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/index", http.StatusFound)
	})
	r.Get("/index", serveFile(cfg.StaticDir, "index.html"))
	r.Get("/admin", serveFile(cfg.StaticDir, "admin.html"))
	r.Handle("/js/*", http.StripPrefix("/js/", http.FileServer(http.Dir(filepath.Join(cfg.StaticDir, "js")))))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	r.Get("/health", h.Health)

	r.Route(APIBase, func(r chi.Router) {
		// --- Public Routes ---
		r.Get("/booths", h.ListBooths)
		r.Get("/booths/{boothId}", h.GetBooth)
		r.Get("/booths/{boothId}/menus", h.ListBoothMenus)
		r.Get("/orders/{id}/qr", h.PickupQR)
		r.Group(func(r chi.Router) {
			if cfg.OrderLimiter != nil {
				r.Use(cfg.OrderLimiter.Handler)
			}
			r.Post("/orders", h.CreateOrder)
		})

		// --- Admin Routes ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(cfg.Gate, log))

			r.Get("/whoami", h.WhoAmI)
			r.Post("/upload", h.Upload)
			r.Post("/booths", h.CreateBooth)
			r.Post("/booths/status", h.SetBoothStatus)
			r.Get("/booths/{boothId}/summary", h.BoothSummary)
			r.Post("/menus", h.CreateMenu)
			r.Get("/menus", h.ListMenus)
			r.Get("/reservations", h.ListReservations)
			r.Post("/reservations/status", h.SetReservationStatus)
			r.Post("/reservations/pickup", h.RedeemPickup)
		})
	})
	log.Info("ROUTER", "Public and admin routes registered under "+APIBase)

	return r
}

func serveFile(dir, name string) http.HandlerFunc {
	path := filepath.Join(dir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}
