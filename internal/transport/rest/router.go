package rest

import (
	_ "dronediag/internal/docs"
	"dronediag/internal/service"
	"dronediag/internal/transport/rest/handler"
	"dronediag/internal/transport/rest/middleware"
	"dronediag/internal/transport/ws"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	DatasetService   *service.DatasetService
	DiagnosisService *service.DiagnosisService
	WSHub            *ws.Hub
	Logger           *slog.Logger

	AllowedOrigins  []string
	RateLimitRPS    float64
	RateLimitBurst  int
	TrustProxy      bool
	OTelServiceName string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	log := c.Logger
	if log == nil {
		log = slog.Default()
	}

	// Initialize handlers
	diagnosisHandler := handler.NewDiagnosisHandler(c.DiagnosisService)
	catalogHandler := handler.NewCatalogHandler(c.DatasetService)
	wsHandler := ws.NewHandler(c.WSHub, c.DiagnosisService, originChecker(c.AllowedOrigins))

	authMW := middleware.NewAuthMiddleware(c.DiagnosisService.Tokens())

	r.HandleFunc("/health", handler.Health).Methods("GET")
	r.HandleFunc("/swagger/doc.json", handler.SwaggerDoc).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/diagnoses", diagnosisHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/categories", catalogHandler.ListCategories).Methods("GET", "OPTIONS")
	v1.HandleFunc("/categories/{key}", catalogHandler.GetCategory).Methods("GET", "OPTIONS")
	v1.HandleFunc("/products", catalogHandler.ListProducts).Methods("GET", "OPTIONS")
	v1.HandleFunc("/products/{id}", catalogHandler.GetProduct).Methods("GET", "OPTIONS")
	v1.HandleFunc("/question-sets/{id}", catalogHandler.GetQuestionSet).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/diagnoses/{sessionId}", wsHandler.DiagnosisWS).Methods("GET")

	// Session routes (require the session token)
	authed := func(f http.HandlerFunc) http.Handler { return authMW.RequireSession(f) }

	v1.Handle("/diagnoses/{sessionId}", authed(diagnosisHandler.Get)).Methods("GET", "OPTIONS")
	v1.Handle("/diagnoses/{sessionId}", authed(diagnosisHandler.End)).Methods("DELETE")
	v1.Handle("/diagnoses/{sessionId}/answers", authed(diagnosisHandler.Answer)).Methods("POST", "OPTIONS")
	v1.Handle("/diagnoses/{sessionId}/back", authed(diagnosisHandler.Back)).Methods("POST", "OPTIONS")
	v1.Handle("/diagnoses/{sessionId}/reset", authed(diagnosisHandler.Reset)).Methods("POST", "OPTIONS")

	mw := []middleware.Middleware{
		middleware.Recover(log),
		middleware.Logger(log),
		middleware.CORS(c.AllowedOrigins),
		middleware.RateLimit(c.RateLimitRPS, c.RateLimitBurst, c.TrustProxy),
	}
	if c.OTelServiceName != "" {
		mw = append([]middleware.Middleware{middleware.OTel(c.OTelServiceName)}, mw...)
	}
	return middleware.Chain(r, mw...)
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
