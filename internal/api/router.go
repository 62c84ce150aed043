package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"agenda/internal/auth"
	"agenda/internal/logger"
)

// Handlers groups everything the router mounts. Metrics may be nil.
type Handlers struct {
	Bookings  *BookingHandler
	Calendar  *CalendarHandler
	AdminAuth *AdminAuthHandler
	Admin     *AdminHandler
	Limiter   *RateLimiter
	Metrics   http.Handler
	JWTSecret string
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics).Methods("GET")
	}

	// Public endpoints
	public := r.PathPrefix("/api").Subrouter()
	public.Handle("/bookings", h.Limiter.Middleware(http.HandlerFunc(h.Bookings.CreateBooking))).Methods("POST")
	public.HandleFunc("/slots", h.Bookings.Slots).Methods("GET")
	public.Handle("/calendar-events", h.Limiter.Middleware(http.HandlerFunc(h.Calendar.CreateInvite))).Methods("POST")
	public.HandleFunc("/calendar/connect", h.Calendar.Connect).Methods("GET")
	public.HandleFunc("/calendar/callback", h.Calendar.Callback).Methods("GET")

	r.HandleFunc("/admin/login", h.AdminAuth.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(h.JWTSecret))
	admin.HandleFunc("/bookings", h.Admin.ListBookings).Methods("GET")
	admin.HandleFunc("/users", h.AdminAuth.CreateUserAdmin).Methods("POST")

	return r
}

// AllowedHeaders are the request headers browsers may send cross-origin.
var AllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// Wrap adds CORS, access logging and panic recovery around the router.
func Wrap(h http.Handler, origins []string, log *zap.Logger) http.Handler {
	log = logger.OrNop(log)
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders(AllowedHeaders),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
	)
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log}))
	return handlers.CombinedLoggingHandler(zap.NewStdLog(log).Writer(), recovery(cors(h)))
}

type recoveryLogger struct {
	*zap.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.Error("panic recovered", zap.String("panic", fmt.Sprint(v...)))
}
