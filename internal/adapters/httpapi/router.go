package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/transit-records/internal/platform/metrics"
)

type RouterOptions struct {
	// AdminMiddleware guards the /admin routes. Nil leaves them open.
	AdminMiddleware func(http.Handler) http.Handler
	// Logger receives one access log entry per request. Nil disables access logging.
	Logger logrus.FieldLogger
}

// NewRouter constructs the API HTTP router.
func NewRouter(api *Server) http.Handler {
	return NewRouterWithOptions(api, RouterOptions{Logger: api.Log})
}

func NewRouterWithOptions(api *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Logger != nil {
		r.Use(RequestLogger(opts.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(countRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	svc := api.Records
	r.Get("/users", listHandler(api, svc.GetUsers))
	r.Put("/users", replaceHandler(api, api.saveUsers))
	r.Get("/users/current", api.GetCurrentUser)
	r.Put("/users/current", api.PutCurrentUser)
	r.Get("/passengers", listHandler(api, svc.GetPassengers))
	r.Put("/passengers", replaceHandler(api, svc.SavePassengers))
	r.Get("/conductors", listHandler(api, svc.GetConductors))
	r.Put("/conductors", replaceHandler(api, svc.SaveConductors))
	r.Get("/trips", listHandler(api, svc.GetTrips))
	r.Put("/trips", replaceHandler(api, svc.SaveTrips))
	r.Get("/signatures", listHandler(api, svc.GetSignatures))
	r.Put("/signatures", replaceHandler(api, svc.SaveSignatures))
	r.Get("/conductor-credentials", listHandler(api, svc.GetConductorCredentials))
	r.Put("/conductor-credentials", replaceHandler(api, svc.SaveConductorCredentials))

	r.Route("/admin", func(r chi.Router) {
		if opts.AdminMiddleware != nil {
			r.Use(opts.AdminMiddleware)
		}
		r.Post("/migrations", api.PostMigration)
		r.Delete("/storage", api.DeleteStorage)
	})
	return r
}
