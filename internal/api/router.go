// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	applicationwizard "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/application-wizard"
	queryapplications "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/query-applications"
	submitapplication "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/submit-application"
	sendadminnotification "github.com/The-Young-Programer/Investor-Zteller/internal/services/communication/send-admin-notification"
	sendconfirmation "github.com/The-Young-Programer/Investor-Zteller/internal/services/communication/send-confirmation"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Logger         logger.Logger
	AllowedOrigin  string
	Limiter        Limiter
	InternalToken  string
	Ready          map[string]Pinger
	RequestTimeout time.Duration

	Submit       *submitapplication.Handler
	Wizard       *applicationwizard.Handler
	Queries      *queryapplications.Handler
	Notification *sendadminnotification.Handler
	Confirmation *sendconfirmation.Handler
}

func NewRouter(deps Dependencies) *mux.Router {
	r := mux.NewRouter()

	r.Use(RequestID(deps.Logger))
	r.Use(Recover(deps.Logger))
	r.Use(Instrument(deps.Logger))
	r.Use(CORS(deps.AllowedOrigin))
	r.Use(RateLimit(deps.Limiter, deps.InternalToken, deps.Logger))
	r.Use(Deadline(deps.RequestTimeout))

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ready", readyHandler(deps.Ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if deps.Submit != nil {
		r.HandleFunc("/api/applications", deps.Submit.Create).Methods(http.MethodPost)
	}
	if deps.Queries != nil {
		deps.Queries.Register(r)
	}
	if deps.Wizard != nil {
		deps.Wizard.Register(r)
	}
	if deps.Notification != nil {
		r.HandleFunc("/api/send-admin-notification", deps.Notification.Send).Methods(http.MethodPost)
	}
	if deps.Confirmation != nil {
		r.HandleFunc("/api/send-confirmation", deps.Confirmation.Send).Methods(http.MethodPost)
	}

	// Preflight requests for any path are answered by the CORS middleware.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	return r
}
