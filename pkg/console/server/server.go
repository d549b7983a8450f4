package server

import (
	"net/http"

	"github.com/gantry-io/gantry/cmd/console/config"
	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/gantry-io/gantry/pkg/console/notifications"
	"github.com/gantry-io/gantry/pkg/console/server/streaming"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/gantry-io/gantry/pkg/toolbelt"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	log "github.com/sirupsen/logrus"
)

var apiAuth *jwtauth.JWTAuth

func SetupRouter(
	config *config.Config,
	store *store.Store,
	clientHub *streaming.ClientHub,
	opsAgent *agent.Agent,
	tools *toolbelt.Toolbelt,
	notificationsManager notifications.Manager,
	emitter *telemetry.Emitter,
	varSet *vars.VarSet,
) *chi.Mux {
	apiAuth = jwtauth.New("HS256", []byte(config.JWTSecret), nil)
	_, tokenString, _ := apiAuth.Encode(map[string]interface{}{"user_id": "gantry-cli"})
	log.Infof("CLI JWT is %s\n", tokenString)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Use(middleware.WithValue("config", config))
	r.Use(middleware.WithValue("store", store))
	r.Use(middleware.WithValue("clientHub", clientHub))
	r.Use(middleware.WithValue("agent", opsAgent))
	r.Use(middleware.WithValue("toolbelt", tools))
	r.Use(middleware.WithValue("notificationsManager", notificationsManager))
	r.Use(middleware.WithValue("telemetry", emitter))
	r.Use(middleware.WithValue("varSet", varSet))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", config.Host},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		streaming.ServeWs(clientHub, r.URL.Query().Get("clientId"), w, r)
	})

	apiRoutes(r)

	return r
}

func apiRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(apiAuth))
		r.Use(jwtauth.Authenticator(apiAuth))

		r.Post("/api/chat", chat)
		r.Get("/api/sessions", getSessions)
		r.Get("/api/sessions/{id}", getSession)
		r.Post("/api/feedback", saveFeedback)
		r.Get("/api/events", getEvents)
		r.Get("/api/vars", getVars)
		r.Get("/api/version", getVersion)
		r.Get("/api/preflight", getPreflight)
	})
}
