package main

import (
	"net/http"

	muxHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DekuWorks/241RunnersAwareness-sub005/config"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/auth"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/db"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/handlers"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/middlewares"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/notifier"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/realtime"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/repository"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/services"
	"github.com/DekuWorks/241RunnersAwareness-sub005/pkg/log"
)

func main() {
	// Load config and init systems
	cfg := config.LoadConfig()
	log.InitLogger()

	// DB init
	database := db.InitDB(cfg)

	// JWT keys
	publicKey, err := auth.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("failed to load public key")
	}

	// Repos & services
	subRepo := repository.NewSubscriptionRepo(database)
	archiveRepo := repository.NewBroadcastArchiveRepo(database)
	subSvc := services.NewSubscriptionService(subRepo)
	archiveSvc := services.NewArchiveService(archiveRepo)

	// Realtime hubs, one registry per audience
	emailNotifier := notifier.NewEmailNotifier(cfg)
	adminHub := realtime.NewAdminHub(subSvc, cfg.OnlineWindow)
	userHub := realtime.NewUserHub(subSvc, cfg.OnlineWindow)
	alertHub := realtime.NewAlertHub(subSvc, cfg.OnlineWindow, emailNotifier)

	var archiveForFacade *repository.BroadcastArchiveRepo
	if cfg.ArchiveBroadcast {
		archiveForFacade = archiveRepo
	}
	notifySvc := services.NewRealtimeNotificationService(adminHub, userHub, alertHub, archiveForFacade)

	// Router & CORS
	r := mux.NewRouter()
	cors := muxHandlers.CORS(
		muxHandlers.AllowedOrigins(cfg.AllowedOrigins),
		muxHandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		muxHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		muxHandlers.AllowCredentials(),
	)

	// Middlewares
	userAuth := middlewares.RequireAuth(publicKey)
	adminOnly := middlewares.RequireRole("admin")
	rateLimit := middlewares.NewRateLimiter(cfg.BroadcastPerMin)

	// Health & metrics
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Websocket endpoints; ws auth runs inside the handlers so browser
	// clients can pass the token as a query parameter.
	wsOpts := realtime.HandlerOptions{
		PublicKey:      publicKey,
		AllowedOrigins: cfg.AllowedOrigins,
		SendBufferSize: cfg.SendBufferSize,
	}
	r.HandleFunc("/ws/admin", realtime.AdminHandler(adminHub, wsOpts)).Methods("GET")
	r.HandleFunc("/ws/user", realtime.UserHandler(userHub, wsOpts)).Methods("GET")
	r.HandleFunc("/ws/alerts", realtime.AlertsHandler(alertHub, wsOpts)).Methods("GET")

	// ==== REALTIME REST ====
	rtHandler := handlers.NewRealtimeHandler(notifySvc, archiveSvc)
	r.Handle("/api/v1/realtime/online-admins",
		userAuth(adminOnly(http.HandlerFunc(rtHandler.GetOnlineAdmins)))).Methods("GET")
	r.Handle("/api/v1/realtime/stats",
		userAuth(adminOnly(http.HandlerFunc(rtHandler.GetStats)))).Methods("GET")
	r.Handle("/api/v1/realtime/broadcast",
		userAuth(adminOnly(rateLimit.Middleware(http.HandlerFunc(rtHandler.Broadcast))))).Methods("POST")
	r.Handle("/api/v1/realtime/archive",
		userAuth(adminOnly(http.HandlerFunc(rtHandler.GetArchive)))).Methods("GET")

	// ==== SUBSCRIPTIONS ====
	subHandler := handlers.NewSubscriptionHandler(subSvc)
	r.Handle("/api/v1/subscriptions", userAuth(http.HandlerFunc(subHandler.List))).Methods("GET")
	r.Handle("/api/v1/subscriptions", userAuth(http.HandlerFunc(subHandler.Put))).Methods("PUT")

	handler := cors(middlewares.PrometheusMetricsMiddleware(r))

	addr := ":" + cfg.Port
	log.Logger.Info().Str("addr", addr).Str("env", cfg.Environment).Msg("Realtime API listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Logger.Fatal().Err(err).Msg("server stopped")
	}
}
