package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/live"
	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/profile"
	"github.com/2beens/workoutlog/internal/records"
	"github.com/2beens/workoutlog/internal/sessions"
	"github.com/2beens/workoutlog/internal/stats"
	"github.com/2beens/workoutlog/internal/store"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts"
	"github.com/2beens/workoutlog/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	instanceID        string // origin of the change events published by this instance

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient   *redis.Client
	tokenVerifier *auth.TokenVerifier
	loginChecker  *auth.LoginChecker
	authService   *auth.Service

	// workouts and everything derived from them
	workoutStore    *store.Store
	storeListener   *store.Listener
	workoutsService *workouts.Service
	routinesRepo    *workouts.RoutinesRepo
	recordsService  *records.Service
	profileService  *profile.Service
	sessionsService *sessions.Service
	statsHandler    *stats.Handler
	statsCache      *stats.Cache

	// metrics
	metricsManager      *metrics.Manager
	promRegistry        *prometheus.Registry
	metricsPasswordHash string
	otelShutdown        func()

	backgroundWG sync.WaitGroup
}

type NewServerParams struct {
	Config                  *config.Config
	AuthSecret              string
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	MetricsPasswordHash     string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	if params.AuthSecret == "" {
		return nil, errors.New("auth secret not set")
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if err := db.Migrate(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("workoutlog", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "workoutlog", rdb)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,
		instanceID:  uuid.NewString(),

		redisClient:   rdb,
		tokenVerifier: auth.NewTokenVerifier([]byte(params.AuthSecret), params.Config.AuthIssuer),
		loginChecker:  auth.NewLoginChecker(rdb),
		authService:   auth.NewAuthService(rdb),

		metricsManager:      metricsManager,
		promRegistry:        promRegistry,
		metricsPasswordHash: params.MetricsPasswordHash,
		otelShutdown:        otelShutdown,
	}
	s.wireServices()

	return s, nil
}

// wireServices builds the domain services. Workout changes go to the local
// store right away and to the other instances through redis.
func (s *Server) wireServices() {
	cfg := s.config

	s.workoutStore = store.New()
	s.recordsService = records.NewService(
		records.NewRepo(s.dbPool),
		cfg.TrackedExercises,
		s.metricsManager,
	)
	s.workoutsService = workouts.NewService(
		workouts.NewRepo(s.dbPool),
		s.recordsService,
		store.Notifiers{
			store.NewLocalNotifier(s.workoutStore),
			store.NewRedisNotifier(s.redisClient, s.instanceID),
		},
		s.metricsManager,
	)
	s.storeListener = store.NewListener(s.redisClient, s.workoutStore, s.workoutsService, s.instanceID)

	s.routinesRepo = workouts.NewRoutinesRepo(s.dbPool)
	s.profileService = profile.NewService(profile.NewRepo(s.dbPool))
	s.sessionsService = sessions.NewService(
		s.redisClient,
		s.routinesRepo,
		s.workoutsService,
		cfg.SessionTTL(),
		s.metricsManager,
	)

	s.statsCache = stats.NewCache(cfg.StatsCacheSizeMB*1024*1024, cfg.StatsCacheTTL(), s.metricsManager)
	s.workoutStore.SubscribeAll(func(userID string, _ []workouts.WorkoutSummary) {
		s.statsCache.Invalidate(userID)
	})
	s.statsHandler = stats.NewHandler(
		store.NewReader(s.workoutStore, s.workoutsService),
		stats.NewCalculator(cfg.Location(), cfg.StreakWindowDays, time.Now),
		s.statsCache,
	)
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	authHandler := auth.NewHandler(s.authService)
	r.HandleFunc("/a/logout", authHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")

	workoutsHandler := workouts.NewHandler(s.workoutsService)
	r.HandleFunc("/workouts", workoutsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts/page/{page}/size/{size}", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/exercises/catalog", workoutsHandler.HandleCatalog).Methods("GET", "OPTIONS").Name("exercise-catalog")
	r.HandleFunc("/exercises/categories", workoutsHandler.HandleCatalogCategories).Methods("GET", "OPTIONS").Name("exercise-categories")

	routinesHandler := workouts.NewRoutinesHandler(s.routinesRepo)
	r.HandleFunc("/routines", routinesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-routine")
	r.HandleFunc("/routines", routinesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines", routinesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")

	sessionsHandler := sessions.NewHandler(s.sessionsService)
	r.HandleFunc("/sessions", sessionsHandler.HandleStart).Methods("POST", "OPTIONS").Name("start-session")
	r.HandleFunc("/sessions/{id}", sessionsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/sessions/{id}", sessionsHandler.HandleDiscard).Methods("DELETE", "OPTIONS").Name("discard-session")
	r.HandleFunc("/sessions/{id}/exercises", sessionsHandler.HandleUpdateExercises).Methods("PUT", "OPTIONS").Name("update-session-exercises")
	r.HandleFunc("/sessions/{id}/finish", sessionsHandler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-session")

	r.HandleFunc("/stats", s.statsHandler.HandleGet).Methods("GET", "OPTIONS").Name("stats")

	recordsHandler := records.NewHandler(s.recordsService, s.profileService)
	r.HandleFunc("/records", recordsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-records")

	profileHandler := profile.NewHandler(s.profileService)
	r.HandleFunc("/profile", profileHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", profileHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/profile/preferences", profileHandler.HandleUpdatePreferences).Methods("PUT", "OPTIONS").Name("update-preferences")

	liveHandler := live.NewHandler(
		s.statsHandler,
		s.workoutStore,
		s.config.AllowedOrigins,
		s.metricsManager,
	)
	r.HandleFunc("/live/stats", liveHandler.HandleStats).Methods("GET").Name("live-stats")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.tokenVerifier,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"main-router",
		s.config.RateLimitAllowedPerMin,
		s.metricsManager,
	))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "workoutlog")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, map[string]string{"version": s.versionInfo}, http.StatusOK)
}

// metricsBasicAuth guards the metrics endpoint when a password hash is set.
func (s *Server) metricsBasicAuth(next http.Handler) http.Handler {
	if s.metricsPasswordHash == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != s.config.MetricsUsername || !pkg.CheckPasswordHash(password, s.metricsPasswordHash) {
			w.Header().Set("WWW-Authenticate", `Basic realm="metrics"`)
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) metricsRouterSetup() *mux.Router {
	metricsRouter := mux.NewRouter()
	metricsHandler := promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{})
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(s.metricsBasicAuth(metricsHandler), "metrics"))
	return metricsRouter
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: s.metricsRouterSetup(),
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.runBackground(ctx)
	s.metricsManager.GaugeLifeSignal.Set(1)
}

// runBackground starts the store listener and the revoked tokens cleaner.
// Both stop when ctx is done.
func (s *Server) runBackground(ctx context.Context) {
	s.backgroundWG.Add(2)
	go func() {
		defer s.backgroundWG.Done()
		for {
			err := s.storeListener.Run(ctx)
			if ctx.Err() != nil {
				return
			}
			log.Errorf("workout changes listener stopped: %s, restarting", err)
			// drop snapshots, changes may be missed while resubscribing
			s.workoutStore.ForgetAll()
			s.statsCache.Clear()
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}()

	go func() {
		defer s.backgroundWG.Done()
		ticker := time.NewTicker(time.Hour * 8)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.authService.ScanAndClean(ctx)
			}
		}
	}()
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	// background loops stop on the context passed to Serve
	s.backgroundWG.Wait()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
