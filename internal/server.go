package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/bcelik/personal-hub-backend/internal/about"
	"github.com/bcelik/personal-hub-backend/internal/admin"
	"github.com/bcelik/personal-hub-backend/internal/auth"
	"github.com/bcelik/personal-hub-backend/internal/blog"
	"github.com/bcelik/personal-hub-backend/internal/config"
	"github.com/bcelik/personal-hub-backend/internal/contact"
	"github.com/bcelik/personal-hub-backend/internal/cv"
	"github.com/bcelik/personal-hub-backend/internal/db"
	"github.com/bcelik/personal-hub-backend/internal/instrumentation"
	"github.com/bcelik/personal-hub-backend/internal/middleware"
	"github.com/bcelik/personal-hub-backend/internal/projects"
	"github.com/bcelik/personal-hub-backend/internal/skills"
	"github.com/bcelik/personal-hub-backend/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config  *config.Config
	dbPool  *pgxpool.Pool
	cvStore *cv.Store

	redisClient *redis.Client
	authService *auth.Service

	instr        *instrumentation.Instrumentation
	promRegistry *prometheus.Registry
}

type NewServerParams struct {
	Config        *config.Config
	VersionInfo   string
	RedisPassword string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if err := db.RunMigrations(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName); err != nil {
		return nil, fmt.Errorf("run db migrations: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := instrumentation.SetupPrometheus(pgxpoolCollector)
	instr := instrumentation.NewInstrumentationWithRegisterer("backend", "personal_hub", promRegistry)
	instr.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(auth.NewServiceParams{
		Directory:         auth.NewDirectoryRepo(dbPool),
		CookieName:        cfg.AuthCookieName,
		DefaultAuthorName: cfg.DefaultAuthorName,
		SecureCookies:     cfg.IsProduction(),
	})

	cvStore, err := cv.NewStore(cfg.CvRootPath)
	if err != nil {
		return nil, fmt.Errorf("new cv store: %w", err)
	}

	return &Server{
		versionInfo: params.VersionInfo,
		config:      cfg,
		dbPool:      dbPool,
		cvStore:     cvStore,
		redisClient: rdb,
		authService: authService,

		instr:        instr,
		promRegistry: promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("personal-hub-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	adminHandler := admin.NewHandler(s.authService, s.instr)
	adminHandler.SetupRoutes(r, middleware.RateLimit(
		reqRateLimiter, "login", s.config.LoginRateLimitAllowedPerMin,
	))

	projectsHandler := projects.NewHandler(projects.NewRepo(s.dbPool))
	projectsHandler.SetupRoutes(r)

	blogHandler := blog.NewHandler(blog.NewRepo(s.dbPool))
	blogHandler.SetupRoutes(r)

	skillsHandler := skills.NewHandler(skills.NewRepo(s.dbPool))
	skillsHandler.SetupRoutes(r)

	aboutHandler := about.NewHandler(about.NewRepo(s.dbPool))
	aboutHandler.SetupRoutes(r)

	contactHandler := contact.NewHandler(contact.NewRepo(s.dbPool), s.instr)
	contactHandler.SetupRoutes(r)

	cvHandler := cv.NewHandler(s.cvStore)
	cvHandler.SetupRoutes(r)

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths, any depth, so the middleware chain
	// (the route guard above all) runs for unregistered admin sub-paths too
	r.HandleFunc("/{unknown:.*}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	routeGuard := middleware.NewAdminRouteGuard(s.authService)

	r.Use(middleware.PanicRecovery(s.instr))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.instr))
	r.Use(middleware.Cors())
	r.Use(routeGuard.Check())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	s.instr.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.instr.GaugeLifeSignal.Set(0)

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
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.instr.GaugeRequests.Add(1)
	case http.StateClosed:
		s.instr.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
