package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "stayhub/internal/adapters/http_server"
	"stayhub/internal/adapters/observability"
	redisad "stayhub/internal/adapters/redis"
	"stayhub/internal/adapters/token"
	"stayhub/internal/app"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
	"stayhub/internal/storage/jsonfile"
	mysqlstore "stayhub/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	var (
		hotels domain.HotelStore
		users  domain.UserStore
	)
	switch cfg.StoreDriver {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		if err := mysqlstore.Migrate(context.Background(), db); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
		hotels = mysqlstore.NewHotelRepo(db)
		users = mysqlstore.NewUserRepo(db)
		log.Info().Msg("mysql store ready")
	default:
		hotels = jsonfile.NewHotels(cfg.DataDir)
		users = jsonfile.NewUsers(cfg.DataDir)
		log.Info().Str("dir", cfg.DataDir).Msg("jsonfile store ready")
	}

	tokens, err := token.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	q := app.NewQueryService(hotels, cache, cfg.CacheTTL)
	l := app.NewLifecycleService(hotels, cache)
	a := app.NewAuthService(users, tokens)

	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, L: l, A: a})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
