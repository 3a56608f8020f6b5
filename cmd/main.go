package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_tracker/internal/handlers"
	"task_tracker/internal/logger"
	"task_tracker/internal/repository"
	"task_tracker/internal/repository/db"
	"task_tracker/internal/server"
	"task_tracker/internal/service"

	"github.com/spf13/viper"
)

const defaultTokenTTLHours = 24

func main() {
	// load config.yml first so the log level is configurable
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, tokenConfig(log))
	apiHandler := handlers.NewHandler(services, log)

	// optional admin bootstrap from config
	if err := seedAdmin(context.Background(), services, repos, log); err != nil {
		log.Fatalw("failed to seed admin user", "err", err)
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// tokenConfig assembles the process-wide signing configuration.
func tokenConfig(log *logger.Logger) service.TokenConfig {
	secret := viper.GetString("jwt.secret")
	if secret == "" {
		log.Fatalw("jwt.secret must be set in config")
	}
	ttlHours := viper.GetInt("jwt.ttl_hours")
	if ttlHours <= 0 {
		ttlHours = defaultTokenTTLHours
	}
	return service.TokenConfig{
		Secret: []byte(secret),
		TTL:    time.Duration(ttlHours) * time.Hour,
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "tasks.db")
		dbPath = "tasks.db"
	}
	return db.InitDB(dbPath)
}

// seedAdmin creates the configured admin account if it does not exist.
// Registration through the API always yields role "user"; this is the
// only path that mints an admin.
func seedAdmin(ctx context.Context, services *service.Service, repos *repository.Repository, log *logger.Logger) error {
	email := viper.GetString("admin.email")
	if email == "" {
		return nil
	}
	username := viper.GetString("admin.username")
	password := viper.GetString("admin.password")

	existing, err := repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	id, err := service.CreateAdmin(ctx, repos.Users, username, email, password)
	if err != nil {
		return err
	}
	log.Infow("seeded admin user", "id", id, "email", email)
	return nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
