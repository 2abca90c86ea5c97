package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/go-redis/redis/v8"

	"household-shopping/internal/api"
	"household-shopping/internal/catalog"
	"household-shopping/internal/config"
	"household-shopping/internal/database"
	"household-shopping/internal/firestoredb"
	"household-shopping/internal/identity"
	"household-shopping/internal/metrics"
	"household-shopping/internal/session"
	"household-shopping/internal/shopping"
	"household-shopping/internal/telegram"
	"household-shopping/internal/templates"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	products  catalog.Store
	templates templates.Store
	lists     shopping.Store
}

func run() error {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. SQLite always holds metrics and chat sessions
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	st := stores{
		products:  catalog.NewRepository(db.SQL),
		templates: templates.NewRepository(db.SQL),
		lists:     shopping.NewRepository(db.SQL),
	}
	var verifier identity.Verifier = identity.NewJWTVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)

	// 3. Firebase for the document store and/or ID tokens
	if cfg.StoreBackend == config.StoreFirestore || cfg.AuthMode == config.AuthFirebase {
		fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.GoogleCloudProject})
		if err != nil {
			return fmt.Errorf("failed to create firebase app: %w", err)
		}
		if cfg.StoreBackend == config.StoreFirestore {
			fs, err := fbApp.Firestore(ctx)
			if err != nil {
				return fmt.Errorf("failed to create firestore client: %w", err)
			}
			defer closeFirestore(fs)
			st = stores{
				products:  firestoredb.NewProducts(fs),
				templates: firestoredb.NewTemplates(fs),
				lists:     firestoredb.NewLists(fs),
			}
		}
		if cfg.AuthMode == config.AuthFirebase {
			authClient, err := fbApp.Auth(ctx)
			if err != nil {
				return fmt.Errorf("failed to create firebase auth client: %w", err)
			}
			verifier = identity.NewFirebaseVerifier(authClient)
		}
	}
	slog.Info("Storage configured", "store", cfg.StoreBackend, "auth", cfg.AuthMode)

	// 4. Core services
	ids := identity.ContextProvider{}
	cat := catalog.NewCatalog(st.products)
	tpl := templates.NewService(st.templates, ids)
	lists := shopping.NewEngine(st.lists, tpl, cat, ids)
	metricsStore := metrics.NewStore(db.SQL)

	router := api.NewRouter(api.Deps{
		Catalog:      cat,
		Templates:    tpl,
		Lists:        lists,
		Verifier:     verifier,
		Metrics:      metricsStore,
		DatabasePath: cfg.DatabasePath,
	})

	// 5. Optional Telegram client
	if cfg.TelegramEnabled() {
		sessions, closeSessions, err := sessionStores(cfg, db)
		if err != nil {
			return err
		}
		defer closeSessions()

		bot, err := telegram.NewBot(ctx, cfg, telegram.Deps{
			Templates:    tpl,
			Lists:        lists,
			Sessions:     sessions,
			Metrics:      metricsStore,
			DatabasePath: cfg.DatabasePath,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize telegram bot: %w", err)
		}
		router.Handle("/telegram/webhook", bot)
	}

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}

// sessionStores keeps each user's active list, per chat, in SQLite or Redis.
func sessionStores(cfg *config.Config, db *database.DB) (telegram.SessionStores, func(), error) {
	if cfg.SessionBackend != config.SessionRedis {
		return func(chatID, userID int64) session.KeyValueStore {
			return session.NewSQLiteStore(db.SQL, fmt.Sprintf("tg:%d:%d", chatID, userID))
		}, func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
	return func(chatID, userID int64) session.KeyValueStore {
		return session.NewRedisStore(client, fmt.Sprintf("shopping:tg:%d:%d", chatID, userID))
	}, closeFn, nil
}

func closeFirestore(fs *firestore.Client) {
	if err := fs.Close(); err != nil {
		slog.Error("Failed to close firestore client", "error", err)
	}
}
