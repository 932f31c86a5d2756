package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/cardquest/pkg/api"
	authproviders "github.com/cbodonnell/cardquest/pkg/auth/providers"
	"github.com/cbodonnell/cardquest/pkg/catalog"
	"github.com/cbodonnell/cardquest/pkg/clients"
	"github.com/cbodonnell/cardquest/pkg/content"
	"github.com/cbodonnell/cardquest/pkg/game"
	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/messages"
	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/repositories"
	"github.com/cbodonnell/cardquest/pkg/state"
	"github.com/cbodonnell/cardquest/pkg/version"
	"github.com/cbodonnell/cardquest/pkg/workers"
	"github.com/joho/godotenv"
)

func main() {
	port := flag.Int("port", 8080, "API port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	catalogPath := flag.String("catalog", "catalog.yaml", "Path to the level catalog")
	contentDir := flag.String("content-dir", "content", "Directory holding level content")
	migrations := flag.String("migrations", "migrations", "Directory holding database migrations")
	tick := flag.Duration("tick", 100*time.Millisecond, "Game loop interval")
	selectDelay := flag.Duration("select-delay", 0, "Delay before loading a level picked from the level list")
	fallbackContent := flag.String("fallback-content", "", "Content path of the level players fall back to when their current level is gone")
	sessionIdle := flag.Duration("session-idle", 30*time.Minute, "Evict sessions without input for this long, 0 keeps them")
	envFile := flag.String("env-file", ".env", "Optional file of environment variables")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		panic(fmt.Sprintf("Failed to load %s: %v", *envFile, err))
	}

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	levelCatalog, err := catalog.Load(*catalogPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load catalog: %v", err))
	}
	log.Info("Loaded %d levels from %s", len(levelCatalog.Levels), *catalogPath)

	databaseURL := os.Getenv("CARDQUEST_DATABASE_URL")
	if databaseURL == "" {
		databaseURL = "memory://"
		log.Warn("CARDQUEST_DATABASE_URL is not set, progress will not survive a restart")
	}
	repository, err := repositories.Open(ctx, databaseURL, *migrations)
	if err != nil {
		panic(fmt.Sprintf("Failed to open repository: %v", err))
	}
	defer repository.Close(context.Background())

	var authProvider authproviders.AuthProvider
	if projectID := os.Getenv("CARDQUEST_FIREBASE_PROJECT_ID"); projectID != "" {
		authProvider, err = authproviders.NewFirebaseAuthProvider(ctx, projectID, os.Getenv("CARDQUEST_FIREBASE_API_KEY"))
		if err != nil {
			panic(fmt.Sprintf("Failed to create firebase auth provider: %v", err))
		}
	} else {
		log.Warn("CARDQUEST_FIREBASE_PROJECT_ID is not set, bearer tokens are trusted as player ids")
		authProvider = authproviders.NewDevAuthProvider()
	}

	clientManager := clients.NewClientManager(clients.DefaultSendBufferSize)
	clientMessageQueue := queue.NewInMemoryQueue(10000)
	stateManager := state.NewInMemoryStateManager()

	serverMessageChannelSize := 1000
	serverMessageChan := make(chan *messages.Message, serverMessageChannelSize)
	serverMessageWorker := workers.NewServerMessageWorker(workers.NewServerMessageWorkerOptions{
		ClientManager:     clientManager,
		ServerMessageChan: serverMessageChan,
	})
	go serverMessageWorker.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:               *port,
		TLS:                api.TLSConfigFromEnv(),
		AuthProvider:       authProvider,
		ClientMessageQueue: clientMessageQueue,
		StateManager:       stateManager,
		ClientManager:      clientManager,
	})
	go apiServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			log.Error("Failed to stop API server: %v", err)
		}
	}()

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		ClientMessageQueue: clientMessageQueue,
		ServerMessageChan:  serverMessageChan,
		Repository:         repository,
		Loader:             content.NewDirLoader(*contentDir),
		Catalog:            levelCatalog,
		StateManager:       stateManager,
		GameLoopInterval:   *tick,
		SelectDelay:        *selectDelay,
		FallbackContent:    *fallbackContent,
		SessionIdleTimeout: *sessionIdle,
	})

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		log.Error("Game manager stopped: %v", err)
	}
	log.Info("Shutting down")
}
