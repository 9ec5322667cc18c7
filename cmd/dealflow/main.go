package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/api"
	"github.com/RoadAtlas/DealFlow/internal/dialog"
	"github.com/RoadAtlas/DealFlow/internal/genai"
	"github.com/RoadAtlas/DealFlow/internal/lockfile"
	"github.com/RoadAtlas/DealFlow/internal/messaging"
	"github.com/RoadAtlas/DealFlow/internal/notify"
	"github.com/RoadAtlas/DealFlow/internal/scheduler"
	"github.com/RoadAtlas/DealFlow/internal/search"
	"github.com/RoadAtlas/DealFlow/internal/session"
	"github.com/RoadAtlas/DealFlow/internal/store"
	"github.com/RoadAtlas/DealFlow/internal/transact"
	"github.com/RoadAtlas/DealFlow/internal/twiliosms"
	"github.com/RoadAtlas/DealFlow/internal/util"
	"github.com/RoadAtlas/DealFlow/internal/whatsapp"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for DealFlow state data
	DefaultStateDir = "/var/lib/dealflow"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "dealflow.db"
	// DefaultWhatsAppDBFileName holds the WhatsApp device credentials
	DefaultWhatsAppDBFileName = "whatsmeow.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to lock state directory", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	if err := run(flags); err != nil {
		slog.Error("DealFlow failed to run", "error", err)
		lock.Release()
		os.Exit(1)
	}
	slog.Info("DealFlow exited successfully")
}

func run(flags Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage.
	st, err := buildStore(flags)
	if err != nil {
		return err
	}
	defer st.Close()

	// Sessions.
	sessions := session.NewManager(st, session.WithTTL(*flags.sessionTTL))

	// Messaging channel plus the staff notifier riding on it.
	msgService, webhook, err := buildMessagingService(flags)
	if err != nil {
		return err
	}
	notifier := notify.NewMessagingNotifier(msgService)

	transactOpts := []transact.Option{}
	if *flags.staffRecipient != "" {
		transactOpts = append(transactOpts, transact.WithStaffRecipient(*flags.staffRecipient))
	}
	transactor := transact.NewManager(st, notifier, transactOpts...)

	// Inventory search and the workshop directory.
	marketplace := search.NewAggregator(search.NewShowroomProvider())
	directory := search.NewStaticDirectory()

	// Conversation engine; the language model is optional.
	engineOpts := []dialog.Option{}
	if *flags.openaiKey != "" {
		llm, err := genai.NewClient(genai.WithAPIKey(*flags.openaiKey))
		if err != nil {
			return err
		}
		engineOpts = append(engineOpts, dialog.WithLLM(llm))
		if *flags.reword {
			engineOpts = append(engineOpts, dialog.WithRewording())
		}
	}
	engine := dialog.NewEngine(sessions, transactor, marketplace, directory, engineOpts...)

	// Inbound messages flow through the relay into the engine.
	relay := messaging.NewRelay(msgService, engine)
	if err := relay.Start(ctx); err != nil {
		return err
	}
	defer relay.Stop()

	// Background maintenance.
	sched := scheduler.NewScheduler()
	defer sched.Stop()
	if _, err := sched.RegisterSweep(scheduler.DefaultSweepSchedule, sessions); err != nil {
		return err
	}

	// HTTP surface.
	apiOpts := []api.Option{}
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if webhook != nil {
		apiOpts = append(apiOpts, api.WithTwilioWebhook(http.HandlerFunc(webhook.WebhookHandler)))
	}
	server := api.NewServer(engine, sessions, st, apiOpts...)

	slog.Info("Bootstrapping DealFlow",
		"channel", *flags.channel,
		"api_addr", *flags.apiAddr,
		"session_ttl", *flags.sessionTTL,
		"llm_enabled", *flags.openaiKey != "")
	return server.Run(ctx)
}

// Config holds environment configuration
type Config struct {
	DatabaseURL    string
	StateDir       string
	OpenAIKey      string
	APIAddr        string
	Channel        string
	StaffRecipient string
	SessionTTL     time.Duration
	Reword         bool
}

// Flags holds command line flag values
type Flags struct {
	stateDir       *string
	dbDSN          *string
	openaiKey      *string
	apiAddr        *string
	channel        *string
	staffRecipient *string
	sessionTTL     *time.Duration
	reword         *bool
	qrOutput       *string
	numeric        *bool
}

// initializeLogger sets up structured logging.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("DEALFLOW_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and a
// .env file when present.
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StateDir:       os.Getenv("DEALFLOW_STATE_DIR"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		APIAddr:        os.Getenv("API_ADDR"),
		Channel:        os.Getenv("DEALFLOW_CHANNEL"),
		StaffRecipient: os.Getenv("STAFF_RECIPIENT"),
		SessionTTL:     util.ParseDurationEnv("SESSION_TTL", session.DefaultTTL),
		Reword:         util.ParseBoolEnv("DEALFLOW_REWORD", false),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No DEALFLOW_STATE_DIR set, using default", "state_dir", config.StateDir)
	}
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No DATABASE_URL provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"DEALFLOW_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"DEALFLOW_CHANNEL", config.Channel,
		"SESSION_TTL", config.SessionTTL)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:       flag.String("state-dir", config.StateDir, "state directory for DealFlow data (overrides $DEALFLOW_STATE_DIR)"),
		dbDSN:          flag.String("db-dsn", config.DatabaseURL, "database DSN for the record store (overrides $DATABASE_URL)"),
		openaiKey:      flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		apiAddr:        flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		channel:        flag.String("channel", config.Channel, "messaging channel: whatsapp, twilio or none (overrides $DEALFLOW_CHANNEL)"),
		staffRecipient: flag.String("staff-recipient", config.StaffRecipient, "phone number notified of new records (overrides $STAFF_RECIPIENT)"),
		sessionTTL:     flag.Duration("session-ttl", config.SessionTTL, "session inactivity timeout (overrides $SESSION_TTL)"),
		reword:         flag.Bool("reword", config.Reword, "let the language model reword canonical replies (overrides $DEALFLOW_REWORD)"),
		qrOutput:       flag.String("qr-output", "", "path to write the WhatsApp login QR code"),
		numeric:        flag.Bool("numeric-code", false, "use a numeric WhatsApp login code instead of a QR code"),
	}

	flag.Parse()

	// A relocated state directory moves the default SQLite files with it.
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated db-dsn for relocated state directory", "db_dsn", *flags.dbDSN)
	}

	return flags
}

// buildStore opens the record store for the configured DSN.
func buildStore(flags Flags) (store.Store, error) {
	if *flags.dbDSN == "" {
		slog.Warn("No database DSN provided, using in-memory store; records will not survive restarts")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN", "dsn_set", true)
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}
	slog.Debug("Detected SQLite DSN", "db_path", *flags.dbDSN)
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// buildMessagingService constructs the configured messaging channel. The
// returned webhook is non-nil only for Twilio, whose inbound messages arrive
// over HTTP.
func buildMessagingService(flags Flags) (messaging.Service, *messaging.TwilioService, error) {
	switch *flags.channel {
	case "whatsapp":
		waOpts := []whatsapp.Option{
			whatsapp.WithDBDSN(filepath.Join(*flags.stateDir, DefaultWhatsAppDBFileName)),
		}
		if *flags.qrOutput != "" {
			waOpts = append(waOpts, whatsapp.WithQRCodeOutput(*flags.qrOutput))
		}
		if *flags.numeric {
			waOpts = append(waOpts, whatsapp.WithNumericCode())
		}
		client, err := whatsapp.NewClient(waOpts...)
		if err != nil {
			return nil, nil, err
		}
		return messaging.NewWhatsAppService(client), nil, nil

	case "twilio":
		client, err := twiliosms.NewClient()
		if err != nil {
			return nil, nil, err
		}
		svc := messaging.NewTwilioService(client)
		return svc, svc, nil

	default:
		slog.Info("No messaging channel configured, conversations run over HTTP only")
		return messaging.NewMockService(), nil, nil
	}
}
