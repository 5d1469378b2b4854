package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/config"
	"github.com/letapeapp/race-engine-go/pkg/processing"
	"github.com/letapeapp/race-engine-go/pkg/server/proxy"
	"github.com/letapeapp/race-engine-go/pkg/server/proxy/local"
	natsproxy "github.com/letapeapp/race-engine-go/pkg/server/proxy/nats"
	"github.com/letapeapp/race-engine-go/pkg/server/rest"
	"github.com/letapeapp/race-engine-go/pkg/stage"
	"github.com/letapeapp/race-engine-go/pkg/utils"
)

func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the race engine HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.ListenAddr,
		"addr",
		"a",
		"localhost:8080",
		"HTTP server listen address")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"NATS server URL for relaying live race data (empty disables the relay)")
	cmd.Flags().StringVar(&config.CorsOrigins,
		"cors-origins",
		"*",
		"comma separated list of allowed CORS origins")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables metrics export")
	cmd.Flags().StringVar(&config.TickInterval,
		"tick-interval",
		"1s",
		"duration between race clock ticks")
	cmd.Flags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"duration to wait for the NATS server to be ready")
	cmd.Flags().StringVar(&config.StaleDuration,
		"stale-duration",
		"6h",
		"remove races this long after creation (0 disables)")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLogger() {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
}

//nolint:funlen // by design
func startServer(ctx context.Context) error {
	setupLogger()

	var telemetry *Telemetry
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = SetupTelemetry(ctx); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
	}

	catalog := stage.DefaultCatalog()
	if config.StageFile != "" {
		if err := catalog.LoadFile(config.StageFile); err != nil {
			log.Error("could not load stage file",
				log.String("file", config.StageFile), log.ErrorField(err))
			return err
		}
		log.Info("merged stage catalog", log.String("file", config.StageFile))
	}

	tickInterval, err := time.ParseDuration(config.TickInterval)
	if err != nil {
		log.Warn("Invalid tick interval. Using default",
			log.String("value", config.TickInterval), log.ErrorField(err))
		tickInterval = processing.DefaultTickInterval
	}

	var dataProxy proxy.DataProxy
	if config.NatsURL != "" {
		waitForRequiredServices()
		np, connErr := natsproxy.Connect(config.NatsURL)
		if connErr != nil {
			log.Error("could not connect to NATS", log.ErrorField(connErr))
			return connErr
		}
		log.Info("relaying live data via NATS", log.String("url", config.NatsURL))
		dataProxy = np
	} else {
		dataProxy = local.NewLocalProxy()
	}
	relay := proxy.NewRelay(dataProxy)

	staleDuration, err := time.ParseDuration(config.StaleDuration)
	if err != nil {
		log.Warn("Invalid stale duration. Disabling the reaper",
			log.String("value", config.StaleDuration), log.ErrorField(err))
		staleDuration = 0
	}

	srv := rest.NewServer(
		rest.WithCatalog(catalog),
		rest.WithRelay(relay),
		rest.WithTickInterval(tickInterval),
		rest.WithStaleDuration(staleDuration),
		rest.WithCorsOrigins(config.CorsOrigins),
	)

	setupGoRoutinesDump()

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting server")
	err = srv.Start(runCtx, config.ListenAddr)
	if telemetry != nil {
		telemetry.Shutdown()
	}
	if err != nil {
		log.Error("server terminated with error", log.ErrorField(err))
		return err
	}
	log.Info("Server terminated")
	return nil
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 15s", log.ErrorField(err))
		timeout = 15 * time.Second
	}
	if natsAddr := utils.ExtractFromNATSURL(config.NatsURL); natsAddr != "" {
		if err := utils.WaitForTCP(natsAddr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
	}
	log.Debug("Required services are available")
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}
