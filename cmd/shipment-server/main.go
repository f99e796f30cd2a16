// Package main runs the shipment list server: shipment CRUD and picture
// endpoints, the SQS notification relay, and the SSE push endpoint that
// tells connected clients when a picture finished watermarking.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tinyg210/shipment-list-demo/internal/awsclient"
	"github.com/tinyg210/shipment-list-demo/internal/config"
	"github.com/tinyg210/shipment-list-demo/internal/logging"
	"github.com/tinyg210/shipment-list-demo/internal/metrics"
	"github.com/tinyg210/shipment-list-demo/internal/relay"
	"github.com/tinyg210/shipment-list-demo/internal/shipment"
	"github.com/tinyg210/shipment-list-demo/internal/sse"
)

var portFlag int

var rootCmd = &cobra.Command{
	Use:   "shipment-server",
	Short: "Shipment list API with live watermark notifications",
	Long: `Shipment Server exposes the shipment CRUD and picture endpoints,
polls the notification queue, and pushes processing-complete events to
connected clients over Server-Sent Events.

Examples:
  shipment-server
  shipment-server --port 9090`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (overrides HTTP_PORT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	initStart := time.Now()
	logging.Init()

	// Local development convenience; ignored when no .env exists.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if portFlag != 0 {
		cfg.HTTPPort = portFlag
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := awsclient.Load(ctx, cfg.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	objectStore := awsclient.NewS3ObjectStore(awsclient.NewS3Client(awsCfg, cfg.EndpointURL))
	queue := awsclient.NewSQSQueue(awsclient.NewSQSClient(awsCfg, cfg.EndpointURL), cfg.QueueURL)
	recordStore := shipment.NewDynamoStore(shipment.NewDynamoClient(awsCfg, cfg.EndpointURL), cfg.TableName)

	metrics.Register()

	broker := sse.NewBroker(cfg.SendTimeout)
	notifications := relay.New(queue, broker, time.Duration(cfg.PollWaitSeconds)*time.Second, cfg.PollerCount)

	service := shipment.NewService(recordStore, objectStore, cfg.BucketName)

	mux := http.NewServeMux()
	shipment.NewHandler(service).Register(mux)
	mux.Handle("/push-endpoint", sse.NewHandler(broker))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      withLogging(mux),
		ReadTimeout:  30 * time.Second,
		IdleTimeout:  60 * time.Second,
		// No WriteTimeout: the push endpoint holds connections open
		// indefinitely.
	}

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		notifications.Run(ctx)
	}()

	// Graceful shutdown: stop polling first, then drain HTTP.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		cancel()
		<-relayDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logging.NewStartupLogger("shipment-server").
		InitDuration(time.Since(initStart)).
		S3Bucket("pictures", cfg.BucketName).
		SQSQueue("notifications", cfg.QueueURL).
		DynamoTable("shipments", cfg.TableName).
		Config("port", strconv.Itoa(cfg.HTTPPort)).
		Config("pollers", strconv.Itoa(cfg.PollerCount)).
		Log()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	<-relayDone
}

// withLogging logs API requests with method, path, and duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path != "/health" && r.URL.Path != "/metrics" {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		}
	})
}
