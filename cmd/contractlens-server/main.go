package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Zenyi1/ContractLens/internal/compare"
	"github.com/Zenyi1/ContractLens/internal/httpapi"
	"github.com/Zenyi1/ContractLens/internal/render"
	"github.com/Zenyi1/ContractLens/internal/store"
)

func main() {
	// Local dev convenience; a missing .env is not an error.
	_ = godotenv.Load()

	var (
		addr   = flag.String("addr", envOr("CONTRACTLENS_ADDR", ":8080"), "HTTP listen address")
		dbPath = flag.String("db", envOr("CONTRACTLENS_DB", "contractlens.db"), "SQLite database path")
		budget = flag.Int("token-budget", compare.DefaultTokenBudget, "Per-chunk token target")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing := setupTracing(ctx)
	defer shutdownTracing()

	st, err := store.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	caller, err := compare.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	pipeline := compare.NewPipeline(compare.NewClauseTransformer(caller)).WithTokenBudget(*budget)
	renderer := render.NewChromiumPDFRenderer()

	handler := httpapi.NewServer(pipeline, st, renderer)

	log.Printf("contractlens listening on %s (db=%s)", *addr, *dbPath)
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// setupTracing wires an OTLP trace exporter when an endpoint is configured.
// Without one the global no-op provider stays in place and span creation
// costs nothing.
func setupTracing(ctx context.Context) func() {
	if strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")) == "" {
		return func() {}
	}
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		log.Printf("warning: otlp exporter init failed: %v", err)
		return func() {}
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName("contractlens"))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
