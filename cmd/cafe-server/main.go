package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/RishithaRamesh/wolfcafeplus/internal/cart"
	"github.com/RishithaRamesh/wolfcafeplus/internal/catalog"
	"github.com/RishithaRamesh/wolfcafeplus/internal/httpapi"
	"github.com/RishithaRamesh/wolfcafeplus/internal/notify"
	"github.com/RishithaRamesh/wolfcafeplus/internal/order"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/kafka"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/metrics"
)

type cfg struct {
	Port         string
	DatabaseURL  string
	KafkaBrokers string
	KafkaTopic   string
	SMTPAddr     string
	SMTPUser     string
	SMTPPass     string
	MailFrom     string
}

func readCfg() (cfg, error) {
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		return cfg{}, errors.New("DATABASE_URL is required")
	}
	return cfg{
		Port:         getenv("PORT", "8080"),
		DatabaseURL:  db,
		KafkaBrokers: getenv("KAFKA_BROKERS", ""),
		KafkaTopic:   getenv("KAFKA_TOPIC", "cafe.orders"),
		SMTPAddr:     getenv("SMTP_ADDR", ""),
		SMTPUser:     getenv("SMTP_USER", ""),
		SMTPPass:     getenv("SMTP_PASS", ""),
		MailFrom:     getenv("MAIL_FROM", "WolfCafe+ <no-reply@wolfcafe.example>"),
	}, nil
}

func main() {
	cfg, err := readCfg()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db connect error: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("db ping error: %v", err)
	}
	cancel()

	srvMetrics := metrics.NewServerMetrics("cafe_server")

	hub := notify.NewHub()
	var mailer notify.Mailer
	if cfg.SMTPAddr != "" {
		m, err := notify.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		if err != nil {
			log.Fatalf("smtp config error: %v", err)
		}
		mailer = m
	}
	var stream notify.Publisher
	if st := notify.NewStream(kafka.NewClient(cfg.KafkaBrokers), cfg.KafkaTopic); st != nil {
		defer st.Close()
		stream = st
	}
	dispatcher := notify.NewDispatcher(hub, mailer, notify.NewPGLog(pool), stream, srvMetrics)

	cartStore := cart.NewPGStore(pool)
	catalogStore := catalog.NewPGStore(pool)
	catalogSvc := catalog.New(catalogStore, cartStore, dispatcher, srvMetrics)
	cartSvc := cart.New(cartStore, catalogStore)
	orderSvc := order.New(order.NewPGStore(pool), dispatcher)

	router := httpapi.NewRouter(httpapi.Deps{
		Catalog: catalogSvc,
		Cart:    cartSvc,
		Orders:  orderSvc,
		Hub:     hub,
		Metrics: srvMetrics,
		Ping:    pool.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		log.Printf("cafe-server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Let in-flight notifications finish; they are detached from the
		// requests that triggered them.
		dispatcher.Wait()
		return err
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
