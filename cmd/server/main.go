package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ignite/prospect-desk/internal/ai"
	"github.com/ignite/prospect-desk/internal/api"
	"github.com/ignite/prospect-desk/internal/config"
	"github.com/ignite/prospect-desk/internal/export"
	"github.com/ignite/prospect-desk/internal/leaddesk"
	"github.com/ignite/prospect-desk/internal/pkg/distlock"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
	"github.com/ignite/prospect-desk/internal/repository/postgres"
	"github.com/ignite/prospect-desk/internal/service/campaign"
	"github.com/ignite/prospect-desk/internal/service/crm"
	"github.com/ignite/prospect-desk/internal/service/enrichment"
	"github.com/ignite/prospect-desk/internal/service/note"
	"github.com/ignite/prospect-desk/internal/service/prospect"
	"github.com/ignite/prospect-desk/internal/service/source"
	"github.com/ignite/prospect-desk/internal/webfetch"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func main() {
	configPath := "config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.Redact())
	defer logger.Sync()

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.Database.URL == "" {
		log.Fatal("[db] DATABASE_URL is required")
	}
	dbURL := cfg.Database.URL
	if !strings.Contains(dbURL, "connect_timeout") {
		sep := "?"
		if strings.Contains(dbURL, "?") {
			sep = "&"
		}
		dbURL += sep + "connect_timeout=5"
	}
	log.Printf("[db] host portion: ...@%s/...", extractHost(dbURL))
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("[db] open failed: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("[db] ping failed: %v", err)
	}
	pingCancel()
	log.Println("[db] connected")

	// Redis is optional; the identity lock falls back to PG advisory locks.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.URL})
		} else {
			redisClient = redis.NewClient(opts)
		}
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("[redis] connection failed: %v, falling back to PG advisory locks", err)
			redisClient.Close()
			redisClient = nil
		} else {
			log.Println("[redis] connected")
		}
		pingCancel()
	}

	// Repositories
	prospectRepo := postgres.NewProspectRepo(db)
	sourceRepo := postgres.NewSourceRepo(db)
	noteRepo := postgres.NewNoteRepo(db)
	campaignRepo := postgres.NewCampaignRepo(db)
	profileRepo := postgres.NewDomainProfileRepo(db)

	// Services
	var prospectOpts []prospect.Option
	if cfg.Import.Serialize {
		locks := distlock.NewFactory(redisClient, db, cfg.Import.LockKey, cfg.Import.LockTTL())
		prospectOpts = append(prospectOpts, prospect.WithIdentityLock(locks, cfg.Import.LockWait()))
		log.Printf("[import] identity lock enabled (key=%s)", cfg.Import.LockKey)
	}
	prospectSvc := prospect.NewService(prospectRepo, prospectOpts...)
	sourceSvc := source.NewService(sourceRepo)
	noteSvc := note.NewService(noteRepo)

	completer, err := ai.NewCompleter(ctx, cfg.AI)
	if err != nil {
		log.Printf("[ai] provider %q unavailable: %v, using fallbacks", cfg.AI.Provider, err)
		completer = nil
	}
	drafter, err := ai.NewTemplateDrafter()
	if err != nil {
		log.Fatalf("[ai] fallback templates: %v", err)
	}
	var campaignOpts []campaign.Option
	var enrichOpts []enrichment.Option
	if completer != nil {
		campaignOpts = append(campaignOpts, campaign.WithSuggester(ai.NewPostSuggester(completer)))
		enrichOpts = append(enrichOpts, enrichment.WithScorer(ai.NewFitScorer(completer)))
		log.Printf("[ai] provider %s enabled", cfg.AI.Provider)
	} else {
		log.Println("[ai] no provider configured, heuristic scoring and template drafts only")
	}
	campaignSvc := campaign.NewService(campaignRepo, drafter, campaignOpts...)

	fetcher := webfetch.New(webfetch.Config{
		Timeout:    cfg.Fetch.Timeout(),
		MaxBytes:   cfg.Fetch.MaxBytes,
		UserAgent:  cfg.Fetch.UserAgent,
		MaxRetries: cfg.Fetch.MaxRetries,
	})
	enrichOpts = append(enrichOpts, enrichment.WithConfig(enrichment.Config{
		ProfileTTL: cfg.Fetch.ProfileTTL(),
		RetryAfter: cfg.Fetch.RetryAfter(),
		Workers:    cfg.Fetch.Workers,
	}))
	enrichSvc := enrichment.NewService(profileRepo, fetcher, prospectSvc, sourceSvc, enrichOpts...)

	var pusher crm.Pusher
	if cfg.LeadDesk.Enabled() {
		client, err := leaddesk.NewClient(ctx, cfg.LeadDesk)
		if err != nil {
			log.Printf("[leaddesk] disabled: %v", err)
		} else {
			pusher = client
			log.Printf("[leaddesk] push enabled (%s)", cfg.LeadDesk.BaseURL)
		}
	}
	crmSvc := crm.NewService(prospectSvc, sourceSvc, pusher)

	var exporter api.Exporter
	var healthS3 api.HeadBucketAPI
	if cfg.Export.Enabled() {
		s3Client, err := export.NewS3Client(ctx, cfg.Export.S3Region, cfg.Export.AWSProfile)
		if err != nil {
			log.Printf("[export] disabled: %v", err)
		} else {
			exporter = export.NewExporter(s3Client, cfg.Export.S3Bucket, cfg.Export.Prefix, prospectSvc, sourceSvc)
			healthS3 = s3Client
			log.Printf("[export] s3://%s/%s", cfg.Export.S3Bucket, cfg.Export.Prefix)
		}
	}

	handlers := api.NewHandlers(api.Deps{
		Prospects:     prospectSvc,
		Sources:       sourceSvc,
		Notes:         noteSvc,
		Campaigns:     campaignSvc,
		Enrichment:    enrichSvc,
		CRM:           crmSvc,
		Exporter:      exporter,
		MaxImportRows: cfg.Import.MaxRows,
	})
	health := api.NewHealthChecker(db, redisClient, healthS3, cfg.Export.S3Bucket)
	server := api.NewServer(cfg.Server, handlers, health)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()

	log.Println("Server stopped")
}
