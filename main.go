package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/virtual-closet-backend/api"
	"github.com/rpupo63/virtual-closet-backend/auth"
	"github.com/rpupo63/virtual-closet-backend/config"
	"github.com/rpupo63/virtual-closet-backend/database"
	"github.com/rpupo63/virtual-closet-backend/database/memstore"
	"github.com/rpupo63/virtual-closet-backend/models"
	"github.com/rpupo63/virtual-closet-backend/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	c := config.New()
	ctx := context.Background()

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		client, err := config.NewSSMClient(ctx, config.GetString(c, "AWS_REGION", ""))
		if err != nil {
			fatal("Error creating SSM client", err)
		}
		if _, err := config.LoadSSM(ctx, client, prefix, c); err != nil {
			fatal("Error loading SSM parameters", err)
		}
	}

	if lvl, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dbType := config.GetString(c, "DB_TYPE", "")
	log.Info().Str("dbType", dbType).Msg("Selecting storage")

	var repos services.Repositories
	if dbType == "memory" {
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		store := memstore.New()
		repos = services.Repositories{
			Items:       store.Items(),
			Tags:        store.Tags(),
			Outfits:     store.Outfits(),
			Preferences: store.Preferences(),
		}
	} else {
		db, err := database.Connect(c)
		if err != nil {
			fatal("Error connecting to database", err)
		}

		// If generating models, run generation and exit
		if config.GetBool(c, "GENERATE_MODELS", false) {
			log.Info().Msg("Generating models and query helpers...")
			if err := models.GenerateModels(db); err != nil {
				fatal("Error generating models", err)
			}
			return
		}

		// If generating column mismatch report, run report and exit
		if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
			log.Info().Msg("Generating column mismatch report...")
			if _, err := models.GenerateColumnMismatchReport(db); err != nil {
				fatal("Error generating column report", err)
			}
			return
		}

		if config.GetBool(c, "AUTO_MIGRATE", true) {
			if err := models.Migrate(db); err != nil {
				fatal("Error migrating database", err)
			}
		}
		repos = database.New(db).Repositories()
	}

	images, err := newImageStore(ctx, c)
	if err != nil {
		fatal("Error initializing image storage", err)
	}

	verifier, err := newVerifier(c)
	if err != nil {
		fatal("Error initializing auth", err)
	}

	var cache services.ViewCache = services.NoopViewCache{}
	if maxCost := config.GetInt64(c, "VIEW_CACHE_MAX_COST", 10_000); maxCost > 0 {
		ristrettoCache, err := services.NewRistrettoViewCache(maxCost, 5*time.Minute)
		if err != nil {
			fatal("Error initializing view cache", err)
		}
		defer ristrettoCache.Close()
		cache = ristrettoCache
	}

	svc := api.NewServices(repos, images, cache, config.GetInt64(c, "MAX_UPLOAD_BYTES", services.DefaultMaxImageBytes))

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, svc, verifier)
	if err != nil {
		fatal("Error initializing server", err)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func newImageStore(ctx context.Context, c map[string]string) (services.ImageStore, error) {
	if strings.EqualFold(config.GetString(c, "STORAGE_DRIVER", "s3"), "memory") {
		return memstore.NewImageStore(config.GetString(c, "STORAGE_PUBLIC_URL", "http://localhost:8080/images")), nil
	}
	return services.NewS3ImageStore(ctx, services.S3StoreConfig{
		Bucket:    config.GetString(c, "STORAGE_BUCKET", "clothing-images"),
		Region:    config.GetString(c, "STORAGE_REGION", "us-east-1"),
		Endpoint:  config.GetString(c, "STORAGE_ENDPOINT", ""),
		PublicURL: config.GetString(c, "STORAGE_PUBLIC_URL", ""),
	})
}

func newVerifier(c map[string]string) (auth.Verifier, error) {
	switch provider := config.GetString(c, "AUTH_PROVIDER", "supabase"); provider {
	case "supabase":
		return auth.NewSupabaseVerifier(config.GetString(c, "SUPABASE_JWT_SECRET", ""))
	case "descope":
		return auth.NewDescopeVerifier(config.GetString(c, "DESCOPE_PROJECT_ID", ""))
	default:
		return nil, fmt.Errorf("unsupported AUTH_PROVIDER %q", provider)
	}
}

func fatal(msg string, err error) {
	log.Error().Err(err).Msg(msg)
	os.Exit(1)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
