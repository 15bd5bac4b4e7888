// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"scholar_directory_backend/internal/config"
	"scholar_directory_backend/internal/platform/database"
	platformElasticsearch "scholar_directory_backend/internal/platform/elasticsearch"
	"scholar_directory_backend/internal/platform/logger"
	"scholar_directory_backend/internal/profile"
	"scholar_directory_backend/internal/profile/esutil"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

func main() {
	syncProfilesCmd := flag.NewFlagSet("sync-profiles", flag.ExitOnError)
	esRefresh := syncProfilesCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-profiles" {
		syncProfilesCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
		}
		defer database.CloseGORMDB(db)

		esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
		}
		if err := platformElasticsearch.CreateProfilesIndexIfNotExists(esClient, appLogger); err != nil {
			appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
		}

		profileRepo := profile.NewGORMRepository(db)

		if err := runProfileSync(profileRepo, esClient, appLogger, *esRefresh); err != nil {
			appLogger.Fatal("FATAL: Profile synchronization failed", zap.Error(err))
		}
		appLogger.Info("Profile synchronization completed successfully.")
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	ensureCtx, cancelEnsure := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	if err := server.Storage.EnsureBucket(ensureCtx); err != nil {
		server.AppLogger.Error("Failed to ensure storage bucket exists.", zap.Error(err))
	}
	cancelEnsure()

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateProfilesIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch profiles index.", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runProfileSync pushes every published profile into Elasticsearch with one
// bulk request. The directory is small enough that batching is unnecessary.
func runProfileSync(
	profileRepo profile.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	esRefresh string,
) error {
	logger.Info("Starting profile synchronization to Elasticsearch...",
		zap.String("esRefreshPolicy", esRefresh),
	)

	snapshots, err := profileRepo.ListAllSnapshots(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load published profiles: %w", err)
	}
	if len(snapshots) == 0 {
		logger.Info("No published profiles to sync.")
		return nil
	}

	var bulkRequestBody strings.Builder
	docCount := 0
	for i := range snapshots {
		s := &snapshots[i]
		docJSON, errDoc := esutil.SnapshotToElasticsearchDoc(s)
		if errDoc != nil {
			logger.Error("Failed to convert profile to Elasticsearch document",
				zap.String("userID", s.UserID.String()),
				zap.Error(errDoc),
			)
			continue
		}

		action := fmt.Sprintf(`{ "index" : { "_index" : "%s", "_id" : "%s" } }%s`,
			platformElasticsearch.ProfilesIndexName, s.UserID.String(), "\n")
		bulkRequestBody.WriteString(action)
		bulkRequestBody.WriteString(docJSON)
		bulkRequestBody.WriteString("\n")
		docCount++
	}

	if docCount == 0 {
		logger.Warn("No documents to index, all conversions failed.")
		return fmt.Errorf("no profiles could be converted for indexing")
	}

	req := esapi.BulkRequest{
		Body:    strings.NewReader(bulkRequestBody.String()),
		Refresh: esRefresh,
	}
	res, err := req.Do(context.Background(), esClient.Client)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk request returned status %s", res.Status())
	}

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string                 `json:"_id"`
				Status int                    `json:"status"`
				Error  map[string]interface{} `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return fmt.Errorf("failed to parse bulk response: %w", err)
	}

	failed := 0
	for _, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			logger.Error("Failed to index profile document",
				zap.String("userID", item.Index.ID),
				zap.Any("error", item.Index.Error),
				zap.Int("status", item.Index.Status),
			)
			failed++
		}
	}

	logger.Info("Profile synchronization process finished.",
		zap.Int("totalSynced", docCount-failed),
		zap.Int("totalFailed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("%d profiles failed to sync", failed)
	}
	return nil
}
