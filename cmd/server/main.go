package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/api"
	"github.com/jigyasu-kalyan/cp-nexus/internal/app/service"
	"github.com/jigyasu-kalyan/cp-nexus/internal/common/security"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/repository"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/cache"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/config"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/database"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/judge"
)

func main() {
	config.Load()

	security.InitJWT()

	database.Connect()
	defer database.Close()

	cache.ConnectRedis()
	defer cache.CloseRedis()

	// Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	profileRepo := repository.NewPgProfileRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	ratingRepo := repository.NewPgRatingHistoryRepository(database.DB)
	txRunner := database.NewTxRunner(database.DB)

	// External judge client
	judgeClient := judge.NewCodeforcesClient(config.AppConfig.CodeforcesBaseURL, config.AppConfig.JudgeRequestTimeout)

	// Services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	profileService := service.NewProfileService(profileRepo, submissionRepo, txRunner)
	syncService := service.NewSyncService(judgeClient, profileRepo, submissionRepo, ratingRepo, txRunner)
	dashboardService := service.NewDashboardService(userRepo, profileRepo, submissionRepo, ratingRepo)
	contestService := service.NewContestService(judgeClient, cache.RDB, config.AppConfig.ContestCacheTTL)

	router := api.NewRouter(authService, userService, profileService, syncService, dashboardService, contestService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // sync blocks on two upstream calls
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
