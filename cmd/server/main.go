package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TanmayDhobale/algorithmic-arena/internal/api"
	"github.com/TanmayDhobale/algorithmic-arena/internal/app/scoring"
	"github.com/TanmayDhobale/algorithmic-arena/internal/app/service"
	"github.com/TanmayDhobale/algorithmic-arena/internal/app/worker"
	"github.com/TanmayDhobale/algorithmic-arena/internal/common/security"
	"github.com/TanmayDhobale/algorithmic-arena/internal/domain/repository"
	"github.com/TanmayDhobale/algorithmic-arena/internal/platform/config"
	"github.com/TanmayDhobale/algorithmic-arena/internal/platform/database"
	"github.com/TanmayDhobale/algorithmic-arena/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	testCaseRepo := repository.NewPgTestCaseRepository(database.DB)
	contestRepo := repository.NewPgContestRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	problemService := service.NewProblemService(problemRepo, database.DB)
	submissionService := service.NewSubmissionService(submissionRepo, testCaseRepo, problemRepo, contestRepo, queue.RDB, database.DB)
	contestService := service.NewContestService(contestRepo)
	callbackService := service.NewJudgeCallbackService(testCaseRepo, submissionRepo, contestRepo, scoring.ComputePoints)

	// 7. Initialize Dispatch Worker (as a goroutine)
	dispatchWorker := worker.NewDispatchWorker(queue.RDB, submissionRepo, testCaseRepo, problemRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go dispatchWorker.Start(workerCtx)
	fmt.Println("Dispatch worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, problemService, submissionService, contestService, callbackService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
