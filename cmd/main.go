package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/gradepro/config"
	"github.com/lshigami/gradepro/database"
	"github.com/lshigami/gradepro/internal/controller"
	"github.com/lshigami/gradepro/internal/dto"
	"github.com/lshigami/gradepro/internal/logger"
	"github.com/lshigami/gradepro/internal/model"
	"github.com/lshigami/gradepro/internal/repository"
	"github.com/lshigami/gradepro/internal/service"
	"github.com/lshigami/gradepro/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title GradePro API
// @version 1.0.0
// @description API for evaluating scanned student answer sheets against a teacher's model answers using AI-assisted grading.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			storage.NewFileStore,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewSheetRepository,
			repository.NewEvaluationRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewGeminiLLMService,
			service.NewTextExtractor,
			service.NewSheetParserService,
			service.NewRatingService,
			service.NewMarksCalculator,
			service.NewSheetProcessingService,
			service.NewEvaluationService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewSheetController,
			controller.NewEvaluationController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	sheetCtrl *controller.SheetController,
	evalCtrl *controller.EvaluationController,
) {
	router.GET("/api/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.StatusResponse{
			Status:  "online",
			Message: "Welcome to GradePro API - Your automated assessment evaluation system",
			Version: "1.0.0",
		})
	})
	router.GET("/healthcheck", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.StatusResponse{Status: "ok", Message: "GradePro API is running"})
	})

	uploadGroup := router.Group("/api/upload")
	{
		uploadGroup.POST("/teacher-answer", sheetCtrl.UploadTeacherSheet)
		uploadGroup.POST("/student-answer", sheetCtrl.UploadStudentSheet)
	}

	router.POST("/evaluateStudentSheet", evalCtrl.EvaluateStudentSheet)
	router.GET("/getAllResults", evalCtrl.GetAllResults)
	router.GET("/getResult/:student_id", evalCtrl.GetResult)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("GradePro API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.TeacherSheet{},
		&model.StudentSheet{},
		&model.EvaluationResult{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
