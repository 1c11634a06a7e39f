// Package main runs the online-school HTTP server with the live-classroom
// WebSocket endpoint and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/classlab/backend/config"
	"github.com/classlab/backend/internal/attendance"
	"github.com/classlab/backend/internal/auth"
	"github.com/classlab/backend/internal/classroom"
	"github.com/classlab/backend/internal/courses"
	"github.com/classlab/backend/internal/lessons"
	"github.com/classlab/backend/internal/middleware"
	"github.com/classlab/backend/internal/quizzes"
	"github.com/classlab/backend/internal/resources"
	"github.com/classlab/backend/internal/tasks"
	"github.com/classlab/backend/pkg/database"
	"github.com/classlab/backend/pkg/queue"
	"github.com/classlab/backend/pkg/redis"
	"github.com/classlab/backend/pkg/response"
	"github.com/classlab/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ResourcesBucket:      cfg.AWS.ResourcesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Courses and lessons
	courseRepo := courses.NewRepository(pool)
	courseHandler := courses.NewHandler(courseRepo)
	lessonRepo := lessons.NewRepository(pool)
	lessonHandler := lessons.NewHandler(lessonRepo)

	// Tasks
	taskRepo := tasks.NewRepository(pool)
	taskHandler := tasks.NewHandler(taskRepo)

	// Quizzes
	quizRepo := quizzes.NewRepository(pool)
	quizHandler := quizzes.NewHandler(quizRepo)

	// Lesson resources (S3)
	resourceRepo := resources.NewRepository(pool)
	resourceHandler := resources.NewHandler(resourceRepo, s3Client, logger)

	// Attendance
	attendanceRepo := attendance.NewRepository(pool)
	attendanceHandler := attendance.NewHandler(attendanceRepo)

	// Live classroom
	classroomServer := classroom.NewServer(logger)
	classroomServer.SetLifecycleHooks(
		func(roomID, userID string) {
			uid, err := uuid.Parse(userID)
			if err != nil {
				return
			}
			_ = attendanceRepo.LogJoin(context.Background(), roomID, uid)
		},
		func(roomID, userID string, joinedAt time.Time) {
			uid, err := uuid.Parse(userID)
			if err != nil {
				return
			}
			_ = attendanceRepo.LogLeave(context.Background(), roomID, uid, joinedAt)
		},
	)
	classroomServer.SetRoomClosedHook(func(summary classroom.RoomSummary) {
		err := jobQueue.EnqueueClassSummary(context.Background(), queue.ClassSummaryPayload{
			RoomID:           summary.RoomID,
			OpenedAt:         summary.OpenedAt,
			ClosedAt:         summary.ClosedAt,
			PeakParticipants: summary.PeakParticipants,
			ChatMessages:     summary.ChatMessages,
			Polls:            summary.Polls,
			Questions:        summary.Questions,
		})
		if err != nil {
			logger.Error("enqueue class summary", zap.String("room_id", summary.RoomID), zap.Error(err))
		}
	})

	jwtValidate := func(token string) (userID, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID.String(), claims.Role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// ICE server list for classroom clients (public; STUN/TURN URLs only)
	router.GET("/classrooms/ice-servers", classroom.ICEServersHandler(cfg.WebRTC.ICEUrls))

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (admin only)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Courses
		api.GET("/courses", courseHandler.List)
		api.POST("/courses", middleware.RequireRole("admin", "instructor"), courseHandler.Create)
		api.GET("/courses/:id", courseHandler.GetByID)
		api.PATCH("/courses/:id", middleware.RequireRole("admin", "instructor"), courseHandler.Update)
		api.DELETE("/courses/:id", middleware.RequireRole("admin", "instructor"), courseHandler.Delete)

		// Lessons
		api.GET("/courses/:id/lessons", lessonHandler.ListByCourse)
		api.POST("/courses/:id/lessons", middleware.RequireRole("admin", "instructor"), lessonHandler.Create)
		api.GET("/lessons/:id", lessonHandler.GetByID)
		api.PATCH("/lessons/:id", middleware.RequireRole("admin", "instructor"), lessonHandler.Update)
		api.DELETE("/lessons/:id", middleware.RequireRole("admin", "instructor"), lessonHandler.Delete)

		// Quizzes
		api.POST("/lessons/:id/quiz", middleware.RequireRole("admin", "instructor"), quizHandler.Create)
		api.GET("/lessons/:id/quiz", quizHandler.GetByLesson)
		api.POST("/quizzes/:id/submit", quizHandler.Submit)

		// Lesson resources (S3-backed)
		api.POST("/lessons/:id/resources", middleware.RequireRole("admin", "instructor"), resourceHandler.Upload)
		api.GET("/lessons/:id/resources", resourceHandler.ListByLesson)
		api.GET("/resources/:id/download-url", resourceHandler.Download)
		api.DELETE("/resources/:id", middleware.RequireRole("admin", "instructor"), resourceHandler.Delete)

		// Tasks (per-user planner)
		api.GET("/tasks", taskHandler.List)
		api.POST("/tasks", taskHandler.Create)
		api.PATCH("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)

		// Classroom state and attendance
		api.GET("/classrooms/:roomId/participant-count", classroom.ParticipantCountHandler(classroomServer))
		api.GET("/classrooms/:roomId/attendees", middleware.RequireRole("admin", "instructor"), attendanceHandler.ListByRoom)
		api.GET("/class-summaries", middleware.RequireRole("admin", "instructor"), attendanceHandler.ListSummaries)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", classroom.ServeWs(classroomServer, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
