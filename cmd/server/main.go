package main

import (
	"log"
	"strings"

	"delaurel.com/schoolportal/internal/config"
	"delaurel.com/schoolportal/internal/handler"
	"delaurel.com/schoolportal/internal/middleware"
	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/internal/service"
	"delaurel.com/schoolportal/pkg/database"
	"delaurel.com/schoolportal/pkg/mailer"
	"delaurel.com/schoolportal/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, rate limiting and live notifications disabled")
	}

	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	var fileStorage storage.FileStorage
	if cfg.CloudinaryCloudName != "" {
		fileStorage, err = storage.NewCloudinaryStorage()
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
	} else {
		log.Println("Cloudinary not configured, report card PDFs will not be uploaded")
	}

	var mail mailer.EmailService
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgridService(cfg.SendgridAPIKey, cfg.SchoolName, cfg.FromEmail, cfg.FrontendURL)
	} else {
		mail = mailer.NewConsoleService()
	}

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	specRepo := repository.NewSpecializationRepository(db)
	resultRepo := repository.NewResultRepository(db)
	cardRepo := repository.NewReportCardRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	authSvc := service.NewAuthService(userRepo, specRepo, searchSvc, redisClient, cfg.JWTSecret, cfg.LoginRateLimit)
	authHandler := handler.NewAuthHandler(authSvc)

	adminSvc := service.NewAdminService(userRepo, searchSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	subjectSvc := service.NewSubjectService(subjectRepo, userRepo)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)

	specSvc := service.NewSpecializationService(specRepo)
	specHandler := handler.NewSpecializationHandler(specSvc)

	studentSvc := service.NewStudentService(userRepo, subjectRepo, searchSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)

	teacherSvc := service.NewTeacherService(userRepo, subjectRepo, resultRepo, specRepo)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)

	parentSvc := service.NewParentService(userRepo)
	parentHandler := handler.NewParentHandler(parentSvc)

	resultSvc := service.NewResultService(resultRepo, subjectRepo, userRepo, mail, notificationSvc)
	resultHandler := handler.NewResultHandler(resultSvc)

	cardSvc := service.NewReportCardService(cardRepo, resultRepo, userRepo, fileStorage, mail, notificationSvc, cfg.SchoolName)
	cardHandler := handler.NewReportCardHandler(cardSvc)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	api.Use(authMiddleware.RequireAuth())
	{
		api.GET("/auth/me", authHandler.Me)
		api.POST("/auth/refresh", authHandler.Refresh)

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/users", authHandler.Register)
			admin.PUT("/users/:userId/ban", adminHandler.BanUser)
			admin.PUT("/users/:userId/unban", adminHandler.UnbanUser)
			admin.DELETE("/users/:userId", adminHandler.DeleteUser)
			admin.PUT("/parents/:parentId/reset-password", adminHandler.ResetParentPassword)
			admin.POST("/parents/link-child", parentHandler.LinkChild)
			admin.POST("/parents/unlink-child", parentHandler.UnlinkChild)
		}

		subjects := api.Group("/subjects")
		{
			subjects.GET("", subjectHandler.List)
			subjects.GET("/available", authMiddleware.RequireRoles(model.RoleStudent), subjectHandler.Available)
			subjects.GET("/:subjectId", subjectHandler.Get)
			subjects.POST("", authMiddleware.RequireAdmin(), subjectHandler.Create)
			subjects.PUT("/:subjectId", authMiddleware.RequireAdmin(), subjectHandler.Update)
			subjects.POST("/:subjectId/teachers", authMiddleware.RequireAdmin(), subjectHandler.AssignTeacher)
		}

		students := api.Group("/students")
		students.Use(authMiddleware.RequireRoles(model.RoleAdmin, model.RoleProprietress, model.RoleTeacher))
		{
			students.GET("", studentHandler.List)
			students.GET("/search", studentHandler.Search)
			students.GET("/by-subject/:subjectId", studentHandler.BySubject)
			students.GET("/:studentId", studentHandler.Get)
			students.PUT("/:studentId/subjects", authMiddleware.RequireAdmin(), subjectHandler.AssignToStudent)
		}

		teachers := api.Group("/teachers")
		teachers.Use(authMiddleware.RequireRoles(model.RoleTeacher))
		{
			teachers.GET("/me", teacherHandler.Profile)
			teachers.PUT("/me", teacherHandler.UpdateProfile)
			teachers.GET("/me/subjects", teacherHandler.MySubjects)
			teachers.GET("/me/stats", teacherHandler.Stats)
			teachers.GET("/me/results", teacherHandler.MyResults)
		}

		parents := api.Group("/parents")
		parents.Use(authMiddleware.RequireRoles(model.RoleParent))
		{
			parents.GET("/me", parentHandler.Profile)
			parents.PUT("/me", parentHandler.UpdateProfile)
			parents.GET("/me/children", parentHandler.MyChildren)
		}

		results := api.Group("/results")
		{
			results.POST("", authMiddleware.RequireRoles(model.RoleTeacher, model.RoleAdmin, model.RoleProprietress), resultHandler.Upload)
			results.POST("/bulk", authMiddleware.RequireRoles(model.RoleTeacher, model.RoleAdmin, model.RoleProprietress), resultHandler.BulkUpload)
			results.GET("/my-students", authMiddleware.RequireRoles(model.RoleTeacher, model.RoleAdmin, model.RoleProprietress), resultHandler.MyStudents)
			results.POST("/submit", authMiddleware.RequireRoles(model.RoleTeacher), resultHandler.SubmitForApproval)
			results.GET("/student", authMiddleware.RequireRoles(model.RoleStudent, model.RoleParent, model.RoleAdmin, model.RoleProprietress), resultHandler.StudentResults)
			results.GET("/class", authMiddleware.RequireAdmin(), resultHandler.ClassResults)
			results.GET("/pending", authMiddleware.RequireAdmin(), resultHandler.Pending)
			results.POST("/approve", authMiddleware.RequireAdmin(), resultHandler.Approve)
			results.POST("/reject", authMiddleware.RequireAdmin(), resultHandler.Reject)
			results.DELETE("/:resultId", authMiddleware.RequireRoles(model.RoleTeacher, model.RoleAdmin, model.RoleProprietress), resultHandler.Delete)
		}

		cards := api.Group("/report-cards")
		{
			cards.POST("/generate", authMiddleware.RequireAdmin(), cardHandler.Generate)
			cards.GET("/review", authMiddleware.RequireAdmin(), cardHandler.ForReview)
			cards.PUT("/:reportCardId/decision", authMiddleware.RequireRoles(model.RoleProprietress, model.RoleAdmin), cardHandler.Decide)
			cards.GET("/view", cardHandler.View)
		}

		specs := api.Group("/specializations")
		{
			specs.GET("", specHandler.List)
			specs.GET("/:specializationId", specHandler.Get)
			specs.POST("", authMiddleware.RequireAdmin(), specHandler.Create)
			specs.PUT("/:specializationId", authMiddleware.RequireAdmin(), specHandler.Update)
			specs.DELETE("/:specializationId", authMiddleware.RequireAdmin(), specHandler.Delete)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.GET("/stream", notificationHandler.Stream)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Specialization{},
		&model.User{},
		&model.StudentProfile{},
		&model.TeacherProfile{},
		&model.Subject{},
		&model.Result{},
		&model.ReportCard{},
		&model.Notification{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@delaurel.com").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:         "School Admin",
		Email:        "admin@delaurel.com",
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Seeded development admin user admin@delaurel.com")
	return nil
}
