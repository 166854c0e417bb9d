package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"MAGANG-backend/internal/activities"
	"MAGANG-backend/internal/attendance"
	"MAGANG-backend/internal/dashboard"
	"MAGANG-backend/internal/platform/apidoc"
	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/auth"
	"MAGANG-backend/internal/platform/config"
	"MAGANG-backend/internal/platform/db"
	"MAGANG-backend/internal/platform/middleware"
	"MAGANG-backend/internal/platform/validate"
	"MAGANG-backend/internal/reports"
	"MAGANG-backend/internal/students"
	"MAGANG-backend/internal/tasks"
)

func main() {
	// 設定読み込み（.env / 環境変数で上書き）
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("[FATAL] config: %v", err)
	}
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s timezone:%s", mode, cfg.Location())

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer conn.Close()
	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	ctx := context.Background()
	if err := db.Migrate(ctx, conn, cfg.DB.LogSQL); err != nil {
		log.Fatalf("[FATAL] migrate: %v", err)
	}

	validate.Register()

	// ===== サービス組み立て =====
	loc := cfg.Location()
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())

	attendanceSvc := attendance.NewService(conn, loc)
	authSvc := auth.NewService(conn, issuer, attendanceSvc) // インターンのログイン = 出席
	tasksSvc := tasks.NewService(conn)
	activitiesSvc := activities.NewService(conn, loc)
	reportsSvc := reports.NewService(conn, loc)
	studentsSvc := students.NewService(conn, tasksSvc, activitiesSvc)
	dashboardSvc := dashboard.NewService(conn, loc)

	if err := authSvc.SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatalf("[FATAL] seed admin: %v", err)
	}

	// ===== ルーター =====
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		apidoc.RegisterRoutes(r)
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, authSvc, issuer)

	admin := api.Group("", auth.RequireAuth(issuer), auth.RequireRole(auth.RoleAdmin))
	students.RegisterRoutes(admin, studentsSvc)
	tasks.RegisterRoutes(admin, tasksSvc)
	activities.RegisterRoutes(admin, activitiesSvc)
	attendance.RegisterRoutes(admin, attendanceSvc)
	reports.RegisterRoutes(admin, reportsSvc)
	dashboard.RegisterRoutes(admin, dashboardSvc)

	intern := api.Group("", auth.RequireAuth(issuer), auth.RequireRole(auth.RoleIntern))
	students.RegisterInternRoutes(intern, studentsSvc)
	tasks.RegisterInternRoutes(intern, tasksSvc)
	activities.RegisterInternRoutes(intern, activitiesSvc)
	reports.RegisterInternRoutes(intern, reportsSvc)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierr.NewBody(apierr.CodeNotFound, "route not found"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			// 証明書が設定されていれば HTTPS
			log.Printf("[INFO] listening on https://0.0.0.0:%s", cfg.Server.Port)
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			log.Printf("[INFO] listening on http://0.0.0.0:%s", cfg.Server.Port)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
