package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/evidenta/portal-backend/internal/config"
	appHTTP "github.com/evidenta/portal-backend/internal/handler/http"
	"github.com/evidenta/portal-backend/internal/pkg/cron"
	"github.com/evidenta/portal-backend/internal/pkg/database"
	"github.com/evidenta/portal-backend/internal/pkg/jwt"
	"github.com/evidenta/portal-backend/internal/repository/postgresql"
	attendanceService "github.com/evidenta/portal-backend/internal/service/attendance"
	authService "github.com/evidenta/portal-backend/internal/service/auth"
	calendarService "github.com/evidenta/portal-backend/internal/service/calendar"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	calendarSvc := calendarService.NewCalendarService(cfg.Calendar.BaseURL, cfg.Calendar.CalendarID, cfg.Calendar.APIKey)
	authSvc := authService.NewAuthService(db, userRepo, jwtService, jwtRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, calendarSvc)
	overviewLoader := attendanceService.NewOverviewLoader(attendanceSvc)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, overviewLoader)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeRepo)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("warm-holiday-cache", cron.HolidayWarmInterval, cron.WarmHolidayCache(calendarSvc))
	scheduler.AddJob("audit-duplicate-attendance", cron.DuplicateAuditInterval, cron.AuditDuplicates(attendanceRepo))
	scheduler.AddJob("refresh-aggregate-overview", cron.OverviewRefreshInterval, cron.RefreshAggregateOverview(overviewLoader))
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.CORSOrigin,
		authHandler,
		attendanceHandler,
		calendarHandler,
		employeeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
