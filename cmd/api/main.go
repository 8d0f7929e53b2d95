package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/config"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-presensi-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-presensi-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-presensi-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-presensi-go/internal/service/attendance"
	"github.com/cmlabs-hris/hris-presensi-go/internal/service/directory"
	"github.com/cmlabs-hris/hris-presensi-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hris-presensi-go/internal/service/leave"
)

type repositories struct {
	tx          database.Transactor
	users       user.UserRepository
	workSites   user.WorkSiteRepository
	requests    leave.LeaveRequestRepository
	reviews     leave.LeaveReviewRepository
	attendances attendance.AttendanceRepository
	close       func()
	demoUsers   []user.User
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatal("Failed to open storage: ", err)
	}
	defer repos.close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Upload.BasePath, cfg.Upload.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}

	hub := sse.NewHub()
	fileService := file.NewFileService(fileStorage)
	directoryService := directory.NewDirectoryService(repos.users, repos.workSites, cfg.Approval.Chains)
	leaveSvc := leaveService.NewLeaveService(repos.tx, repos.requests, repos.reviews, directoryService, fileService, hub)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.tx,
		repos.attendances,
		repos.requests,
		repos.users,
		directoryService,
		hub,
		attendance.Shift{
			Start:              cfg.ShiftStartOffset(),
			GracePeriodMinutes: cfg.Attendance.GracePeriodMinutes,
			Location:           cfg.App.Location,
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, cfg.App.Location, cfg.Attendance.AbsentCutoffHour, cfg.Attendance.WorkDays).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewEventHandler(JWTService, directoryService, hub),
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			UploadDir:      cfg.Upload.BasePath,
			UploadURL:      cfg.Upload.BaseURL,
		},
	)

	for _, u := range repos.demoUsers {
		token, _, err := JWTService.GenerateAccessToken(u.ID)
		if err != nil {
			continue
		}
		slog.Info("demo user", "name", u.Name, "roles", u.Roles, "user_id", u.ID, "token", token)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "storage", cfg.Database.Driver, "timezone", cfg.App.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		return &repositories{
			tx:          memory.NewTransactor(store),
			users:       memory.NewUserRepository(store),
			workSites:   memory.NewWorkSiteRepository(store),
			requests:    memory.NewLeaveRequestRepository(store),
			reviews:     memory.NewLeaveReviewRepository(store),
			attendances: memory.NewAttendanceRepository(store),
			close:       func() {},
			demoUsers:   fixtures.Seed(store),
		}, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		return &repositories{
			tx:          postgresql.NewTransactor(db),
			users:       postgresql.NewUserRepository(db),
			workSites:   postgresql.NewWorkSiteRepository(db),
			requests:    postgresql.NewLeaveRequestRepository(db),
			reviews:     postgresql.NewLeaveReviewRepository(db),
			attendances: postgresql.NewAttendanceRepository(db),
			close:       db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Database.Driver)
}
