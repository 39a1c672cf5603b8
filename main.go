package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/storage/redis/v3"
	"github.com/google/uuid"
	"github.com/pulseboard/pulseboard/internal/audit"
	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/common"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/handlers/api"
	"github.com/pulseboard/pulseboard/internal/middlewares"
	"github.com/pulseboard/pulseboard/internal/middlewares/bearer"
	"github.com/pulseboard/pulseboard/internal/ratelimit"
	"github.com/pulseboard/pulseboard/internal/rbac"
	"github.com/pulseboard/pulseboard/internal/sessions"
	"github.com/pulseboard/pulseboard/internal/store"
	"github.com/pulseboard/pulseboard/internal/users"
	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/params"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "pulseboard - analytics dashboard backend"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(dbConfig config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: dbConfig.TablePrefix,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

func mustInitRedisStorage(redisCfg config.RedisConfig) *redis.Storage {
	return redis.New(redis.Config{
		URL:           redisCfg.URL,
		PoolSize:      redisCfg.PoolSize,
		IsClusterMode: redisCfg.ClusterMode,
	})
}

// bootstrapAdmin seeds the first admin account when the users table is empty.
func bootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig, authService *auth.Service, userService *users.UserService) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	count, err := userService.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	user, err := authService.Register(ctx, auth.RegisterOptions{
		Email:    cfg.AdminEmail,
		Name:     cfg.AdminName,
		Password: cfg.AdminPassword,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	audit.Record(ctx, audit.Entry{
		Action:     audit.ActionUserCreated,
		Resource:   rbac.ResourceUsers,
		ResourceID: fmt.Sprint(user.ID),
		Details:    map[string]any{"email": user.Email, "bootstrap": true},
	})
	slog.Info("Bootstrapped admin account", "email", user.Email)
	return nil
}

func setupAPIRoutes(
	router fiber.Router,
	authService *auth.Service,
	userService *users.UserService,
	loginLimiter *ratelimit.LoginLimiter) {

	// handlers
	var (
		authHandler = api.NewAuthHandler(authService, loginLimiter)
		userHandler = api.NewUserHandler(authService, userService)
		prefHandler = api.NewPreferenceHandler(userService)
	)

	requireAuth := bearer.New(authService)

	// routes
	authGroup := router.Group("/api/auth")
	authGroup.Post("/login", authHandler.PostLogin)
	authGroup.Post("/logout", authHandler.PostLogout)
	authGroup.Get("/me", requireAuth, authHandler.GetMe)
	authGroup.Get("/permissions", requireAuth, authHandler.GetPermissions)

	userGroup := router.Group("/api/users", requireAuth)
	userGroup.Get("/", userHandler.GetUsers)
	userGroup.Post("/", userHandler.PostUser)
	userGroup.Put("/:id", userHandler.PutUser)
	userGroup.Delete("/:id", userHandler.DeleteUser)
	userGroup.Post("/:id/sessions/revoke", userHandler.PostRevokeSessions)

	prefGroup := router.Group("/api/preferences", requireAuth)
	prefGroup.Get("/", prefHandler.GetPreferences)
	prefGroup.Put("/", prefHandler.PutPreferences)
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	mustInitLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))

	db := mustInitDatabase(cfg.MySQL)
	redisStorage := mustInitRedisStorage(cfg.Redis)
	counterStorage := store.NewRedisStorage(redisStorage.Conn())

	// repositories
	var (
		userRepo  = users.NewUserRepository(db)
		prefRepo  = users.NewPreferenceRepository(db)
		auditRepo = audit.NewAuditLogRepository(db)
	)
	audit.Initialize(auditRepo)

	// services
	var (
		userService  = users.NewUserService(db, userRepo, prefRepo)
		sessionStore = sessions.NewSessionStore(db)
		tokenCodec   = auth.NewTokenCodec(cfg.Auth.SigningSecret, cfg.Auth.TokenValidity)
		hasher       = auth.NewPasswordHasher(cfg.Auth.PasswordHashCost)
		authService  = auth.NewService(userService, sessionStore, tokenCodec, hasher)
		loginLimiter = ratelimit.NewLoginLimiter(
			store.StorageWithPrefix(counterStorage, params.LoginAttemptKeyPrefix),
			params.LoginMaxAttempts,
			params.LoginAttemptWindow,
		)
	)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(ctx.Context, 30*time.Second)
	defer cancelBootstrap()
	if err := bootstrapAdmin(bootstrapCtx, cfg.Bootstrap, authService, userService); err != nil {
		slog.Error("Failed to bootstrap admin account", "error", err)
		return err
	}

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	setupAPIRoutes(router, authService, userService, loginLimiter)

	backgroundCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(backgroundCtx, done, redisStorage.Conn(), db)
	go sessions.NewSweeper(sessionStore, params.SessionSweepInterval).Run(backgroundCtx)
	defer func() {
		term()
		<-done
	}()
	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
