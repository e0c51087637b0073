package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"

	"github.com/tendant/simple-directory/pkg/bootstrap"
	"github.com/tendant/simple-directory/pkg/config"
	"github.com/tendant/simple-directory/pkg/db"
	"github.com/tendant/simple-directory/pkg/role"
	roleapi "github.com/tendant/simple-directory/pkg/role/api"
	"github.com/tendant/simple-directory/pkg/router"
	"github.com/tendant/simple-directory/pkg/user"
	userapi "github.com/tendant/simple-directory/pkg/user/api"
)

type Config struct {
	DbConfig        config.DatabaseConfig
	AppConfig       app.AppConfig
	BootstrapConfig config.BootstrapConfig
}

func main() {
	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	if err := config.Validate(cfg.DbConfig.Validate, cfg.BootstrapConfig.Validate); err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(-1)
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	ctx := context.Background()

	pool, err := db.Open(ctx, cfg.DbConfig.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", cfg.DbConfig.Database,
			"host", cfg.DbConfig.Host, "port", cfg.DbConfig.Port, "user", cfg.DbConfig.User)
		os.Exit(-1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("Failed running migrations", "err", err)
		os.Exit(-1)
	}

	userRepo := user.NewPostgresUserRepository(pool)
	roleRepo := role.NewPostgresRoleRepository(pool)

	roleService := role.NewRoleService(roleRepo, userRepo)
	userService := user.NewUserService(userRepo, roleRepo, nil)

	if _, err := bootstrap.EnsureDefaults(ctx, bootstrap.Config{
		AdminUsername: cfg.BootstrapConfig.AdminUsername,
		AdminEmail:    cfg.BootstrapConfig.AdminEmail,
		AdminPassword: cfg.BootstrapConfig.AdminPassword,
		RoleService:   roleService,
		UserService:   userService,
	}); err != nil {
		slog.Error("Failed bootstrapping default roles and admin user", "err", err)
		os.Exit(-1)
	}

	router.SetupRoutes(server.R, router.Config{
		RoleHandler: roleapi.NewHandler(roleService),
		UserHandler: userapi.NewHandler(userService),
		DB:          pool,
	})

	server.Run()
}
