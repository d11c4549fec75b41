// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/stratacms/internal/app/store/users"
	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/authutil"
	"github.com/dalemusser/stratacms/internal/app/system/mailer"
	"github.com/dalemusser/stratacms/internal/app/system/tasks"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Seed admin user if configured
	if appCfg.SeedAdminLoginID != "" {
		if err := ensureAdminUser(ctx, deps, appCfg, logger); err != nil {
			logger.Error("failed to seed admin user", zap.Error(err))
			return err
		}
	}

	startTaskRunner(deps.MongoDatabase, deps.Mailer, appCfg, logger)

	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(db *mongo.Database, mail *mailer.Mailer, appCfg AppConfig, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	taskRunner.Register(tasks.OAuthStateCleanupJob(db, logger))
	taskRunner.Register(tasks.RateLimitCleanupJob(db, logger))
	taskRunner.Register(tasks.UnreadDigestJob(
		db,
		mail,
		appCfg.AdminNotifyEmail,
		appCfg.BaseURL+"/admin/messages",
		appCfg.UnreadDigestInterval,
		logger,
	))

	taskRunner.Start()
}

// ensureAdminUser ensures an admin account exists with the configured
// login ID. An existing user with that login ID is promoted to admin;
// their password is left alone. A missing user is created with the
// configured initial password.
func ensureAdminUser(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	store := userstore.New(deps.MongoDatabase)

	name := appCfg.SeedAdminName
	if name == "" {
		name = "Admin"
	}

	existing, err := store.GetByLoginID(ctx, appCfg.SeedAdminLoginID)
	if err == nil {
		if existing.Role == models.RoleAdmin {
			logger.Debug("admin user already configured",
				zap.String("login_id", existing.LoginID))
			return nil
		}
		role := models.RoleAdmin
		if err := store.Update(ctx, existing.ID, userstore.UpdateInput{Role: &role}); err != nil {
			return err
		}
		logger.Info("promoted existing user to admin",
			zap.String("login_id", existing.LoginID),
			zap.String("user_id", existing.ID.Hex()),
			zap.String("previous_role", existing.Role))
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	hash, err := authutil.HashPassword(appCfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	user, err := store.Create(ctx, models.User{
		FullName:     name,
		LoginID:      appCfg.SeedAdminLoginID,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}

	logger.Info("created admin user",
		zap.String("login_id", user.LoginID),
		zap.String("user_id", user.ID.Hex()))
	return nil
}
