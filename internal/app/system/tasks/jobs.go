// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dalemusser/stratacms/internal/app/system/mailer"
)

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
// The collection also carries a TTL index; the job keeps DocDB deployments
// tidy where TTL sweeps are lazy.
func OAuthStateCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			coll := db.Collection("oauth_states")
			result, err := coll.DeleteMany(ctx, bson.M{
				"expires_at": bson.M{"$lt": time.Now()},
			})
			if err != nil {
				return err
			}
			if result.DeletedCount > 0 {
				logger.Info("cleaned up expired oauth states",
					zap.Int64("deleted", result.DeletedCount))
			}
			return nil
		},
	}
}

// RateLimitCleanupJob creates a job that removes stale login rate-limit
// records past their expiry.
func RateLimitCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	return Job{
		Name:     "rate-limit-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			coll := db.Collection("rate_limits")
			result, err := coll.DeleteMany(ctx, bson.M{
				"expires_at": bson.M{"$lt": time.Now()},
			})
			if err != nil {
				return err
			}
			if result.DeletedCount > 0 {
				logger.Info("cleaned up expired rate limits",
					zap.Int64("deleted", result.DeletedCount))
			}
			return nil
		},
	}
}

// UnreadDigestJob creates a job that emails the admin address when unread
// contact messages are waiting. It sends at most one digest per interval and
// stays silent when the inbox is clear. A nil mailer or empty adminEmail
// disables the job body without unregistering it.
func UnreadDigestJob(db *mongo.Database, m *mailer.Mailer, adminEmail, adminURL string, interval time.Duration, logger *zap.Logger) Job {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return Job{
		Name:     "unread-message-digest",
		Interval: interval,
		Run: func(ctx context.Context) error {
			if m == nil || adminEmail == "" {
				return nil
			}

			coll := db.Collection("contact_messages")
			count, err := coll.CountDocuments(ctx, bson.M{"is_read": false})
			if err != nil {
				return err
			}
			if count == 0 {
				return nil
			}

			var oldest struct {
				CreatedAt time.Time `bson:"created_at"`
			}
			opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
			if err := coll.FindOne(ctx, bson.M{"is_read": false}, opts).Decode(&oldest); err != nil && err != mongo.ErrNoDocuments {
				return err
			}

			oldestStr := ""
			if !oldest.CreatedAt.IsZero() {
				oldestStr = oldest.CreatedAt.Format("Jan 2, 2006 at 15:04 MST")
			}

			text, html := mailer.UnreadDigestEmail(mailer.UnreadDigestEmailData{
				AppName:     m.FromName(),
				UnreadCount: int(count),
				Oldest:      oldestStr,
				AdminURL:    adminURL,
			})
			if err := m.Send(mailer.Email{
				To:       adminEmail,
				Subject:  "Unread contact messages waiting",
				TextBody: text,
				HTMLBody: html,
			}); err != nil {
				return err
			}

			logger.Info("unread message digest sent",
				zap.Int64("unread", count),
				zap.String("to", adminEmail))
			return nil
		},
	}
}
