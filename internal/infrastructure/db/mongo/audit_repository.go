package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

const (
	authEventsCollection = "auth_events"
	authEventsRetention  = 90 * 24 * time.Hour
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(authEventsCollection)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// InsertAuthEvent persists an authentication event to the audit collection.
func (r *AuditRepository) InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, authEventDoc(event, time.Now())); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

func authEventDoc(event *domain.AuthEvent, processedAt time.Time) bson.M {
	doc := bson.M{
		"kind":         string(event.Kind),
		"email":        event.Email,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": processedAt.UTC(),
	}
	if event.UserID != "" {
		doc["user_id"] = event.UserID
	}
	if event.Reason != "" {
		doc["reason"] = event.Reason
	}
	if event.ClientIP != "" {
		doc["client_ip"] = event.ClientIP
	}
	return doc
}

// EnsureIndexes indexes events by e-mail and expires them after the retention period.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "timestamp", Value: -1}}},
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(authEventsRetention.Seconds())),
		},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("auth_events indexes: %w", err)
	}
	return nil
}
