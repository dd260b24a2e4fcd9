package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/ports"
)

const collectionActivity = "activity_log"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionActivity)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// InsertEvent persists one activity entry. A missing id or timestamp is filled in.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	_, err := r.col.InsertOne(ctx, toDocument(event, time.Now().UTC()))
	return err
}

func toDocument(event *domain.AuditEvent, recordedAt time.Time) bson.M {
	doc := bson.M{
		"_id":         event.ID,
		"action":      string(event.Action),
		"actor_id":    event.ActorID,
		"actor_name":  event.ActorName,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": recordedAt,
	}
	if event.JobID != 0 {
		doc["job_id"] = event.JobID
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}
	return doc
}

// EnsureIndexes creates the indexes used to browse the activity log.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "job_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
