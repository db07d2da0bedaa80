package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// TimelineRepository persists the activity log to the timeline_events
// collection. Entries are never updated.
type TimelineRepository struct {
	coll *mongo.Collection
}

func NewTimelineRepository(db *mongo.Database) *TimelineRepository {
	return &TimelineRepository{coll: db.Collection(timelineCollection)}
}

var _ ports.TimelineRepository = (*TimelineRepository)(nil)

func (r *TimelineRepository) Insert(ctx context.Context, e *domain.TimelineEvent) error {
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert timeline event: %w", err)
	}
	return nil
}

func (r *TimelineRepository) ListByProject(ctx context.Context, ownerID, projectID string, limit int) ([]*domain.TimelineEvent, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID, "project_id": projectID}, limit)
}

func (r *TimelineRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]*domain.TimelineEvent, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID}, limit)
}

func (r *TimelineRepository) list(ctx context.Context, filter bson.M, limit int) ([]*domain.TimelineEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[domain.TimelineEvent](ctx, r.coll, filter, opts)
}

// LastActivity groups the owner's events by project and keeps the newest
// created_at of each.
func (r *TimelineRepository) LastActivity(ctx context.Context, ownerID string, projectIDs []string) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerID, "project_id": bson.M{"$in": projectIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$project_id", "last": bson.M{"$max": "$created_at"}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate last activity: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ProjectID string    `bson:"_id"`
			Last      time.Time `bson:"last"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode last activity: %w", err)
		}
		out[row.ProjectID] = row.Last
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate last activity: %w", err)
	}
	return out, nil
}
