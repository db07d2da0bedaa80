package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

// ScopeRepository stores immutable scope versions. Version numbers come from
// a per-project counter document.
type ScopeRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewScopeRepository(db *mongo.Database) *ScopeRepository {
	return &ScopeRepository{
		coll:     db.Collection(scopesCollection),
		counters: db.Collection(countersCollection),
	}
}

var _ ports.ScopeRepository = (*ScopeRepository)(nil)

type counter struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}

// NextVersionNumber increments the project's counter with a single upserting
// $inc, which the server applies atomically per document.
func (r *ScopeRepository) NextVersionNumber(ctx context.Context, projectID string) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "scope:" + projectID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next scope version: %w", err)
	}
	return c.Seq, nil
}

func (r *ScopeRepository) Create(ctx context.Context, v *domain.ScopeVersion) error {
	if _, err := r.coll.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("insert scope version: %w", err)
	}
	return nil
}

// ListByProject returns every version of the project, newest first.
func (r *ScopeRepository) ListByProject(ctx context.Context, ownerID, projectID string) ([]*domain.ScopeVersion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version_number", Value: -1}})
	return findAll[domain.ScopeVersion](ctx, r.coll, bson.M{"owner_id": ownerID, "project_id": projectID}, opts)
}

func (r *ScopeRepository) FindLatest(ctx context.Context, ownerID, projectID string) (*domain.ScopeVersion, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version_number", Value: -1}})
	return findOne[domain.ScopeVersion](ctx, r.coll, bson.M{"owner_id": ownerID, "project_id": projectID}, domain.ErrScopeNotFound, opts)
}

func (r *ScopeRepository) FindByVersion(ctx context.Context, ownerID, projectID string, version int) (*domain.ScopeVersion, error) {
	filter := bson.M{"owner_id": ownerID, "project_id": projectID, "version_number": version}
	return findOne[domain.ScopeVersion](ctx, r.coll, filter, domain.ErrScopeNotFound)
}

func (r *ScopeRepository) FindByShareToken(ctx context.Context, token string) (*domain.ScopeVersion, error) {
	return findOne[domain.ScopeVersion](ctx, r.coll, bson.M{"share_token": token}, domain.ErrScopeNotFound)
}
