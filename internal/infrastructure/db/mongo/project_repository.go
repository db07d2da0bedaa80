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

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection)}
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Project, error) {
	return findOne[domain.Project](ctx, r.coll, ownedFilter(ownerID, id), domain.ErrProjectNotFound)
}

func (r *ProjectRepository) FindByIDUnscoped(ctx context.Context, id string) (*domain.Project, error) {
	return findOne[domain.Project](ctx, r.coll, bson.M{"_id": id}, domain.ErrProjectNotFound)
}

// List returns the owner's projects, newest first.
func (r *ProjectRepository) List(ctx context.Context, f ports.ProjectFilter) ([]*domain.Project, error) {
	filter := bson.M{"owner_id": f.OwnerID}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[domain.Project](ctx, r.coll, filter, opts)
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	return replaceOwned(ctx, r.coll, p.OwnerID, p.ID, p, domain.ErrProjectNotFound)
}

func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	return deleteOwned(ctx, r.coll, ownerID, id, domain.ErrProjectNotFound)
}
