package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freelanceos/backend/internal/core/domain"
	"github.com/freelanceos/backend/internal/core/ports"
)

type ClientRepository struct {
	coll *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{coll: db.Collection(clientsCollection)}
}

var _ ports.ClientRepository = (*ClientRepository)(nil)

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Client, error) {
	return findOne[domain.Client](ctx, r.coll, ownedFilter(ownerID, id), domain.ErrClientNotFound)
}

// List returns the owner's clients, newest first.
func (r *ClientRepository) List(ctx context.Context, f ports.ClientFilter) ([]*domain.Client, error) {
	filter := bson.M{"owner_id": f.OwnerID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Email != "" {
		filter["email"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(f.Email)) + "$", Options: "i"}
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"email": rx},
			bson.M{"company": rx},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[domain.Client](ctx, r.coll, filter, opts)
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	return replaceOwned(ctx, r.coll, c.OwnerID, c.ID, c, domain.ErrClientNotFound)
}

func (r *ClientRepository) Delete(ctx context.Context, ownerID, id string) error {
	return deleteOwned(ctx, r.coll, ownerID, id, domain.ErrClientNotFound)
}
