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

type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(paymentsCollection)}
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

// Create inserts p. An insert that loses to an existing payment with the
// same idempotency key returns domain.ErrIdempotencyKeyTaken.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	_, err := r.coll.InsertOne(ctx, p)
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) && p.IdempotencyKey != "" {
		return domain.ErrIdempotencyKeyTaken
	}
	return fmt.Errorf("insert payment: %w", err)
}

func (r *PaymentRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Payment, error) {
	return findOne[domain.Payment](ctx, r.coll, ownedFilter(ownerID, id), domain.ErrPaymentNotFound)
}

func (r *PaymentRepository) FindByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Payment, error) {
	return findOne[domain.Payment](ctx, r.coll, bson.M{"owner_id": ownerID, "idempotency_key": key}, domain.ErrPaymentNotFound)
}

// List returns matching payments in creation order. An empty OwnerID spans
// every account and is only used by the background sweep.
func (r *PaymentRepository) List(ctx context.Context, f ports.PaymentFilter) ([]*domain.Payment, error) {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.ProjectID != "" {
		filter["project_id"] = f.ProjectID
	}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	if !f.DueBefore.IsZero() {
		filter["due_date"] = bson.M{"$lt": f.DueBefore}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[domain.Payment](ctx, r.coll, filter, opts)
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	return replaceOwned(ctx, r.coll, p.OwnerID, p.ID, p, domain.ErrPaymentNotFound)
}

func (r *PaymentRepository) Delete(ctx context.Context, ownerID, id string) error {
	return deleteOwned(ctx, r.coll, ownerID, id, domain.ErrPaymentNotFound)
}
