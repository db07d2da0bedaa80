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

type ReminderRepository struct {
	coll *mongo.Collection
}

func NewReminderRepository(db *mongo.Database) *ReminderRepository {
	return &ReminderRepository{coll: db.Collection(remindersCollection)}
}

var _ ports.ReminderRepository = (*ReminderRepository)(nil)

func (r *ReminderRepository) Create(ctx context.Context, rem *domain.Reminder) error {
	if _, err := r.coll.InsertOne(ctx, rem); err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Reminder, error) {
	return findOne[domain.Reminder](ctx, r.coll, ownedFilter(ownerID, id), domain.ErrReminderNotFound)
}

func (r *ReminderRepository) List(ctx context.Context, f ports.ReminderFilter) ([]*domain.Reminder, error) {
	filter := bson.M{"owner_id": f.OwnerID}
	if f.ProjectID != "" {
		filter["project_id"] = f.ProjectID
	}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.PaymentID != "" {
		filter["payment_id"] = f.PaymentID
	}
	if !f.IncludeSent {
		filter["is_sent"] = false
	}
	date := bson.M{}
	if !f.DateAfter.IsZero() {
		date["$gt"] = f.DateAfter
	}
	if !f.DateNotAfter.IsZero() {
		date["$lte"] = f.DateNotAfter
	}
	if len(date) > 0 {
		filter["reminder_date"] = date
	}

	opts := options.Find().SetSort(bson.D{{Key: "reminder_date", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[domain.Reminder](ctx, r.coll, filter, opts)
}

func (r *ReminderRepository) Update(ctx context.Context, rem *domain.Reminder) error {
	return replaceOwned(ctx, r.coll, rem.OwnerID, rem.ID, rem, domain.ErrReminderNotFound)
}

func (r *ReminderRepository) Delete(ctx context.Context, ownerID, id string) error {
	return deleteOwned(ctx, r.coll, ownerID, id, domain.ErrReminderNotFound)
}
