package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

const collectionProviders = "providers"

type ProviderRepository struct {
	col *mongo.Collection
}

func NewProviderRepository(db *mongo.Database) *ProviderRepository {
	return &ProviderRepository{col: db.Collection(collectionProviders)}
}

// Create inserts a new provider document.
func (r *ProviderRepository) Create(ctx context.Context, p *domain.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return domain.StorageError("insert provider", err)
	}
	return nil
}

// List returns providers in creation order, narrowed by owner when the filter
// names one.
func (r *ProviderRepository) List(ctx context.Context, filter ports.ProviderFilter) ([]*domain.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, domain.StorageError("list providers", err)
	}

	providers := []*domain.Provider{}
	if err := cur.All(ctx, &providers); err != nil {
		return nil, domain.StorageError("list providers", err)
	}
	return providers, nil
}

func (r *ProviderRepository) FindByID(ctx context.Context, id string) (*domain.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Provider
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProviderNotFound
		}
		return nil, domain.StorageError("find provider", err)
	}
	return &p, nil
}

// Update applies the non-nil patch fields with $set and returns the document
// after the update.
func (r *ProviderRepository) Update(ctx context.Context, id string, patch domain.ProviderPatch) (*domain.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := patchFields(patch)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p domain.Provider
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProviderNotFound
		}
		return nil, domain.StorageError("update provider", err)
	}
	return &p, nil
}

func (r *ProviderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return domain.StorageError("delete provider", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProviderNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the providers collection.
func (r *ProviderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func patchFields(p domain.ProviderPatch) bson.M {
	set := bson.M{}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("company_name", p.CompanyName)
	put("contact_name", p.ContactName)
	put("email", p.Email)
	put("phone_number", p.PhoneNumber)
	put("address", p.Address)
	put("city", p.City)
	put("state", p.State)
	put("postal_code", p.PostalCode)
	put("country", p.Country)
	put("user_id", p.UserID)
	return set
}
