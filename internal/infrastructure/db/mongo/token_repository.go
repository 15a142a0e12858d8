package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

const collectionTokens = "personal_access_tokens"

type TokenRepository struct {
	col *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{col: db.Collection(collectionTokens)}
}

type mongoToken struct {
	TokenHash  string    `bson:"token_hash"`
	UserID     string    `bson:"user_id"`
	CreatedAt  time.Time `bson:"created_at"`
	LastUsedAt time.Time `bson:"last_used_at"`
}

func (r *TokenRepository) Create(ctx context.Context, t *domain.AccessToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoToken{
		TokenHash:  t.TokenHash,
		UserID:     t.UserID,
		CreatedAt:  t.CreatedAt,
		LastUsedAt: t.LastUsedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return domain.StorageError("insert token", err)
	}
	return nil
}

func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*domain.AccessToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoToken
	err := r.col.FindOne(ctx, bson.M{"token_hash": hash}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, domain.StorageError("find token", err)
	}

	return &domain.AccessToken{
		TokenHash:  doc.TokenHash,
		UserID:     doc.UserID,
		CreatedAt:  doc.CreatedAt.UTC(),
		LastUsedAt: doc.LastUsedAt.UTC(),
	}, nil
}

func (r *TokenRepository) DeleteByHash(ctx context.Context, hash string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"token_hash": hash})
	if err != nil {
		return false, domain.StorageError("delete token", err)
	}
	return res.DeletedCount > 0, nil
}

// HashesByUser returns the hashes of every token of userID so the caller can
// invalidate cached entries before the records go away.
func (r *TokenRepository) HashesByUser(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"token_hash": 1, "_id": 0})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, domain.StorageError("list user tokens", err)
	}

	var docs []mongoToken
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.StorageError("list user tokens", err)
	}

	hashes := make([]string, 0, len(docs))
	for _, d := range docs {
		hashes = append(hashes, d.TokenHash)
	}
	return hashes, nil
}

// DeleteByUser filters on user_id, so a token inserted after HashesByUser is
// removed too.
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, domain.StorageError("delete user tokens", err)
	}
	return res.DeletedCount, nil
}

// Touch sets last_used_at. A token revoked in the meantime is ignored.
func (r *TokenRepository) Touch(ctx context.Context, hash string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"token_hash": hash},
		bson.M{"$set": bson.M{"last_used_at": at.UTC()}},
	)
	if err != nil {
		return domain.StorageError("touch token", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the tokens collection.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "token_hash", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
