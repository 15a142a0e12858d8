package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

const collectionAuthUsers = "auth_users"

// LocalIdentity is a self-hosted credential verifier for environments without
// an external identity provider. Passwords are stored as bcrypt hashes.
type LocalIdentity struct {
	col   *mongo.Collection
	cost  int
	newID func() string
}

func NewLocalIdentity(db *mongo.Database) *LocalIdentity {
	return &LocalIdentity{
		col:   db.Collection(collectionAuthUsers),
		cost:  bcrypt.DefaultCost,
		newID: uuid.NewString,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (l *LocalIdentity) WithCost(cost int) *LocalIdentity {
	l.cost = cost
	return l
}

type authUser struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	DisplayName  string    `bson:"display_name"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (u authUser) identity() *domain.Identity {
	return &domain.Identity{UID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func (l *LocalIdentity) CreateUser(ctx context.Context, name, email, password string) (*domain.Identity, error) {
	hash, err := l.hash(password)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := authUser{
		ID:           l.newID(),
		Email:        normalizeEmail(email),
		DisplayName:  name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := l.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, domain.IdentityError("create user", err)
	}
	return doc.identity(), nil
}

// VerifyPassword returns the same error for an unknown email and a wrong
// password.
func (l *LocalIdentity) VerifyPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc authUser
	if err := l.col.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.IdentityError("verify password", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return doc.identity(), nil
}

func (l *LocalIdentity) UpdatePassword(ctx context.Context, uid, password string) error {
	hash, err := l.hash(password)
	if err != nil {
		return err
	}
	return l.set(ctx, "update password", uid, bson.M{"password_hash": hash})
}

func (l *LocalIdentity) UpdateDisplayName(ctx context.Context, uid, name string) error {
	return l.set(ctx, "update display name", uid, bson.M{"display_name": name})
}

// DeleteUser is idempotent.
func (l *LocalIdentity) DeleteUser(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := l.col.DeleteOne(ctx, bson.M{"_id": uid}); err != nil {
		return domain.IdentityError("delete user", err)
	}
	return nil
}

// EnsureIndexes creates the unique email index that backs ErrUserExists.
func (l *LocalIdentity) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := l.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (l *LocalIdentity) set(ctx context.Context, op, uid string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC()
	res, err := l.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": fields})
	if err != nil {
		return domain.IdentityError(op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (l *LocalIdentity) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewValidationError("password", "The password must not be greater than 72 bytes.")
		}
		return "", domain.IdentityError("hash password", err)
	}
	return string(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
