package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/accountsvc/user-service/internal/core/domain"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/redact"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	userIDCounter      = "user_id"
)

// attrToField maps public attribute names to document field names. Sensitive
// attributes without a backing column are excluded under their own name,
// which MongoDB tolerates in an exclusion projection.
var attrToField = map[string]string{
	"id":        "_id",
	"name":      "name",
	"email":     "email",
	"position":  "position",
	"isActive":  "is_active",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"password":  "password_hash",
}

// UserRepository is the MongoDB-backed user directory. Ids are numeric and
// monotonic, drawn from a counters collection so they are stable and never
// reused.
type UserRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll:     db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure email index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID           int64  `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash,omitempty"`
	Position     int    `bson:"position"`
	IsActive     bool   `bson:"is_active"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID,
		Name:         mu.Name,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Position:     domain.Role(mu.Position),
		IsActive:     mu.IsActive,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userIDCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoUser{
		ID:           id,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Position:     int(user.Position),
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64, attributes []string) (*domain.User, error) {
	var mu mongoUser
	opts := options.FindOne().SetProjection(projection(attributes))
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// FindByEmail returns the full record including the password hash; it backs
// the login credential check and must not be used for outward reads.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindAll(ctx context.Context, q ports.ListQuery) ([]*domain.User, error) {
	filter := bson.M{}
	if q.NameContains != "" {
		filter["name"] = bson.M{"$regex": q.NameContains, "$options": "i"}
	}
	if q.EmailContains != "" {
		filter["email"] = bson.M{"$regex": q.EmailContains, "$options": "i"}
	}
	if q.Position != nil {
		filter["position"] = int(*q.Position)
	}
	if q.PositionAbove != nil || q.PositionBelow != nil {
		bounds := bson.M{}
		if q.PositionAbove != nil {
			bounds["$gt"] = *q.PositionAbove
		}
		if q.PositionBelow != nil {
			bounds["$lt"] = *q.PositionBelow
		}
		filter["position"] = bounds
	}
	if q.IsActive != nil {
		filter["is_active"] = *q.IsActive
	}

	opts := options.Find().SetProjection(projection(q.Attributes))
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if q.Offset > 0 {
		opts.SetSkip(q.Offset)
	}
	switch q.Sort {
	case ports.SortByIDAsc:
		opts.SetSort(bson.D{{Key: "_id", Value: 1}})
	default:
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0)
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes ports.UserChanges) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		set["password_hash"] = *changes.PasswordHash
	}
	if changes.Position != nil {
		set["position"] = int(*changes.Position)
	}
	if changes.IsActive != nil {
		set["is_active"] = *changes.IsActive
	}

	var mu mongoUser
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(projection(nil)),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// projection converts an attribute list into a MongoDB projection. An empty
// list means "everything but the sensitive set", so sensitive columns are
// never fetched by default.
func projection(attributes []string) bson.M {
	proj := bson.M{}
	if len(attributes) == 0 {
		for _, attr := range redact.SafeAttributes() {
			proj[fieldFor(attr)] = 0
		}
		return proj
	}
	for _, attr := range attributes {
		if redact.IsSensitive(attr) {
			continue
		}
		proj[fieldFor(attr)] = 1
	}
	return proj
}

func fieldFor(attr string) string {
	if f, ok := attrToField[attr]; ok {
		return f
	}
	return attr
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
