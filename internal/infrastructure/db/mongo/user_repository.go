package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

const (
	collectionUsers = "users"
	queryTimeout    = 10 * time.Second
)

// UserRepository is the MongoDB adapter for the persistence port.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// Create inserts a new user document, assigning its identifier.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ConflictError{Message: "user already exists"}
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindBySocialAccount locates the user holding an *active* link for the given
// (provider, providerID) pair, across all users.
func (r *UserRepository) FindBySocialAccount(ctx context.Context, provider, providerID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"social_accounts": bson.M{"$elemMatch": bson.M{
			"provider":    provider,
			"provider_id": providerID,
			"is_active":   true,
		}},
	})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u domain.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &u, nil
}

// Update replaces the stored document with the given aggregate state.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &domain.NotFoundError{Resource: "user"}
	}
	return nil
}

// Delete hard-removes a document. Application flow soft-deletes instead; this
// exists for administrative cleanup.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return &domain.NotFoundError{Resource: "user"}
	}
	return nil
}

// sortFields maps the service-level sort keys onto document fields.
var sortFields = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"username":      "username",
	"email":         "email",
	"last_login_at": "last_login_at",
	"login_count":   "login_count",
}

// FindAll returns a page of users matching the filter and the total count.
func (r *UserRepository) FindAll(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.EmailVerified != nil {
		query["email_verified"] = *filter.EmailVerified
	}
	if filter.IsSuspended != nil {
		query["is_suspended"] = *filter.IsSuspended
	}
	if !filter.CreatedFrom.IsZero() || !filter.CreatedTo.IsZero() {
		created := bson.M{}
		if !filter.CreatedFrom.IsZero() {
			created["$gte"] = filter.CreatedFrom
		}
		if !filter.CreatedTo.IsZero() {
			created["$lte"] = filter.CreatedTo
		}
		query["created_at"] = created
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	sortField, ok := sortFields[filter.SortBy]
	if !ok {
		sortField = "created_at"
	}
	order := 1
	if filter.SortDesc {
		order = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var users []*domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Search performs a case-insensitive partial match over the identity and name
// fields.
func (r *UserRepository) Search(ctx context.Context, query string, opts ports.SearchOptions) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"username": pattern},
		{"email": pattern},
		{"profile.first_name": pattern},
		{"profile.last_name": pattern},
		{"profile.display_name": pattern},
	}}
	if !opts.IncludeInactive {
		filter["is_active"] = true
	}

	findOpts := options.Find().
		SetLimit(int64(opts.Limit)).
		SetSort(bson.D{{Key: "username", Value: 1}})

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Exists checks both unique identifiers in one query and reports every
// conflict found.
func (r *UserRepository) Exists(ctx context.Context, email, username string) (ports.ExistsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"$or": []bson.M{{"email": email}, {"username": username}}},
		options.Find().SetProjection(bson.M{"email": 1, "username": 1}),
	)
	if err != nil {
		return ports.ExistsResult{}, err
	}
	defer cur.Close(ctx)

	var result ports.ExistsResult
	for cur.Next(ctx) {
		var doc struct {
			Email    string `bson:"email"`
			Username string `bson:"username"`
		}
		if err := cur.Decode(&doc); err != nil {
			return ports.ExistsResult{}, err
		}
		if doc.Email == email {
			result.EmailTaken = true
		}
		if doc.Username == username {
			result.UsernameTaken = true
		}
	}
	if err := cur.Err(); err != nil {
		return ports.ExistsResult{}, err
	}
	result.Exists = result.EmailTaken || result.UsernameTaken
	return result, nil
}

// EnsureIndexes creates the indexes backing the uniqueness and lookup paths.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{
			{Key: "social_accounts.provider", Value: 1},
			{Key: "social_accounts.provider_id", Value: 1},
		}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
