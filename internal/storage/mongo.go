package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	analyticsCollection = "analytics"
	campaignsCollection = "campaigns"
	usersCollection     = "users"
)

// insertion order for documents without a sequence column
var byCreation = bson.D{{Key: "createdOn", Value: 1}, {Key: "_id", Value: 1}}

// EnsureMongoIndexes creates the indexes the queries rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		analyticsCollection: {
			{Keys: bson.D{{Key: "target", Value: 1}, {Key: "type", Value: 1}}},
		},
		campaignsCollection: {
			{Keys: bson.D{{Key: "userID", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// NewMongoStores wires the MongoDB repositories to one database.
func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Events:    NewMongoEventStore(db),
		Campaigns: NewMongoCampaignRepo(db),
		Users:     NewMongoUserRepo(db),
		Health: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
	}
}

// =============================================
// EVENTS
// =============================================

// MongoEventStore implements EventStore on the analytics collection.
type MongoEventStore struct {
	coll *mongo.Collection
}

func NewMongoEventStore(db *mongo.Database) *MongoEventStore {
	return &MongoEventStore{coll: db.Collection(analyticsCollection)}
}

func (s *MongoEventStore) Insert(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, err := s.coll.InsertOne(ctx, e); err != nil {
		return apperr.Store("storage.InsertEvent", fmt.Errorf("failed to save event: %w", err))
	}
	return nil
}

func (s *MongoEventStore) Count(ctx context.Context, target string, t models.EventType) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"target": target, "type": string(t)})
	if err != nil {
		return 0, apperr.Store("storage.CountEvents", fmt.Errorf("failed to count events: %w", err))
	}
	return n, nil
}

func (s *MongoEventStore) List(ctx context.Context, target string, t models.EventType) ([]*models.Event, error) {
	return s.find(ctx, "storage.ListEvents", bson.M{"target": target, "type": string(t)})
}

func (s *MongoEventStore) GroupCount(ctx context.Context, target string, t models.EventType, field models.GroupField) ([]models.GroupCount, error) {
	switch field {
	case models.GroupBySocial, models.GroupBySticker, models.GroupByCity:
	default:
		return nil, apperr.Validation("storage.GroupCount", "field", fmt.Sprintf("unsupported group field %q", field))
	}

	path := string(field)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "target", Value: target},
			{Key: "type", Value: string(t)},
			{Key: path, Value: bson.M{"$exists": true, "$nin": bson.A{nil, ""}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + path},
			{Key: "count", Value: bson.M{"$sum": 1}},
			{Key: "first", Value: bson.M{"$min": "$createdOn"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "first", Value: 1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Store("storage.GroupCount", fmt.Errorf("failed to group events: %w", err))
	}
	groups := make([]models.GroupCount, 0)
	if err := cur.All(ctx, &groups); err != nil {
		return nil, apperr.Store("storage.GroupCount", err)
	}
	return groups, nil
}

func (s *MongoEventStore) ListByTargets(ctx context.Context, targets []string) ([]*models.Event, error) {
	if len(targets) == 0 {
		return []*models.Event{}, nil
	}
	return s.find(ctx, "storage.ListEventsByTargets", bson.M{"target": bson.M{"$in": targets}})
}

func (s *MongoEventStore) find(ctx context.Context, op string, filter bson.M) ([]*models.Event, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(byCreation))
	if err != nil {
		return nil, apperr.Store(op, fmt.Errorf("failed to list events: %w", err))
	}
	events := make([]*models.Event, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, apperr.Store(op, err)
	}
	return events, nil
}

// =============================================
// CAMPAIGNS
// =============================================

type MongoCampaignRepo struct {
	coll *mongo.Collection
}

func NewMongoCampaignRepo(db *mongo.Database) *MongoCampaignRepo {
	return &MongoCampaignRepo{coll: db.Collection(campaignsCollection)}
}

func (r *MongoCampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return apperr.Store("storage.CreateCampaign", fmt.Errorf("failed to insert campaign: %w", err))
	}
	return nil
}

func (r *MongoCampaignRepo) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("storage.GetCampaign", "campaign", id)
	}
	if err != nil {
		return nil, apperr.Store("storage.GetCampaign", fmt.Errorf("failed to get campaign: %w", err))
	}
	return &c, nil
}

func (r *MongoCampaignRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Campaign, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userID": userID}, options.Find().SetSort(byCreation))
	if err != nil {
		return nil, apperr.Store("storage.ListCampaigns", fmt.Errorf("failed to list campaigns: %w", err))
	}
	campaigns := make([]*models.Campaign, 0)
	if err := cur.All(ctx, &campaigns); err != nil {
		return nil, apperr.Store("storage.ListCampaigns", err)
	}
	return campaigns, nil
}

// =============================================
// USERS
// =============================================

type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection(usersCollection)}
}

func (r *MongoUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Validation("storage.CreateUser", "email", "email already registered")
	}
	if err != nil {
		return apperr.Store("storage.CreateUser", fmt.Errorf("failed to insert user: %w", err))
	}
	return nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, bson.M{"_id": id}, id)
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, bson.M{"email": email}, email)
}

func (r *MongoUserRepo) getOne(ctx context.Context, filter bson.M, key string) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("storage.GetUser", "user", key)
	}
	if err != nil {
		return nil, apperr.Store("storage.GetUser", fmt.Errorf("failed to get user: %w", err))
	}
	return &u, nil
}
