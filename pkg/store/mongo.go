package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	// URI is the connection string, e.g. "mongodb://localhost:27017".
	URI string
	// Database defaults to "coursegraph".
	Database string
	// Collection defaults to "plans".
	Collection string
}

// MongoStore persists plans in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	plans  *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "coursegraph"
	}
	if cfg.Collection == "" {
		cfg.Collection = "plans"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		plans:  client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Create(ctx context.Context, name string, document []byte) (*StoredPlan, error) {
	now := time.Now().UTC()
	p := &StoredPlan{
		ID:        uuid.NewString(),
		Name:      name,
		Document:  document,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.plans.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	return p, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*StoredPlan, error) {
	var p StoredPlan
	err := s.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*StoredPlan, error) {
	cursor, err := s.plans.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*StoredPlan
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, document []byte) (*StoredPlan, error) {
	update := bson.M{"$set": bson.M{
		"document":   document,
		"updated_at": time.Now().UTC(),
	}}
	res := s.plans.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var p StoredPlan
	err := res.Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.plans.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
