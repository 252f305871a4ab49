package database

import (
	"context"
	"fmt"

	"github.com/radiusdt/campaign-analytics/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoDB wraps a MongoDB client bound to one database.
type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
	logger *zap.Logger
}

// NewMongoDB connects to MongoDB and verifies the primary is reachable.
func NewMongoDB(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", cfg.Database))

	return &MongoDB{
		Client: client,
		DB:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	m.logger.Info("MongoDB connection closed")
	return m.Client.Disconnect(ctx)
}

// Health checks if the primary is reachable.
func (m *MongoDB) Health(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}
