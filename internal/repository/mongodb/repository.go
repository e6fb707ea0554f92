package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

const snapshotsCollection = "report_snapshots"

// ErrNoSnapshot is returned when no report has been archived yet.
var ErrNoSnapshot = errors.New("no report snapshot archived")

// Repository archives exported reports.
type Repository interface {
	SaveSnapshot(ctx context.Context, snap models.ReportSnapshot) error
	LatestSnapshot(ctx context.Context) (*models.ReportSnapshot, error)
}

// MongoDBRepository implements Repository on a MongoDB collection.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository connects and pings the server.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: snapshotsCollection,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveSnapshot inserts a report snapshot.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snap models.ReportSnapshot) error {
	if _, err := r.collection().InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("failed to insert report snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently generated snapshot.
func (r *MongoDBRepository) LatestSnapshot(ctx context.Context) (*models.ReportSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var snap models.ReportSnapshot
	err := r.collection().FindOne(ctx, bson.D{}, opts).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest report snapshot: %w", err)
	}
	return &snap, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
