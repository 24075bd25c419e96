package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sycomix/inpoint-ai-backend/internal/model"
)

const (
	throttlesCollection = "throttles"
	resultsCollection   = "workspaces"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

type throttleRecord struct {
	Date time.Time `bson:"date"`
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &Store{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Throttle(ctx context.Context) (time.Time, bool, error) {
	var rec throttleRecord
	err := s.db.Collection(throttlesCollection).FindOne(ctx, bson.D{}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read throttle record: %w", err)
	}
	return rec.Date, true, nil
}

func (s *Store) ReplaceThrottle(ctx context.Context, t time.Time) error {
	coll := s.db.Collection(throttlesCollection)
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear throttle record: %w", err)
	}
	if _, err := coll.InsertOne(ctx, throttleRecord{Date: t}); err != nil {
		return fmt.Errorf("failed to write throttle record: %w", err)
	}
	return nil
}

func (s *Store) ReplaceResults(ctx context.Context, results []model.AnalysisResult) error {
	coll := s.db.Collection(resultsCollection)
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	if len(results) == 0 {
		return nil
	}
	docs := make([]interface{}, len(results))
	for i, r := range results {
		docs[i] = r
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert results: %w", err)
	}
	return nil
}

func (s *Store) Results(ctx context.Context, workspaceIDs []string) ([]model.AnalysisResult, error) {
	filter := bson.D{}
	if len(workspaceIDs) > 0 {
		filter = bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: workspaceIDs}}}}
	}

	cursor, err := s.db.Collection(resultsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer cursor.Close(ctx)

	results := []model.AnalysisResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return results, nil
}
