package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	mongotx "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EntitiesCollection = "entities"

type mongoEntity struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per key. Transactions need a replica set.
type MongoStore struct {
	client       *mongo.Client
	collection   *mongo.Collection
	txManager    mongotx.TransactionManager
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoStore(client *mongo.Client, database string, readTimeout, writeTimeout time.Duration) *MongoStore {
	return &MongoStore{
		client:       client,
		collection:   client.Database(database).Collection(EntitiesCollection),
		txManager:    mongotx.NewTransactionManager(client),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// withTimeout bounds ctx unless it is a session context, which cannot be
// wrapped without leaving the transaction.
func (s *MongoStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	var doc mongoEntity
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return doc.Value, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now().UTC()}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prefix %s: %w", prefix, err)
	}
	defer cursor.Close(ctx)

	var docs []mongoEntity
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode prefix %s: %w", prefix, err)
	}

	values := make([][]byte, 0, len(docs))
	for _, d := range docs {
		values = append(values, d.Value)
	}
	return values, nil
}

func (s *MongoStore) CompareAndSet(ctx context.Context, key string, expected, value []byte) (bool, error) {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	if expected == nil {
		_, err := s.collection.InsertOne(ctx, mongoEntity{Key: key, Value: value, UpdatedAt: now})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return false, nil
			}
			return false, fmt.Errorf("failed to insert %s: %w", key, err)
		}
		return true, nil
	}

	filter := bson.M{"_id": key, "value": expected}
	update := bson.M{"$set": bson.M{"value": value, "updated_at": now}}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to compare-and-set %s: %w", key, err)
	}
	return result.MatchedCount == 1, nil
}

func (s *MongoStore) WithTransaction(ctx context.Context, fn TxFunc) error {
	return s.txManager.ExecuteTransaction(ctx, mongotx.TransactionFunc(fn))
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
