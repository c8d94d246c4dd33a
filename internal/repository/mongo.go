package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/storage"
)

const urlCollection = "urls"

// ConnectMongo dials the cluster and verifies the primary is reachable.
func ConnectMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect failed")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping failed")
	}

	logger.Info("MongoDB connected.")
	return client, nil
}

type MongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoRepository binds to the urls collection of dbName and
// ensures the unique index on short_code.
func NewMongoRepository(ctx context.Context, client *mongo.Client, dbName string, logger *zap.Logger) (*MongoRepository, error) {
	coll := client.Database(dbName).Collection(urlCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "short_code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("short_code_unique"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create index failed")
	}

	return &MongoRepository{
		client: client,
		coll:   coll,
		logger: logger,
	}, nil
}

func (r *MongoRepository) Create(ctx context.Context, v storage.URLRecord) error {
	_, err := r.coll.InsertOne(ctx, v)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicateKey
	}
	return errors.Wrap(err, "insert record failed")
}

func (r *MongoRepository) FindByCode(ctx context.Context, code string) (*storage.URLRecord, error) {
	var rec storage.URLRecord
	err := r.coll.FindOne(ctx, bson.M{"short_code": code}).Decode(&rec)
	return decoded(&rec, err)
}

func (r *MongoRepository) UpdateActive(ctx context.Context, code string, active bool) (*storage.URLRecord, error) {
	update := bson.M{"$set": bson.M{
		"active":     active,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec storage.URLRecord
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"short_code": code}, update, opts).Decode(&rec)
	return decoded(&rec, err)
}

func (r *MongoRepository) Delete(ctx context.Context, code string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"short_code": code})
	if err != nil {
		return false, errors.Wrap(err, "delete record failed")
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) PingContext(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func decoded(rec *storage.URLRecord, err error) (*storage.URLRecord, error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode record failed")
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	if rec.UpdatedAt != nil {
		t := rec.UpdatedAt.UTC()
		rec.UpdatedAt = &t
	}
	return rec, nil
}
