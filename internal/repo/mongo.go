package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

// IsDuplicate reports whether err was caused by a unique index violation.
var IsDuplicate = mongo.IsDuplicateKeyError

func New[T any](
	ctx context.Context,
	log logger.Logger,
	cfg Config,
	indexes ...mongo.IndexModel,
) (Repo[T], error) {
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetTimeout(cfg.Timeout)

	if cfg.Auth.Username != "" {
		opts = opts.SetAuth(options.Credential{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		})
	}
	if cfg.Pool.MinSize > 0 {
		opts = opts.SetMinPoolSize(cfg.Pool.MinSize)
	}
	if cfg.Pool.MaxSize > 0 {
		opts = opts.SetMaxPoolSize(cfg.Pool.MaxSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.WrapFail(err, "connect to mongo db")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)

	if len(indexes) > 0 {
		_, err = coll.Indexes().CreateMany(ctx, indexes)
		if err != nil {
			return nil, errors.WrapFail(err, "create indexes")
		}
	}

	return &mongoRepo[T]{
		coll: coll,
		log:  log.With("mongo_repo"),
	}, nil
}

type mongoRepo[T any] struct {
	coll *mongo.Collection
	log  logger.Logger
}

func (m *mongoRepo[T]) Insert(ctx context.Context, data T) (string, error) {
	result, err := m.coll.InsertOne(ctx, data)
	if err != nil {
		return "", errors.WrapFail(err, "insert data")
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Fail("interpret inserted id")
	}

	return oid.Hex(), nil
}

func (m *mongoRepo[T]) Select(ctx context.Context, filters ...Filter) ([]T, error) {
	f := m.combine(filters)

	match := f.match
	if match == nil {
		match = bson.M{}
	}

	cur, err := m.coll.Find(ctx, match)
	if err != nil {
		return nil, errors.WrapFail(err, "find documents")
	}

	defer func() {
		err := cur.Close(ctx)
		if err != nil {
			m.log.Warn(errors.WrapFail(err, "close cursor"))
		}
	}()

	var (
		selected []T
		errs     []error
	)

	for cur.Next(ctx) {
		var item T

		err := cur.Decode(&item)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if f.fn != nil && !f.fn(item) {
			continue
		}

		selected = append(selected, item)
	}

	if cur.Err() != nil {
		return nil, errors.WrapFail(cur.Err(), "iterate over documents")
	}

	if len(errs) != 0 {
		m.log.Error(errors.WrapFail(errors.Collapse(errs), "decode some documents"))
	}

	return selected, nil
}

func (m *mongoRepo[T]) Update(ctx context.Context, update func(*T), filters ...Filter) error {
	f := m.combine(filters)

	match := f.match
	if match == nil {
		match = bson.M{}
	}

	result := m.coll.FindOne(ctx, match)
	if result.Err() != nil {
		return errors.WrapFail(result.Err(), "find document to update")
	}

	var item T
	err := result.Decode(&item)
	if err != nil {
		return errors.WrapFail(err, "decode document")
	}

	update(&item)

	_, err = m.coll.ReplaceOne(ctx, match, item)
	return errors.WrapFail(err, "replace document")
}

func (m *mongoRepo[T]) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, errors.WrapFail(err, "parse object id")
	}

	result, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, errors.WrapFail(err, "delete document by oid")
	}

	return result.DeletedCount == 1, nil
}

func (m *mongoRepo[T]) Close(ctx context.Context) error {
	err := m.coll.Database().Client().Disconnect(ctx)
	return errors.WrapFail(err, "close mongo db connection")
}

func (m *mongoRepo[T]) combine(filters []Filter) filter {
	var f filter
	for _, apply := range filters {
		apply(&f)
	}
	return f
}
