// Package mongodb implements the menu item store on a MongoDB collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/restaurant/services/menu/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store keeps menu items as documents keyed by their integer id field.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect dials the deployment at uri. timeout bounds every operation the
// driver performs.
func Connect(ctx context.Context, uri, database, collection string, timeout time.Duration) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Acquire starts a client session; operations on the returned Conn run
// inside it until Release ends it.
func (s *Store) Acquire(ctx context.Context) (store.Conn, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &conn{
		sess:       sess,
		collection: s.collection,
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type conn struct {
	sess       mongo.Session
	collection *mongo.Collection
	released   bool
}

func (c *conn) scoped(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, c.sess)
}

func (c *conn) Find(ctx context.Context, id int) ([]store.Record, error) {
	return c.find(ctx, bson.M{"id": id})
}

func (c *conn) FindAll(ctx context.Context) ([]store.Record, error) {
	return c.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

func (c *conn) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]store.Record, error) {
	ctx = c.scoped(ctx)

	cursor, err := c.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return records(docs), nil
}

func (c *conn) Count(ctx context.Context) (int64, error) {
	return c.collection.CountDocuments(c.scoped(ctx), bson.M{})
}

func (c *conn) Insert(ctx context.Context, rec store.Record) error {
	_, err := c.collection.InsertOne(c.scoped(ctx), documentOf(rec))
	return err
}

func (c *conn) Update(ctx context.Context, rec store.Record) (int64, error) {
	result, err := c.collection.UpdateOne(c.scoped(ctx),
		bson.M{"id": rec.ID},
		bson.M{"$set": bson.M{
			"category":    rec.Category,
			"description": rec.Description,
			"price":       rec.Price,
			"vegetarian":  rec.Vegetarian,
		}},
	)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

func (c *conn) Delete(ctx context.Context, id int) (int64, error) {
	result, err := c.collection.DeleteOne(c.scoped(ctx), bson.M{"id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (c *conn) Drop(ctx context.Context) error {
	return c.collection.Drop(c.scoped(ctx))
}

func (c *conn) InsertMany(ctx context.Context, recs []store.Record) error {
	if len(recs) == 0 {
		return nil
	}
	docs := make([]interface{}, len(recs))
	for i, rec := range recs {
		docs[i] = documentOf(rec)
	}
	_, err := c.collection.InsertMany(c.scoped(ctx), docs)
	return err
}

var errReleased = errors.New("session already released")

// Release ends the session. EndSession has no error result, so only a
// second Release fails.
func (c *conn) Release() error {
	if c.released {
		return errReleased
	}
	c.released = true
	c.sess.EndSession(context.Background())
	return nil
}
