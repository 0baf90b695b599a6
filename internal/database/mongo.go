package database

import (
	"context"
	"errors"
	"fmt"
	"time"
	"xtvredirect/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	collectionRedirects = "redirect_links"
	defaultDatabase     = "xtv_redirect"
)

type MongoDB struct {
	client   *mongo.Client
	database string
}

// NewMongoClient connects to uri; the database is taken from the URI path, xtv_redirect when absent.
func NewMongoClient(ctx context.Context, uri string) (*MongoDB, error) {
	database := defaultDatabase
	if cs, err := connstring.ParseAndValidate(uri); err != nil {
		return nil, fmt.Errorf("mongodb uri: %w", err)
	} else if cs.Database != "" {
		database = cs.Database
	}

	clientOptions := options.Client().ApplyURI(uri)
	connection, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err = connection.Ping(ctx, nil); err != nil {
		_ = connection.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}
	return &MongoDB{client: connection, database: database}, nil
}

func (m *MongoDB) Database() string {
	return m.database
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) redirects() *mongo.Collection {
	return m.client.Database(m.database).Collection(collectionRedirects)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find: %w", err)
}

// EnsureIndexes creates the unique code index and the listing index.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := m.redirects().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{"code", 1}},
			Options: options.Index().SetUnique(true).SetName("code_unique"),
		},
		{
			Keys:    bson.D{{"created_at", -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("mongodb indexes: %w", err)
	}
	return nil
}

func (m *MongoDB) CreateRedirect(ctx context.Context, rec *entity.RedirectRecord) error {
	rec.CreatedAt = time.Now().UTC()
	rec.UsedCount = 0
	rec.LastUsedAt = nil
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid redirect: %w", err)
	}
	_, err := m.redirects().InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return entity.ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}
	return nil
}

// GetRedirect returns nil, nil when no record has this code.
func (m *MongoDB) GetRedirect(ctx context.Context, code string) (*entity.RedirectRecord, error) {
	var rec entity.RedirectRecord
	err := m.redirects().FindOne(ctx, bson.D{{"code", code}}).Decode(&rec)
	if err != nil {
		return nil, m.findError(err)
	}
	return &rec, nil
}

// IncrementUsage bumps used_count and stamps last_used in a single update.
func (m *MongoDB) IncrementUsage(ctx context.Context, code string, at time.Time) error {
	update := bson.D{
		{"$inc", bson.D{{"used_count", 1}}},
		{"$set", bson.D{{"last_used", at.UTC()}}},
	}
	res, err := m.redirects().UpdateOne(ctx, bson.D{{"code", code}}, update)
	if err != nil {
		return fmt.Errorf("mongodb update: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (m *MongoDB) UpdateInviteLink(ctx context.Context, code, link string) error {
	update := bson.D{{"$set", bson.D{{"invite_link", link}}}}
	res, err := m.redirects().UpdateOne(ctx, bson.D{{"code", code}}, update)
	if err != nil {
		return fmt.Errorf("mongodb update: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// ListRedirects returns one page of records, newest first.
func (m *MongoDB) ListRedirects(ctx context.Context, skip, limit int64) ([]*entity.RedirectRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{"created_at", -1}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := m.redirects().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*entity.RedirectRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("mongodb decode: %w", err)
	}
	return records, nil
}

func (m *MongoDB) ListAll(ctx context.Context) ([]*entity.RedirectRecord, error) {
	return m.ListRedirects(ctx, 0, 0)
}

func (m *MongoDB) CountRedirects(ctx context.Context) (int64, error) {
	n, err := m.redirects().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("mongodb count: %w", err)
	}
	return n, nil
}

func (m *MongoDB) SumUsage(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{"$group", bson.D{{"_id", nil}, {"total", bson.D{{"$sum", "$used_count"}}}}}},
	}
	cursor, err := m.redirects().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("mongodb aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("mongodb decode: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// Stats combines CountRedirects and SumUsage.
func (m *MongoDB) Stats(ctx context.Context) (*entity.Stats, error) {
	return stats(ctx, m)
}
