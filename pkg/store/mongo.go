package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	errs "github.com/matzehuels/diagramkit/pkg/errors"
)

// MongoConfig selects a MongoDB collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps records in a MongoDB collection. The diagram is stored
// as JSON text so that its tagged payload survives unchanged.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// mongoRecord is the document layout.
type mongoRecord struct {
	ID         string    `bson:"_id"`
	Type       string    `bson:"type"`
	Title      string    `bson:"title,omitempty"`
	Diagram    string    `bson:"diagram"`
	Valid      bool      `bson:"valid"`
	Errors     int       `bson:"errors"`
	Warnings   int       `bson:"warnings"`
	Confidence float64   `bson:"confidence"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// NewMongoStore connects, pings the server and ensures the list index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "mongo: uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec, s.now().UTC().Truncate(time.Millisecond)); err != nil {
		return err
	}
	doc, err := toMongo(rec)
	if err != nil {
		return err
	}
	// keep the original creation time on replace
	var existing mongoRecord
	err = s.coll.FindOne(ctx, bson.M{"_id": rec.ID}).Decode(&existing)
	switch {
	case err == nil:
		doc.CreatedAt = existing.CreatedAt
		rec.CreatedAt = existing.CreatedAt
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("mongo find: %w", err)
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo save: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errs.ValidateID(id); err != nil {
		return nil, err
	}
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get: %w", err)
	}
	return fromMongo(doc)
}

func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	filter := bson.M{}
	if opts.Type != "" {
		filter["type"] = string(opts.Type)
	}
	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(opts.limit()))

	cur, err := s.coll.Find(ctx, filter, find)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}

	out := make([]*Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := fromMongo(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toMongo(rec *Record) (mongoRecord, error) {
	data, err := json.Marshal(rec.Diagram)
	if err != nil {
		return mongoRecord{}, errs.Wrap(errs.ErrCodeInternal, err, "encode diagram %s", rec.ID)
	}
	return mongoRecord{
		ID:         rec.ID,
		Type:       string(rec.Type()),
		Title:      rec.Title,
		Diagram:    string(data),
		Valid:      rec.Validation.Valid,
		Errors:     rec.Validation.Errors,
		Warnings:   rec.Validation.Warnings,
		Confidence: rec.Validation.Confidence,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}

func fromMongo(doc mongoRecord) (*Record, error) {
	d, err := diagram.Unmarshal([]byte(doc.Diagram))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "decode stored diagram %s", doc.ID)
	}
	return &Record{
		ID:      doc.ID,
		Title:   doc.Title,
		Diagram: d,
		Validation: Summary{
			Valid:      doc.Valid,
			Errors:     doc.Errors,
			Warnings:   doc.Warnings,
			Confidence: doc.Confidence,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

var _ Store = (*MongoStore)(nil)
