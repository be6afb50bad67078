package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "archgraph"
	DefaultMongoCollection = "graphs"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// graphDocument is the stored form of a graph. Summary fields are kept at
// the top level so listing never decodes snapshots; the snapshot itself is
// the JSON wire format, so every backend stores identical bytes.
type graphDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Components  int       `bson:"components"`
	Connections int       `bson:"connections"`
	UpdatedAt   time.Time `bson:"updated_at"`
	Snapshot    string    `bson:"snapshot,omitempty"`
}

// MongoStore keeps one document per graph, upserted by ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storageErr(err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, storageErr(err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*arch.Graph, error) {
	if err := apperrors.ValidateID(id); err != nil {
		return nil, err
	}
	var doc graphDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "mongo get %s", id)
	}
	return graph.UnmarshalGraph([]byte(doc.Snapshot))
}

func (s *MongoStore) Put(ctx context.Context, g *arch.Graph) error {
	if err := checkGraph(g); err != nil {
		return err
	}
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return err
	}
	sum := Summarize(g)
	doc := graphDocument{
		ID:          g.ID,
		Name:        sum.Name,
		Components:  sum.Components,
		Connections: sum.Connections,
		UpdatedAt:   sum.UpdatedAt,
		Snapshot:    string(data),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": g.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return storageErr(err, "mongo put %s", g.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return storageErr(err, "mongo delete %s", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"snapshot": 0}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageErr(err, "mongo list")
	}
	var docs []graphDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr(err, "mongo list")
	}

	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, Summary{
			ID:          d.ID,
			Name:        d.Name,
			Components:  d.Components,
			Connections: d.Connections,
			UpdatedAt:   d.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping checks that the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

var _ Store = (*MongoStore)(nil)
