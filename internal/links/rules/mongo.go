package rules

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "link_rules"

// ruleDocument is the stored shape of one configuration entry: the base
// domain key plus the same fields the TOML format uses.
type ruleDocument struct {
	Domain string `bson:"domain"`
	DomainConfig `bson:",inline"`
}

// MongoSource loads the rules configuration from a Mongo collection, for
// deployments that manage rules centrally instead of shipping a file.
type MongoSource struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoSource(db *mongo.Database, timeout time.Duration) *MongoSource {
	return &MongoSource{
		collection: db.Collection(CollectionName),
		timeout:    timeout,
	}
}

func (s *MongoSource) Load() (map[string]DomainConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query %s collection: %w", CollectionName, err)
	}
	defer cursor.Close(ctx)

	cfg := make(map[string]DomainConfig)
	for cursor.Next(ctx) {
		var doc ruleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode rule document: %w", err)
		}
		if doc.Domain == "" {
			return nil, fmt.Errorf("rule document without a domain key")
		}
		if _, exists := cfg[doc.Domain]; exists {
			return nil, fmt.Errorf("duplicate rule documents for domain %q", doc.Domain)
		}
		cfg[doc.Domain] = doc.DomainConfig
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s collection: %w", CollectionName, err)
	}

	return cfg, nil
}
