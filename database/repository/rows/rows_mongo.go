package rowsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collabhub/models"
	"collabhub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNoRows is returned by UpdateRow when the match selects nothing.
var ErrNoRows = errors.New("no matching row")

// MongoRowStore maps each table onto a collection of the same name.
type MongoRowStore struct {
	db *mongo.Database
}

// NewMongoRowStore creates the row store and its indexes.
func NewMongoRowStore(db *mongo.Database) *MongoRowStore {
	repo := &MongoRowStore{db: db}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("Failed to create row store indexes", zap.Error(err))
	}
	return repo
}

// newContext bounds a single operation, keeping the caller's cancellation.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoRowStore) coll(table string) *mongo.Collection {
	return r.db.Collection(table)
}

// filterFor turns a match row into an equality filter.
func filterFor(match models.Row) bson.M {
	filter := bson.M{}
	for k, v := range match {
		filter[k] = v
	}
	return filter
}

// withTimestamps copies row and stamps the given time fields.
func withTimestamps(row models.Row, now time.Time, fields ...string) bson.M {
	doc := bson.M{}
	for k, v := range row {
		doc[k] = v
	}
	for _, f := range fields {
		doc[f] = now
	}
	return doc
}

// conflictFilter selects the row sharing row's values for keys.
func conflictFilter(row models.Row, keys []string) (bson.M, error) {
	if len(keys) == 0 {
		return nil, errors.New("upsert needs at least one conflict key")
	}
	filter := bson.M{}
	for _, k := range keys {
		v, ok := row[k]
		if !ok {
			return nil, fmt.Errorf("conflict key %q missing from row", k)
		}
		filter[k] = v
	}
	return filter, nil
}
