package rowsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collabhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateRow sets fields on every row matching match.
func (r *MongoRowStore) UpdateRow(ctx context.Context, table string, match models.Row, fields models.Row) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": withTimestamps(fields, time.Now(), "updated_at")}
	result, err := r.coll(table).UpdateMany(ctx, filterFor(match), update)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", table, ErrNoRows)
	}
	return nil
}

// InsertRow inserts row as a new document.
func (r *MongoRowStore) InsertRow(ctx context.Context, table string, row models.Row) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	doc := withTimestamps(row, time.Now(), "created_at", "updated_at")
	if _, err := r.coll(table).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// UpsertRow replaces the fields of the row sharing conflictKeys with row, or inserts it.
func (r *MongoRowStore) UpsertRow(ctx context.Context, table string, row models.Row, conflictKeys []string) error {
	filter, err := conflictFilter(row, conflictKeys)
	if err != nil {
		return err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set":         withTimestamps(row, now, "updated_at"),
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll(table).UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", table, err)
	}
	return nil
}

// FindRow returns the first row matching match without its internal id, or nil.
func (r *MongoRowStore) FindRow(ctx context.Context, table string, match models.Row) (models.Row, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var doc bson.M
	opts := options.FindOne().SetProjection(bson.M{"_id": 0})
	err := r.coll(table).FindOne(ctx, filterFor(match), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return models.Row(doc), nil
}

// CountRows counts the rows matching match.
func (r *MongoRowStore) CountRows(ctx context.Context, table string, match models.Row) (int64, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll(table).CountDocuments(ctx, filterFor(match))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// EnsureRow inserts match plus defaults when no row matches; an existing row is left as is.
func (r *MongoRowStore) EnsureRow(ctx context.Context, table string, match models.Row, defaults models.Row) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$setOnInsert": withTimestamps(defaults, time.Now(), "created_at", "updated_at")}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll(table).UpdateOne(ctx, filterFor(match), update, opts); err != nil {
		return fmt.Errorf("failed to ensure %s row: %w", table, err)
	}
	return nil
}
