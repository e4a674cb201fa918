package rowsRepo

import (
	"context"
	"fmt"
	"time"

	"collabhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the lookup and conflict indexes of every onboarding table.
func (r *MongoRowStore) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	tables := map[string][]mongo.IndexModel{
		models.TableUsers: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		models.TableSocialProfiles: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "platform", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		models.TableBrands: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}
	for table, indexModels := range tables {
		if _, err := r.coll(table).Indexes().CreateMany(ctx, indexModels); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", table, err)
		}
	}
	return nil
}
