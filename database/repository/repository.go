package repository

import (
	rowsRepo "collabhub/database/repository/rows"
)

// Re-export the row store and its constructor.
type MongoRowStore = rowsRepo.MongoRowStore

var NewMongoRowStore = rowsRepo.NewMongoRowStore
