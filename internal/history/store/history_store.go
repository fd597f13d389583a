package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openregistro/person-data-service/internal/history/model"
	"github.com/openregistro/person-data-service/internal/system/config"
	errors2 "github.com/openregistro/person-data-service/internal/system/errors"
	"github.com/openregistro/person-data-service/internal/system/log"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// getCollection returns the history collection, connecting on first use.
func getCollection() (*mongo.Collection, error) {

	cfg := config.GetPDSRuntime().Config.HistoryStore

	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, clientErr = mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	})
	if clientErr != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.APPEND_HISTORY.Code,
			Message:     errors2.APPEND_HISTORY.Message,
			Description: "Failed to connect to the history store",
		}, clientErr)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "history_entries"
	}
	return client.Database(cfg.Database).Collection(collection), nil
}

// AppendHistoryEntry inserts a single history entry. The store is append-only;
// entries are never read back or mutated by this service.
func AppendHistoryEntry(entry model.HistoryEntry) error {

	collection, err := getCollection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := collection.InsertOne(ctx, entry); err != nil {
		errorMsg := "Failed to insert history entry"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.APPEND_HISTORY.Code,
			Message:     errors2.APPEND_HISTORY.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}
