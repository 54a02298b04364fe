package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

const collectionTaskEvents = "task_events"

// EventRepository persists the append-only status transition audit trail.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionTaskEvents)}
}

func (r *EventRepository) InsertEvent(ctx context.Context, ev *domain.TaskEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clone := *ev
	clone.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, &clone); err != nil {
		return storeErr("insert task event", err)
	}
	return nil
}

func (r *EventRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, storeErr("list task events", err)
	}
	defer cur.Close(ctx)

	var events []*domain.TaskEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, storeErr("decode task events", err)
	}
	return events, nil
}

// EnsureIndexes creates the task_id lookup index.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "task_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}
