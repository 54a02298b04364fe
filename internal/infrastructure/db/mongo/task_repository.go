package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clone := *t
	clone.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, &clone); err != nil {
		return nil, storeErr("create task", err)
	}
	return &clone, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storeErr("find task", err)
	}
	return &t, nil
}

// Update replaces the task guarded by its version: the write only matches
// while the stored version equals t.Version. A miss on an existing task means
// a concurrent writer won the race.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	next := *t
	next.Version = t.Version + 1

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.ID, "version": t.Version}, &next)
	if err != nil {
		return storeErr("update task", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a vanished task from a lost version race.
		if err := r.col.FindOne(ctx, bson.M{"_id": t.ID}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrTaskNotFound
		}
		return domain.ErrVersionConflict
	}

	t.Version = next.Version
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr("delete task", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, storeErr("delete tasks by project", err)
	}
	return res.DeletedCount, nil
}

func (r *TaskRepository) FindAssigned(ctx context.Context, userID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"assignee_id": userID,
		"status":      bson.M{"$ne": domain.StatusBacklog},
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, storeErr("find assigned tasks", err)
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, storeErr("decode tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) List(ctx context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ProjectID != "" {
		filter["project_id"] = f.ProjectID
	}
	if f.AssigneeID != "" {
		filter["assignee_id"] = f.AssigneeID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storeErr("count tasks", err)
	}

	opts := pageOptions(f.Page, f.Limit).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, storeErr("list tasks", err)
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, storeErr("decode tasks", err)
	}
	return tasks, total, nil
}

// EnsureIndexes creates the lookup indexes the workflow queries rely on.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
		{Keys: bson.D{{Key: "assignee_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
