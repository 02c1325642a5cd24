package board_repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
)

type TaskRepo struct {
	coll *mongo.Collection
}

func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{coll: db.Collection("tasks")}
}

func (r *TaskRepo) Create(ctx context.Context, t *board_model.Task) error {
	t.ID = uuid.New().String()
	t.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, taskID string) (*board_model.Task, error) {
	var t board_model.Task
	err := r.coll.FindOne(ctx, bson.M{"_id": taskID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("task not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) ListByColumn(ctx context.Context, columnID string) ([]*board_model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"column_id": columnID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []*board_model.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepo) UpdateInfo(ctx context.Context, taskID, title, description string, priority board_model.Priority) error {
	return r.update(ctx, taskID, bson.M{"title": title, "description": description, "priority": priority})
}

func (r *TaskRepo) SetCompleted(ctx context.Context, taskID string, completed bool) error {
	return r.update(ctx, taskID, bson.M{"completed": completed})
}

// SetAssignee with an empty id clears the assignment.
func (r *TaskRepo) SetAssignee(ctx context.Context, taskID, assigneeID string) error {
	var update bson.M
	if assigneeID == "" {
		update = bson.M{
			"$unset": bson.M{"assignee_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	} else {
		update = bson.M{"$set": bson.M{"assignee_id": assigneeID, "updated_at": time.Now().UTC()}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return fmt.Errorf("failed to set assignee: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("task not found")
	}
	return nil
}

func (r *TaskRepo) update(ctx context.Context, taskID string, patch bson.M) error {
	patch["updated_at"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("task not found")
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, taskID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *TaskRepo) MaxPosition(ctx context.Context, columnID string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	var t board_model.Task
	err := r.coll.FindOne(ctx, bson.M{"column_id": columnID}, opts).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return t.Position, nil
}

// ShiftRight makes room at position within a column by pushing every task at
// or after it one slot down. excludeID keeps the task being moved in place so
// re-applying the same move leaves the ordering unchanged.
func (r *TaskRepo) ShiftRight(ctx context.Context, columnID string, position int, excludeID string) error {
	filter := bson.M{
		"column_id": columnID,
		"position":  bson.M{"$gte": position},
		"_id":       bson.M{"$ne": excludeID},
	}
	_, err := r.coll.UpdateMany(ctx, filter, bson.M{"$inc": bson.M{"position": 1}})
	if err != nil {
		return fmt.Errorf("failed to shift task positions: %w", err)
	}
	return nil
}

// Move reassigns the task's column and position in one document update.
func (r *TaskRepo) Move(ctx context.Context, taskID, columnID string, position int) error {
	return r.update(ctx, taskID, bson.M{"column_id": columnID, "position": position})
}
