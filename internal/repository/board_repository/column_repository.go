package board_repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
)

type ColumnRepo struct {
	coll *mongo.Collection
}

func NewColumnRepo(db *mongo.Database) *ColumnRepo {
	return &ColumnRepo{coll: db.Collection("columns")}
}

func (r *ColumnRepo) Create(ctx context.Context, c *board_model.Column) error {
	c.ID = uuid.New().String()
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to create column: %w", err)
	}
	return nil
}

func (r *ColumnRepo) GetByID(ctx context.Context, columnID string) (*board_model.Column, error) {
	var c board_model.Column
	err := r.coll.FindOne(ctx, bson.M{"_id": columnID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("column not found")
		}
		return nil, err
	}
	return &c, nil
}

func (r *ColumnRepo) ListByBoard(ctx context.Context, boardID string) ([]*board_model.Column, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"board_id": boardID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var columns []*board_model.Column
	if err := cur.All(ctx, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *ColumnRepo) Rename(ctx context.Context, columnID, title string) error {
	return r.update(ctx, columnID, bson.M{"title": title})
}

func (r *ColumnRepo) SetPosition(ctx context.Context, columnID string, position int) error {
	return r.update(ctx, columnID, bson.M{"position": position})
}

func (r *ColumnRepo) update(ctx context.Context, columnID string, patch bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": columnID}, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("failed to update column: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("column not found")
	}
	return nil
}

func (r *ColumnRepo) Delete(ctx context.Context, columnID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": columnID})
	if err != nil {
		return false, fmt.Errorf("failed to delete column: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *ColumnRepo) MaxPosition(ctx context.Context, boardID string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	var c board_model.Column
	err := r.coll.FindOne(ctx, bson.M{"board_id": boardID}, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return c.Position, nil
}
