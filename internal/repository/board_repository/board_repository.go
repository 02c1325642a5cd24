package board_repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
)

type BoardRepo struct {
	coll *mongo.Collection
}

func NewBoardRepo(db *mongo.Database) *BoardRepo {
	return &BoardRepo{coll: db.Collection("boards")}
}

func (r *BoardRepo) Create(ctx context.Context, b *board_model.Board) error {
	b.ID = uuid.New().String()
	b.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	return nil
}

func (r *BoardRepo) GetByID(ctx context.Context, boardID string) (*board_model.Board, error) {
	var b board_model.Board
	err := r.coll.FindOne(ctx, bson.M{"_id": boardID}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("board not found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *BoardRepo) ListByTeam(ctx context.Context, teamID string) ([]*board_model.Board, error) {
	cur, err := r.coll.Find(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var boards []*board_model.Board
	if err := cur.All(ctx, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *BoardRepo) UpdateInfo(ctx context.Context, boardID, title, description string) error {
	patch := bson.M{"title": title, "description": description, "updated_at": time.Now().UTC()}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": boardID}, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("board not found")
	}
	return nil
}

func (r *BoardRepo) Delete(ctx context.Context, boardID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": boardID})
	if err != nil {
		return false, fmt.Errorf("failed to delete board: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *BoardRepo) AddMember(ctx context.Context, boardID string, m board_model.Member) error {
	filter := bson.M{
		"_id":             boardID,
		"members.user_id": bson.M{"$ne": m.UserID},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"members": m}})
	if err != nil {
		return fmt.Errorf("failed to add board member: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, boardID); err != nil {
			return err
		}
		return apperror.Conflict("user is already a member of this board")
	}
	return nil
}

func (r *BoardRepo) RemoveMember(ctx context.Context, boardID, userID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": boardID},
		bson.M{"$pull": bson.M{"members": bson.M{"user_id": userID}}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove board member: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, apperror.NotFound("board not found")
	}
	return res.ModifiedCount > 0, nil
}
