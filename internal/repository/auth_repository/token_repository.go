package auth_repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Goldexcool/TaskTrekBackend/internal/model/auth_model"
)

type RefreshRepo struct {
	coll *mongo.Collection
}

func NewRefreshRepo(db *mongo.Database) *RefreshRepo {
	return &RefreshRepo{coll: db.Collection("refresh_tokens")}
}

func (r *RefreshRepo) Store(ctx context.Context, userID, token string, exp time.Time) error {
	doc := auth_model.RefreshToken{Token: token, UserID: userID, ExpiresAt: exp}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *RefreshRepo) Check(ctx context.Context, userID, token string) (bool, error) {
	filter := bson.M{
		"_id":        token,
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	err := r.coll.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *RefreshRepo) Delete(ctx context.Context, userID, token string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": token, "user_id": userID})
	return err
}
