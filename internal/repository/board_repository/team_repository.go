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
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

type TeamRepo struct {
	coll *mongo.Collection
}

func NewTeamRepo(db *mongo.Database) *TeamRepo {
	return &TeamRepo{coll: db.Collection("teams")}
}

func (r *TeamRepo) Create(ctx context.Context, t *board_model.Team) error {
	t.ID = uuid.New().String()
	t.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("a team with this name already exists")
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *TeamRepo) GetByID(ctx context.Context, teamID string) (*board_model.Team, error) {
	var t board_model.Team
	err := r.coll.FindOne(ctx, bson.M{"_id": teamID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("team not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepo) ListByMember(ctx context.Context, userID string) ([]*board_model.Team, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner_id": userID},
		{"members.user_id": userID},
	}}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []*board_model.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepo) UpdateInfo(ctx context.Context, teamID, name, description string) error {
	patch := bson.M{"name": name, "description": description, "updated_at": time.Now().UTC()}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{"$set": patch})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("a team with this name already exists")
		}
		return fmt.Errorf("failed to update team: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("team not found")
	}
	return nil
}

// Delete reports whether a document was actually removed so cascade retries
// can treat an already-deleted team as success.
func (r *TeamRepo) Delete(ctx context.Context, teamID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": teamID})
	if err != nil {
		return false, fmt.Errorf("failed to delete team: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// AddMember appends the member only if no entry for the same user exists.
// The filtered update is the store's atomic set-update primitive, which keeps
// two concurrent admins from producing duplicate entries.
func (r *TeamRepo) AddMember(ctx context.Context, teamID string, m board_model.Member) error {
	filter := bson.M{
		"_id":             teamID,
		"members.user_id": bson.M{"$ne": m.UserID},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"members": m}})
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, teamID); err != nil {
			return err
		}
		return apperror.Conflict("user is already a member of this team")
	}
	return nil
}

// RemoveMember reports whether the user was a member.
func (r *TeamRepo) RemoveMember(ctx context.Context, teamID, userID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": teamID},
		bson.M{"$pull": bson.M{"members": bson.M{"user_id": userID}}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove team member: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, apperror.NotFound("team not found")
	}
	return res.ModifiedCount > 0, nil
}

// SetMemberRole reports whether the user was a member.
func (r *TeamRepo) SetMemberRole(ctx context.Context, teamID, userID string, role rbac.Role) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": teamID, "members.user_id": userID},
		bson.M{"$set": bson.M{"members.$.role": role}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to set member role: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// TransferOwner flips ownership in a single document update: the new owner's
// membership entry becomes owner, the previous owner's becomes admin.
func (r *TeamRepo) TransferOwner(ctx context.Context, teamID, oldOwnerID, newOwnerID string) error {
	update := bson.M{"$set": bson.M{
		"owner_id":             newOwnerID,
		"members.$[newm].role": rbac.RoleOwner,
		"members.$[oldm].role": rbac.RoleAdmin,
		"updated_at":           time.Now().UTC(),
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
		bson.M{"newm.user_id": newOwnerID},
		bson.M{"oldm.user_id": oldOwnerID},
	}})

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": teamID, "owner_id": oldOwnerID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to transfer ownership: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperror.Conflict("team ownership changed concurrently")
	}
	return nil
}
