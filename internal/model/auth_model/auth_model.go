package auth_model

import "time"

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type RefreshToken struct {
	Token     string    `bson:"_id" json:"-"`
	UserID    string    `bson:"user_id" json:"-"`
	ExpiresAt time.Time `bson:"expires_at" json:"-"`
}
