package session

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session links an opaque token to the account holding it.
type Session struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Token     string             `json:"token" bson:"token"`
	AccountID primitive.ObjectID `json:"account_id" bson:"account_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
