package session

import (
	"context"
	"errors"

	"go-vtt-files/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepository interface {
	FindByToken(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}

type SessionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSessionRepository(mongodb *database.MongodbDB) SessionRepository {
	return &SessionRepositoryImpl{
		Collection: mongodb.DB.Collection("sessions"),
	}
}

// ErrNoSession is returned when a token resolves to nothing.
var ErrNoSession = errors.New("session not found")

func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, token string) (*Session, error) {
	var session Session
	err := r.Collection.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, session *Session) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, session)
	return err
}
