package files

import (
	"context"
	"errors"

	"go-vtt-files/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FileRepository interface {
	Save(ctx context.Context, record *FileRecord) error
	Get(ctx context.Context, kind FileKind, campaignID, id primitive.ObjectID) (*FileRecord, error)
	UpdateSize(ctx context.Context, record *FileRecord, size int64) error
	Delete(ctx context.Context, record *FileRecord) error
	SavePermission(ctx context.Context, permission *Permission) error
	EnsureIndexes(ctx context.Context) error
}

type FileRepositoryImpl struct {
	DB *mongo.Database
}

func NewFileRepository(mongodb *database.MongodbDB) FileRepository {
	return &FileRepositoryImpl{DB: mongodb.DB}
}

// ErrNoRecord is returned when a file id does not resolve.
var ErrNoRecord = errors.New("file record not found")

func (r *FileRepositoryImpl) collection(kind FileKind) *mongo.Collection {
	return r.DB.Collection(kind.Collection())
}

func (r *FileRepositoryImpl) Save(ctx context.Context, record *FileRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	_, err := r.collection(record.Kind).InsertOne(ctx, record)
	return err
}

func (r *FileRepositoryImpl) Get(ctx context.Context, kind FileKind, campaignID, id primitive.ObjectID) (*FileRecord, error) {
	var record FileRecord
	err := r.collection(kind).FindOne(ctx, bson.M{
		"_id":         id,
		"campaign_id": campaignID,
	}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	record.Kind = kind
	return &record, nil
}

func (r *FileRepositoryImpl) UpdateSize(ctx context.Context, record *FileRecord, size int64) error {
	_, err := r.collection(record.Kind).UpdateOne(ctx,
		bson.M{"_id": record.ID},
		bson.M{"$set": bson.M{"size": size}})
	if err != nil {
		return err
	}
	record.SizeBytes = size
	return nil
}

// Delete removes the metadata record; for documents the dependent permission
// records go first so none are orphaned.
func (r *FileRepositoryImpl) Delete(ctx context.Context, record *FileRecord) error {
	if record.Kind == KindDocument {
		if _, err := r.DB.Collection("permissions").
			DeleteMany(ctx, bson.M{"document_id": record.ID}); err != nil {
			return err
		}
	}
	_, err := r.collection(record.Kind).DeleteOne(ctx, bson.M{"_id": record.ID})
	return err
}

func (r *FileRepositoryImpl) SavePermission(ctx context.Context, permission *Permission) error {
	if permission.ID.IsZero() {
		permission.ID = primitive.NewObjectID()
	}
	_, err := r.DB.Collection("permissions").InsertOne(ctx, permission)
	return err
}

func (r *FileRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	campaignIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "campaign_id", Value: 1}},
		Options: options.Index(),
	}
	for _, kind := range []FileKind{KindCharacter, KindDocument} {
		if _, err := r.collection(kind).Indexes().CreateOne(ctx, campaignIndex); err != nil {
			return err
		}
	}
	permissionIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "document_id", Value: 1}},
	}
	_, err := r.DB.Collection("permissions").Indexes().CreateOne(ctx, permissionIndex)
	return err
}
