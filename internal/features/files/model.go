package files

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileKind tags a record as a character sheet or a generic document.
type FileKind string

const (
	KindCharacter FileKind = "character"
	KindDocument  FileKind = "document"
)

// kindDirectories maps each kind to its directory segment in storage keys.
// The layout "{campaignID}/{directory}/{recordID}" is a compatibility contract
// and must not change.
var kindDirectories = map[FileKind]string{
	KindCharacter: "characters",
	KindDocument:  "documents",
}

// Directory returns the storage directory segment for the kind.
func (k FileKind) Directory() string {
	return kindDirectories[k]
}

// Collection returns the Mongo collection holding records of the kind.
func (k FileKind) Collection() string {
	return kindDirectories[k]
}

// FileRecord is the metadata of an uploaded campaign file. The blob itself
// lives in the object store under StorageKey.
type FileRecord struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Kind       FileKind           `json:"-" bson:"-"`
	CampaignID primitive.ObjectID `json:"campaign_id" bson:"campaign_id"`
	// OwnerID references the invitation that authored the file: the
	// character's invitation, or the creator invitation for documents.
	OwnerID   primitive.ObjectID `json:"owner_id" bson:"owner_id"`
	Name      string             `json:"name" bson:"name"`
	MimeType  string             `json:"mime_type" bson:"mime_type"`
	SizeBytes int64              `json:"size,omitempty" bson:"size,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// StorageKey derives the object-store key for the record. Keys are derived
// from the generated id, never the display name, so equal names cannot collide.
func (r *FileRecord) StorageKey() string {
	return fmt.Sprintf("%s/%s/%s", r.CampaignID.Hex(), r.Kind.Directory(), r.ID.Hex())
}

// Permission grants an invitation access to a document.
type Permission struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DocumentID   primitive.ObjectID `json:"document_id" bson:"document_id"`
	InvitationID primitive.ObjectID `json:"invitation_id" bson:"invitation_id"`
	Level        string             `json:"level" bson:"level"`
}

// Created is the response body for a successful upload.
type Created struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// NewCreated decorates a persisted record for the API response.
func NewCreated(record *FileRecord) Created {
	return Created{
		Message: "created",
		ID:      record.ID.Hex(),
		Name:    record.Name,
		Type:    record.MimeType,
	}
}
