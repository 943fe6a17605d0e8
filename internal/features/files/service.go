package files

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"go-vtt-files/internal/apperrors"
	"go-vtt-files/internal/features/campaign"
	"go-vtt-files/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UploadService performs the all-or-nothing creation of a file record plus its
// backing blob, and the byte-for-byte content retrieval.
type UploadService interface {
	Create(ctx context.Context, kind FileKind, camp *campaign.Campaign, ownerRef primitive.ObjectID, name, content string) (*FileRecord, error)
	Content(ctx context.Context, camp *campaign.Campaign, characterID string) (*FileRecord, []byte, error)
}

type UploadServiceImpl struct {
	FileRepo FileRepository
	Backend  storage.Backend
	Logger   *zap.Logger
}

func NewUploadService(fileRepo FileRepository, backend storage.Backend, logger *zap.Logger) UploadService {
	return &UploadServiceImpl{
		FileRepo: fileRepo,
		Backend:  backend,
		Logger:   logger,
	}
}

// Create runs the upload transaction:
//  1. validate the data URI and the MIME type against the campaign allow-list;
//  2. persist the metadata record;
//  3. write the decoded payload under "{campaignID}/{directory}/{recordID}";
//  4. documents only: read the stored size back and update the record.
//
// When step 3 or 4 fails, the metadata written in step 2 is deleted again and
// the caller gets a storage failure. The blob is not cleaned up: either the
// write never completed, or a retry overwrites the same key.
func (s *UploadServiceImpl) Create(ctx context.Context, kind FileKind, camp *campaign.Campaign, ownerRef primitive.ObjectID, name, content string) (*FileRecord, error) {
	if name == "" {
		return nil, &apperrors.Validation{Field: "name", Reason: "required"}
	}

	mimeType, payload, err := parseDataURI(content)
	if err != nil {
		return nil, &apperrors.Validation{Field: "mime_type", Reason: "pattern"}
	}
	if !camp.Allows(mimeType) {
		return nil, &apperrors.Validation{Field: "mime_type", Reason: "pattern"}
	}

	record := &FileRecord{
		Kind:       kind,
		CampaignID: camp.ID,
		OwnerID:    ownerRef,
		Name:       name,
		MimeType:   mimeType,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.FileRepo.Save(ctx, record); err != nil {
		// Nothing to compensate: the blob write has not happened yet.
		return nil, err
	}

	if kind == KindDocument {
		// The owning invitation always holds a permission on its document.
		permission := &Permission{
			DocumentID:   record.ID,
			InvitationID: ownerRef,
			Level:        "creator",
		}
		if err := s.FileRepo.SavePermission(ctx, permission); err != nil {
			return nil, s.rollback(ctx, record, err)
		}
	}

	if err := s.Backend.Put(ctx, record.StorageKey(), payload, mimeType); err != nil {
		return nil, s.rollback(ctx, record, err)
	}

	if kind == KindDocument {
		size := s.Backend.Size(ctx, record.StorageKey())
		if err := s.FileRepo.UpdateSize(ctx, record, size); err != nil {
			return nil, s.rollback(ctx, record, err)
		}
	}

	return record, nil
}

// rollback deletes the metadata persisted before the failing step. A failed
// delete leaves the stores inconsistent and can only be repaired out of band,
// so it is logged at error level.
func (s *UploadServiceImpl) rollback(ctx context.Context, record *FileRecord, cause error) error {
	if err := s.FileRepo.Delete(ctx, record); err != nil {
		s.Logger.Error("compensating delete failed, metadata record orphaned",
			zap.String("campaign_id", record.CampaignID.Hex()),
			zap.String("record_id", record.ID.Hex()),
			zap.Error(err))
	}
	return &apperrors.Storage{Err: cause}
}

// Content returns the stored character sheet verbatim. Authorization has
// already been evaluated by the guard.
func (s *UploadServiceImpl) Content(ctx context.Context, camp *campaign.Campaign, characterID string) (*FileRecord, []byte, error) {
	oid, err := primitive.ObjectIDFromHex(characterID)
	if err != nil {
		return nil, nil, &apperrors.NotFound{Field: "character_id"}
	}

	record, err := s.FileRepo.Get(ctx, KindCharacter, camp.ID, oid)
	if err != nil {
		return nil, nil, &apperrors.NotFound{Field: "character_id"}
	}

	data, err := s.Backend.Get(ctx, record.StorageKey())
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, nil, &apperrors.NotFound{Field: "character_id"}
		}
		return nil, nil, &apperrors.Storage{Err: err}
	}
	return record, data, nil
}

// parseDataURI splits an uploaded "<mime>;base64,<data>" payload. The MIME
// type is the head before the first ';', stripped of any "data:" scheme; the
// payload is everything after the first ','.
func parseDataURI(content string) (mimeType string, payload []byte, err error) {
	head, _, found := strings.Cut(content, ";")
	if !found {
		return "", nil, &apperrors.Validation{Field: "mime_type", Reason: "pattern"}
	}
	if _, after, ok := strings.Cut(head, ":"); ok {
		mimeType = after
	} else {
		mimeType = head
	}

	_, data, found := strings.Cut(content, ",")
	if !found {
		return "", nil, &apperrors.Validation{Field: "mime_type", Reason: "pattern"}
	}

	payload, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, err
	}
	return mimeType, payload, nil
}
