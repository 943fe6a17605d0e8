package campaign

import (
	"context"
	"errors"

	"go-vtt-files/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CampaignRepository interface {
	Get(ctx context.Context, id string) (*Campaign, error)
	FindInvitation(ctx context.Context, campaignID, invitationID primitive.ObjectID) (*Invitation, error)
	FindInvitationByAccount(ctx context.Context, campaignID, accountID primitive.ObjectID) (*Invitation, error)
	Save(ctx context.Context, campaign *Campaign) error
	SaveInvitation(ctx context.Context, invitation *Invitation) error
}

type CampaignRepositoryImpl struct {
	Campaigns   *mongo.Collection
	Invitations *mongo.Collection
}

func NewCampaignRepository(mongodb *database.MongodbDB) CampaignRepository {
	return &CampaignRepositoryImpl{
		Campaigns:   mongodb.DB.Collection("campaigns"),
		Invitations: mongodb.DB.Collection("invitations"),
	}
}

var (
	ErrNoCampaign   = errors.New("campaign not found")
	ErrNoInvitation = errors.New("invitation not found")
)

func (r *CampaignRepositoryImpl) Get(ctx context.Context, id string) (*Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a campaign; callers see "unknown".
		return nil, ErrNoCampaign
	}
	var campaign Campaign
	err = r.Campaigns.FindOne(ctx, bson.M{"_id": oid}).Decode(&campaign)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoCampaign
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepositoryImpl) FindInvitation(ctx context.Context, campaignID, invitationID primitive.ObjectID) (*Invitation, error) {
	var invitation Invitation
	err := r.Invitations.FindOne(ctx, bson.M{
		"_id":         invitationID,
		"campaign_id": campaignID,
	}).Decode(&invitation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoInvitation
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *CampaignRepositoryImpl) FindInvitationByAccount(ctx context.Context, campaignID, accountID primitive.ObjectID) (*Invitation, error) {
	var invitation Invitation
	err := r.Invitations.FindOne(ctx, bson.M{
		"campaign_id": campaignID,
		"account_id":  accountID,
	}).Decode(&invitation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoInvitation
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *CampaignRepositoryImpl) Save(ctx context.Context, campaign *Campaign) error {
	if campaign.ID.IsZero() {
		campaign.ID = primitive.NewObjectID()
	}
	_, err := r.Campaigns.InsertOne(ctx, campaign)
	return err
}

func (r *CampaignRepositoryImpl) SaveInvitation(ctx context.Context, invitation *Invitation) error {
	if invitation.ID.IsZero() {
		invitation.ID = primitive.NewObjectID()
	}
	_, err := r.Invitations.InsertOne(ctx, invitation)
	return err
}
