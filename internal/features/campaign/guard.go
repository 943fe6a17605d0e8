package campaign

import (
	"context"

	"go-vtt-files/internal/apperrors"
	"go-vtt-files/internal/features/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guard evaluates the authorization predicates upload and retrieval routes
// need before touching any store. Errors carry the exact field/reason pairs
// the API reports.
type Guard interface {
	ResolveCampaign(ctx context.Context, id string) (*Campaign, error)
	CheckCreatorPrivilege(sess *session.Session, campaign *Campaign) error
	ResolveInvitation(ctx context.Context, campaign *Campaign, invitationID string) (*Invitation, error)
	InvitationForAccount(ctx context.Context, campaign *Campaign, accountID primitive.ObjectID) (*Invitation, error)
	CheckActiveInvitation(ctx context.Context, sess *session.Session, campaign *Campaign) error
}

type GuardImpl struct {
	CampaignRepo CampaignRepository
}

func NewGuard(campaignRepo CampaignRepository) Guard {
	return &GuardImpl{CampaignRepo: campaignRepo}
}

func (g *GuardImpl) ResolveCampaign(ctx context.Context, id string) (*Campaign, error) {
	campaign, err := g.CampaignRepo.Get(ctx, id)
	if err != nil {
		return nil, &apperrors.NotFound{Field: "campaign_id"}
	}
	return campaign, nil
}

// CheckCreatorPrivilege allows only the campaign creator to insert files.
// "Not invited" and "not creator" are the same forbidden signal.
func (g *GuardImpl) CheckCreatorPrivilege(sess *session.Session, campaign *Campaign) error {
	if campaign.CreatorID != sess.AccountID {
		return &apperrors.Forbidden{Field: "session_id"}
	}
	return nil
}

func (g *GuardImpl) ResolveInvitation(ctx context.Context, campaign *Campaign, invitationID string) (*Invitation, error) {
	oid, err := primitive.ObjectIDFromHex(invitationID)
	if err != nil {
		return nil, &apperrors.NotFound{Field: "invitation_id"}
	}
	invitation, err := g.CampaignRepo.FindInvitation(ctx, campaign.ID, oid)
	if err != nil {
		return nil, &apperrors.NotFound{Field: "invitation_id"}
	}
	return invitation, nil
}

// InvitationForAccount looks up the account's own membership in the campaign.
// A missing membership surfaces as forbidden, not as not-found, so outsiders
// learn nothing about who is invited.
func (g *GuardImpl) InvitationForAccount(ctx context.Context, campaign *Campaign, accountID primitive.ObjectID) (*Invitation, error) {
	invitation, err := g.CampaignRepo.FindInvitationByAccount(ctx, campaign.ID, accountID)
	if err != nil {
		return nil, &apperrors.Forbidden{Field: "session_id"}
	}
	return invitation, nil
}

// CheckActiveInvitation gates content reads: the requester needs a creator or
// accepted invitation in the campaign. Pending, blocked or expelled members
// are all rejected the same way.
func (g *GuardImpl) CheckActiveInvitation(ctx context.Context, sess *session.Session, campaign *Campaign) error {
	invitation, err := g.InvitationForAccount(ctx, campaign, sess.AccountID)
	if err != nil {
		return err
	}
	if !invitation.Status.Active() {
		return &apperrors.Forbidden{Field: "session_id"}
	}
	return nil
}
