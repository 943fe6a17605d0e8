package campaign

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationStatus gates what a member may do inside a campaign.
type InvitationStatus string

const (
	StatusCreator  InvitationStatus = "creator"
	StatusAccepted InvitationStatus = "accepted"
	StatusPending  InvitationStatus = "pending"
	StatusRequest  InvitationStatus = "request"
	StatusRefused  InvitationStatus = "refused"
	StatusBlocked  InvitationStatus = "blocked"
	StatusExpelled InvitationStatus = "expelled"
	StatusLeft     InvitationStatus = "left"
)

// Active reports whether the invitation grants access to campaign files.
func (s InvitationStatus) Active() bool {
	return s == StatusCreator || s == StatusAccepted
}

// Campaign is a game session container owning characters, documents and
// invitations. MimeTypes is the ruleset allow-list for uploaded sheets; empty
// means any type is accepted.
type Campaign struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	CreatorID primitive.ObjectID `json:"creator_id" bson:"creator_id"`
	MimeTypes []string           `json:"mime_types" bson:"mime_types,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Allows reports whether the campaign ruleset accepts the given MIME type.
func (c *Campaign) Allows(mimeType string) bool {
	if len(c.MimeTypes) == 0 {
		return true
	}
	for _, allowed := range c.MimeTypes {
		if allowed == mimeType {
			return true
		}
	}
	return false
}

// Invitation is a per-account membership record in a campaign.
type Invitation struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CampaignID primitive.ObjectID `json:"campaign_id" bson:"campaign_id"`
	AccountID  primitive.ObjectID `json:"account_id" bson:"account_id"`
	Status     InvitationStatus   `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
