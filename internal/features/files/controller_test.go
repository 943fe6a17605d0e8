package files

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go-vtt-files/internal/config"
	"go-vtt-files/internal/features/campaign"
	"go-vtt-files/internal/features/session"
	"go-vtt-files/internal/storage"
	"go-vtt-files/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mockSessionRepo struct {
	sessions map[string]*session.Session
}

func (m *mockSessionRepo) FindByToken(ctx context.Context, token string) (*session.Session, error) {
	sess, ok := m.sessions[token]
	if !ok {
		return nil, session.ErrNoSession
	}
	return sess, nil
}

func (m *mockSessionRepo) Save(ctx context.Context, sess *session.Session) error {
	m.sessions[sess.Token] = sess
	return nil
}

type mockCampaignRepo struct {
	campaigns   map[string]*campaign.Campaign
	invitations []*campaign.Invitation
}

func (m *mockCampaignRepo) Get(ctx context.Context, id string) (*campaign.Campaign, error) {
	camp, ok := m.campaigns[id]
	if !ok {
		return nil, campaign.ErrNoCampaign
	}
	return camp, nil
}

func (m *mockCampaignRepo) FindInvitation(ctx context.Context, campaignID, invitationID primitive.ObjectID) (*campaign.Invitation, error) {
	for _, invitation := range m.invitations {
		if invitation.ID == invitationID && invitation.CampaignID == campaignID {
			return invitation, nil
		}
	}
	return nil, campaign.ErrNoInvitation
}

func (m *mockCampaignRepo) FindInvitationByAccount(ctx context.Context, campaignID, accountID primitive.ObjectID) (*campaign.Invitation, error) {
	for _, invitation := range m.invitations {
		if invitation.AccountID == accountID && invitation.CampaignID == campaignID {
			return invitation, nil
		}
	}
	return nil, campaign.ErrNoInvitation
}

func (m *mockCampaignRepo) Save(ctx context.Context, camp *campaign.Campaign) error {
	m.campaigns[camp.ID.Hex()] = camp
	return nil
}

func (m *mockCampaignRepo) SaveInvitation(ctx context.Context, invitation *campaign.Invitation) error {
	m.invitations = append(m.invitations, invitation)
	return nil
}

// fixture wires a full app around in-memory stores: a creator account with a
// session and creator invitation, an invited player, and one campaign
// restricted to XML sheets.
type fixture struct {
	app           *fiber.App
	backend       *storage.MemoryBackend
	repo          *mockFileRepo
	campaign      *campaign.Campaign
	gatewayToken  string
	creatorToken  string
	playerToken   string
	playerInvite  *campaign.Invitation
	creatorInvite *campaign.Invitation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	creatorAccount := primitive.NewObjectID()
	playerAccount := primitive.NewObjectID()

	camp := &campaign.Campaign{
		ID:        primitive.NewObjectID(),
		Title:     "The Sunken Keep",
		CreatorID: creatorAccount,
		MimeTypes: []string{"application/xml"},
	}

	creatorInvite := &campaign.Invitation{
		ID:         primitive.NewObjectID(),
		CampaignID: camp.ID,
		AccountID:  creatorAccount,
		Status:     campaign.StatusCreator,
	}
	playerInvite := &campaign.Invitation{
		ID:         primitive.NewObjectID(),
		CampaignID: camp.ID,
		AccountID:  playerAccount,
		Status:     campaign.StatusAccepted,
	}

	campaignRepo := &mockCampaignRepo{
		campaigns:   map[string]*campaign.Campaign{camp.ID.Hex(): camp},
		invitations: []*campaign.Invitation{creatorInvite, playerInvite},
	}
	sessionRepo := &mockSessionRepo{sessions: map[string]*session.Session{
		"creator-token": {Token: "creator-token", AccountID: creatorAccount},
		"player-token":  {Token: "player-token", AccountID: playerAccount},
	}}

	repo := newMockFileRepo()
	backend := storage.NewMemoryBackend()
	service := NewUploadService(repo, backend, zap.NewNop())
	guard := campaign.NewGuard(campaignRepo)
	controller := NewFileController(service, guard, zap.NewNop())

	cfg := &config.Config{SkipAuth: false}
	app := fiber.New()
	NewFileApi(controller, sessionRepo, cfg).Setup(app)

	gatewayToken, err := utils.GenerateGatewayToken("test-gateway")
	require.NoError(t, err)

	return &fixture{
		app:           app,
		backend:       backend,
		repo:          repo,
		campaign:      camp,
		gatewayToken:  gatewayToken,
		creatorToken:  "creator-token",
		playerToken:   "player-token",
		playerInvite:  playerInvite,
		creatorInvite: creatorInvite,
	}
}

func (f *fixture) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *fixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (f *fixture) characterForm(token string) url.Values {
	return url.Values{
		"token":         {f.gatewayToken},
		"session_id":    {token},
		"campaign_id":   {f.campaign.ID.Hex()},
		"invitation_id": {f.playerInvite.ID.Hex()},
		"name":          {"test.dnd4e"},
		"content":       {"data:application/xml;base64,dGVzdA=="},
	}
}

func TestUploadCharacterNominal(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/uploads/characters", f.characterForm(f.creatorToken))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, "test.dnd4e", body["name"])
	assert.Equal(t, "application/xml", body["type"])

	key := f.campaign.ID.Hex() + "/characters/" + body["id"].(string)
	data, err := f.backend.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), data)
}

func TestUploadCharacterMissingFields(t *testing.T) {
	f := newFixture(t)

	for _, field := range []string{"campaign_id", "name", "content", "invitation_id"} {
		t.Run(field, func(t *testing.T) {
			form := f.characterForm(f.creatorToken)
			form.Del(field)

			resp := f.post(t, "/uploads/characters", form)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, field, body["field"])
			assert.Equal(t, "required", body["error"])
		})
	}
	assert.Empty(t, f.repo.records)
}

func TestUploadCharacterUnknownSession(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/uploads/characters", f.characterForm("pouet pouet"))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "session_id", body["field"])
	assert.Equal(t, "unknown", body["error"])
}

func TestUploadCharacterNotCreator(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/uploads/characters", f.characterForm(f.playerToken))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "session_id", body["field"])
	assert.Equal(t, "forbidden", body["error"])
	assert.Empty(t, f.repo.records)
}

func TestUploadCharacterWrongMime(t *testing.T) {
	f := newFixture(t)
	form := f.characterForm(f.creatorToken)
	form.Set("content", "data:text/plain;base64,dGVzdA==")

	resp := f.post(t, "/uploads/characters", form)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "mime_type", body["field"])
	assert.Equal(t, "pattern", body["error"])
	assert.Empty(t, f.repo.records)
}

func TestUploadDocumentNominal(t *testing.T) {
	f := newFixture(t)
	form := url.Values{
		"token":       {f.gatewayToken},
		"session_id":  {f.creatorToken},
		"campaign_id": {f.campaign.ID.Hex()},
		"name":        {"test.xml"},
		"content":     {"data:application/xml;base64,dGVzdA=="},
	}

	resp := f.post(t, "/uploads/documents", form)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "created", body["message"])

	// Documents get their size read back from the store.
	recordID, err := primitive.ObjectIDFromHex(body["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.repo.records[recordID].SizeBytes)
	assert.Equal(t, f.creatorInvite.ID, f.repo.records[recordID].OwnerID)
}

func TestCharacterContentNominal(t *testing.T) {
	f := newFixture(t)

	created := decodeBody(t, f.post(t, "/uploads/characters", f.characterForm(f.creatorToken)))

	resp := f.get(t, "/uploads/characters/"+created["id"].(string)+"/content?campaign_id="+
		f.campaign.ID.Hex()+"&session_id="+f.playerToken+"&token="+url.QueryEscape(f.gatewayToken))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml", resp.Header.Get(fiber.HeaderContentType))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, []byte("test"), data)
}

func TestCharacterContentInactiveInvitation(t *testing.T) {
	f := newFixture(t)
	created := decodeBody(t, f.post(t, "/uploads/characters", f.characterForm(f.creatorToken)))

	for _, status := range []campaign.InvitationStatus{
		campaign.StatusPending, campaign.StatusBlocked, campaign.StatusExpelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			f.playerInvite.Status = status

			resp := f.get(t, "/uploads/characters/"+created["id"].(string)+"/content?campaign_id="+
				f.campaign.ID.Hex()+"&session_id="+f.playerToken+"&token="+url.QueryEscape(f.gatewayToken))
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, "session_id", body["field"])
			assert.Equal(t, "forbidden", body["error"])
		})
	}
}

func TestCharacterContentUnknownCampaign(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/uploads/characters/"+primitive.NewObjectID().Hex()+"/content?campaign_id="+
		primitive.NewObjectID().Hex()+"&session_id="+f.playerToken+"&token="+url.QueryEscape(f.gatewayToken))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "campaign_id", body["field"])
}
