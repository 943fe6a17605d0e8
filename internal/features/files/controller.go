package files

import (
	"go-vtt-files/internal/apperrors"
	"go-vtt-files/internal/features/campaign"
	"go-vtt-files/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FileController struct {
	UploadService UploadService
	Guard         campaign.Guard
	Logger        *zap.Logger
}

func NewFileController(uploadService UploadService, guard campaign.Guard, logger *zap.Logger) *FileController {
	return &FileController{
		UploadService: uploadService,
		Guard:         guard,
		Logger:        logger,
	}
}

// UploadCharacter godoc
// @Summary Upload character sheet
// @Description Upload a base64-encoded character sheet into a campaign
// @Tags uploads
// @Accept x-www-form-urlencoded
// @Produce json
// @Param campaign_id formData string true "Campaign ID"
// @Param invitation_id formData string true "Invitation owning the character"
// @Param name formData string true "Display name"
// @Param content formData string true "Data URI payload"
// @Success 201 {object} Created
// @Router /uploads/characters [post]
func (ctrl *FileController) UploadCharacter(c *fiber.Ctx) error {
	if field, missing := missingField(c, "campaign_id", "name", "content", "invitation_id"); missing {
		return requiredError(c, field)
	}

	sess := middleware.CurrentSession(c)
	camp, err := ctrl.Guard.ResolveCampaign(c.UserContext(), middleware.Param(c, "campaign_id"))
	if err != nil {
		return ctrl.renderError(c, err)
	}
	if err := ctrl.Guard.CheckCreatorPrivilege(sess, camp); err != nil {
		return ctrl.renderError(c, err)
	}
	invitation, err := ctrl.Guard.ResolveInvitation(c.UserContext(), camp, middleware.Param(c, "invitation_id"))
	if err != nil {
		return ctrl.renderError(c, err)
	}

	record, err := ctrl.UploadService.Create(c.UserContext(), KindCharacter, camp,
		invitation.ID, middleware.Param(c, "name"), middleware.Param(c, "content"))
	if err != nil {
		return ctrl.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NewCreated(record))
}

// UploadDocument godoc
// @Summary Upload document
// @Description Upload a base64-encoded document into a campaign
// @Tags uploads
// @Accept x-www-form-urlencoded
// @Produce json
// @Param campaign_id formData string true "Campaign ID"
// @Param name formData string true "Display name"
// @Param content formData string true "Data URI payload"
// @Success 201 {object} Created
// @Router /uploads/documents [post]
func (ctrl *FileController) UploadDocument(c *fiber.Ctx) error {
	if field, missing := missingField(c, "campaign_id", "name", "content"); missing {
		return requiredError(c, field)
	}

	sess := middleware.CurrentSession(c)
	camp, err := ctrl.Guard.ResolveCampaign(c.UserContext(), middleware.Param(c, "campaign_id"))
	if err != nil {
		return ctrl.renderError(c, err)
	}
	if err := ctrl.Guard.CheckCreatorPrivilege(sess, camp); err != nil {
		return ctrl.renderError(c, err)
	}
	// Documents are owned by the uploader's own invitation in the campaign.
	invitation, err := ctrl.Guard.InvitationForAccount(c.UserContext(), camp, sess.AccountID)
	if err != nil {
		return ctrl.renderError(c, err)
	}

	record, err := ctrl.UploadService.Create(c.UserContext(), KindDocument, camp,
		invitation.ID, middleware.Param(c, "name"), middleware.Param(c, "content"))
	if err != nil {
		return ctrl.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NewCreated(record))
}

// CharacterContent godoc
// @Summary Download character sheet
// @Description Fetch the raw bytes of a character sheet
// @Tags uploads
// @Param character_id path string true "Character ID"
// @Param campaign_id query string true "Campaign ID"
// @Success 200 {string} binary "Sheet content"
// @Router /uploads/characters/{character_id}/content [get]
func (ctrl *FileController) CharacterContent(c *fiber.Ctx) error {
	if field, missing := missingField(c, "campaign_id"); missing {
		return requiredError(c, field)
	}

	sess := middleware.CurrentSession(c)
	camp, err := ctrl.Guard.ResolveCampaign(c.UserContext(), middleware.Param(c, "campaign_id"))
	if err != nil {
		return ctrl.renderError(c, err)
	}
	if err := ctrl.Guard.CheckActiveInvitation(c.UserContext(), sess, camp); err != nil {
		return ctrl.renderError(c, err)
	}

	record, data, err := ctrl.UploadService.Content(c.UserContext(), camp, c.Params("character_id"))
	if err != nil {
		return ctrl.renderError(c, err)
	}

	c.Set(fiber.HeaderContentType, record.MimeType)
	return c.Status(fiber.StatusOK).Send(data)
}

func (ctrl *FileController) renderError(c *fiber.Ctx, err error) error {
	status, body := apperrors.HTTP(err)
	if status == fiber.StatusInternalServerError {
		ctrl.Logger.Error("upload request failed",
			zap.String("campaign_id", middleware.Param(c, "campaign_id")),
			zap.Error(err))
	}
	return c.Status(status).JSON(body)
}

// missingField returns the first mandatory field absent from the request.
func missingField(c *fiber.Ctx, fields ...string) (string, bool) {
	for _, field := range fields {
		if middleware.Param(c, field) == "" {
			return field, true
		}
	}
	return "", false
}

func requiredError(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(apperrors.Response{
		Status: 400, Field: field, Error: "required",
	})
}
