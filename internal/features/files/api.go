package files

import (
	"go-vtt-files/internal/config"
	"go-vtt-files/internal/features/session"
	"go-vtt-files/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FileApi struct {
	controller  *FileController
	sessionRepo session.SessionRepository
	config      *config.Config
}

func NewFileApi(controller *FileController, sessionRepo session.SessionRepository, config *config.Config) *FileApi {
	return &FileApi{
		controller:  controller,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

func (h *FileApi) Setup(app *fiber.App) {
	gateway := middleware.GatewayMiddleware(h.config.SkipAuth)
	auth := middleware.SessionMiddleware(h.sessionRepo, h.config.SkipAuth)

	app.Post("/uploads/characters", gateway, auth, h.controller.UploadCharacter)
	app.Post("/uploads/documents", gateway, auth, h.controller.UploadDocument)
	app.Get("/uploads/characters/:character_id/content", gateway, auth, h.controller.CharacterContent)
}
