package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bp-tracker/internal/api/dto"
	"github.com/spec-kit/bp-tracker/internal/auth"
	"github.com/spec-kit/bp-tracker/internal/service"
	apperrors "github.com/spec-kit/bp-tracker/pkg/util"
)

// ShareHandler exposes share-link issuance and the public shared view.
type ShareHandler struct {
	share *service.ShareService
}

// NewShareHandler constructs handler.
func NewShareHandler(share *service.ShareService) *ShareHandler {
	return &ShareHandler{share: share}
}

// Issue handles POST /api/share. The link always targets the caller's own
// history.
func (h *ShareHandler) Issue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	link, err := h.share.IssueShareLink(c.Context(), principal.Patient.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.ShareLinkResponse{ShareURL: link.ShareURL, ExpiresAt: link.ExpiresAt},
	})
}

// View handles GET /shared/:token without any authentication.
func (h *ShareHandler) View(c *fiber.Ctx) error {
	token := c.Params("token")

	history, err := h.share.VerifyAndFetch(c.Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewSharedHistoryResponse(history)})
}
