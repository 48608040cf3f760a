package apikeys

import (
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/apikeys"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/middleware"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/paging"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/validation"
	"go.uber.org/zap"
)

type Handler struct {
	apiKeysSvc *apikeys.Service

	auth      *middleware.Auth
	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	apiKeysSvc *apikeys.Service,
	auth *middleware.Auth,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		apiKeysSvc: apiKeysSvc,

		auth:      auth,
		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/applications/:id/api-keys", h.auth.Handler, middleware.RequireRoles(authz.RoleAdmin))

	r.Post("/", validation.DecorateWithBodyEx(h.validator, h.post))
	r.Get("/", validation.DecorateWithQueryEx(h.validator, h.list))
	r.Delete("/:keyId", h.delete)
}

//	@Summary		Create an API key
//	@Description	The key itself is only returned by this call
//	@Tags			api-keys
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Application ID"
//	@Param			request	body		CreateRequest	true	"API key"
//	@Success		201		{object}	CreatedAPIKeyResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/api-keys [post]
func (h *Handler) post(c *fiber.Ctx, req *CreateRequest) error {
	applicationID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	created, err := h.apiKeysSvc.Create(c.Context(), apikeys.APIKeyDraft{
		ApplicationID: applicationID,
		Name:          req.Name,
		Role:          req.Role,
		ExpireBy:      req.ExpireBy,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(CreatedAPIKeyResponse{
		APIKeyResponse: newAPIKeyResponse(created.APIKey),
		APIKey:         created.Secret,
	})
}

//	@Summary		List API keys
//	@Description	active=true lists active keys only, otherwise every key is listed
//	@Tags			api-keys
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Application ID"
//	@Param			role	query		string	false	"Role filter"	Enums(CI, CONSUMER)
//	@Param			active	query		bool	false	"Only active keys"
//	@Param			page	query		int		false	"Zero based page"
//	@Param			size	query		int		false	"Page size"
//	@Success		200		{object}	paging.Response[APIKeyResponse]
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/api-keys [get]
func (h *Handler) list(c *fiber.Ctx, req *ListQuery) error {
	applicationID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	filter := apikeys.Filter{Active: req.Active}
	if req.Role != "" {
		filter.Role = &req.Role
	}

	page, err := h.apiKeysSvc.List(c.Context(), applicationID, filter, req.ToPage())
	if err != nil {
		return err
	}

	return c.JSON(paging.NewResponse(page, newAPIKeyResponse))
}

//	@Summary		Revoke an API key
//	@Tags			api-keys
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Application ID"
//	@Param			keyId	path	string	true	"API key ID"
//	@Success		204
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/api-keys/{keyId} [delete]
func (h *Handler) delete(c *fiber.Ctx) error {
	applicationID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	keyID, err := parseID(c, "keyId")
	if err != nil {
		return err
	}

	if revokeErr := h.apiKeysSvc.Revoke(c.Context(), applicationID, keyID); revokeErr != nil {
		return revokeErr
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.UUID{}, fiber.NewError(fiber.StatusBadRequest, "invalid "+param)
	}

	return id, nil
}
