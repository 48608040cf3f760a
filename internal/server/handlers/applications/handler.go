package applications

import (
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/applications"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/middleware"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/paging"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/validation"
	"go.uber.org/zap"
)

type Handler struct {
	applicationsSvc *applications.Service

	auth      *middleware.Auth
	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	applicationsSvc *applications.Service,
	auth *middleware.Auth,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		applicationsSvc: applicationsSvc,

		auth:      auth,
		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/applications", h.auth.Handler)

	admin := middleware.RequireRoles(authz.RoleAdmin)

	r.Get("/", admin, validation.DecorateWithQueryEx(h.validator, h.list))
	r.Post("/", admin, validation.DecorateWithBodyEx(h.validator, h.post))
	r.Get("/:id",
		middleware.RequireRoles(authz.RoleAdmin, authz.RoleCI, authz.RoleConsumer),
		middleware.RequireApplicationScope("id"),
		h.get,
	)
	r.Patch("/:id", admin, validation.DecorateWithBodyEx(h.validator, h.patch))
}

//	@Summary		List applications
//	@Tags			applications
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int	false	"Zero based page"
//	@Param			size	query		int	false	"Page size"
//	@Success		200		{object}	paging.Response[ApplicationResponse]
//	@Failure		403		{object}	fiberfx.ErrorResponse
//	@Router			/applications [get]
func (h *Handler) list(c *fiber.Ctx, req *paging.Query) error {
	page, err := h.applicationsSvc.List(c.Context(), req.ToPage())
	if err != nil {
		return err
	}

	return c.JSON(paging.NewResponse(page, newApplicationResponse))
}

//	@Summary		Create an application
//	@Tags			applications
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateRequest	true	"Application"
//	@Success		201		{object}	ApplicationResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/applications [post]
func (h *Handler) post(c *fiber.Ctx, req *CreateRequest) error {
	application, err := h.applicationsSvc.Create(c.Context(), applications.ApplicationDraft{
		Name:        req.Name,
		BundleID:    req.BundleID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newApplicationResponse(*application))
}

//	@Summary		Get an application
//	@Tags			applications
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Application ID"
//	@Success		200	{object}	ApplicationResponse
//	@Failure		403	{object}	fiberfx.ErrorResponse
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id} [get]
func (h *Handler) get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid application id")
	}

	application, err := h.applicationsSvc.Get(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(newApplicationResponse(*application))
}

//	@Summary		Update an application
//	@Description	Name and description can be changed, the bundle id is fixed
//	@Tags			applications
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Application ID"
//	@Param			request	body		UpdateRequest	true	"Changes"
//	@Success		200		{object}	ApplicationResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id} [patch]
func (h *Handler) patch(c *fiber.Ctx, req *UpdateRequest) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid application id")
	}

	application, err := h.applicationsSvc.Update(c.Context(), id, applications.ApplicationUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(newApplicationResponse(*application))
}
