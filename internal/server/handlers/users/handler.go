package users

import (
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/middleware"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/paging"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/validation"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/users"
	"go.uber.org/zap"
)

type Handler struct {
	usersSvc *users.Service

	auth      *middleware.Auth
	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	usersSvc *users.Service,
	auth *middleware.Auth,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		usersSvc: usersSvc,

		auth:      auth,
		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/users", h.auth.Handler)

	admin := middleware.RequireRoles(authz.RoleAdmin)

	r.Get("/", admin, validation.DecorateWithQueryEx(h.validator, h.list))
	r.Post("/", admin, validation.DecorateWithBodyEx(h.validator, h.post))
	r.Get("/:id", h.get)
	r.Put("/:id/password", validation.DecorateWithBodyEx(h.validator, h.putPassword))
	r.Put("/:id/active", admin, validation.DecorateWithBodyEx(h.validator, h.putActive))
}

//	@Summary		List users
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			role	query		string	false	"Role filter"	Enums(ADMIN, CI, CONSUMER)
//	@Param			active	query		bool	false	"Active filter"
//	@Param			page	query		int		false	"Zero based page"
//	@Param			size	query		int		false	"Page size"
//	@Success		200		{object}	paging.Response[UserResponse]
//	@Failure		401		{object}	fiberfx.ErrorResponse
//	@Failure		403		{object}	fiberfx.ErrorResponse
//	@Router			/users [get]
func (h *Handler) list(c *fiber.Ctx, req *ListQuery) error {
	filter := users.Filter{Active: req.Active}
	if req.Role != "" {
		role, _ := users.ParseRole(req.Role)
		filter.Role = &role
	}

	page, err := h.usersSvc.List(c.Context(), filter, req.ToPage())
	if err != nil {
		return err
	}

	return c.JSON(paging.NewResponse(page, newUserResponse))
}

//	@Summary		Create a user
//	@Description	ADMIN users need a password, CI and CONSUMER users must not have one
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateRequest	true	"User"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		403		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/users [post]
func (h *Handler) post(c *fiber.Ctx, req *CreateRequest) error {
	user, err := h.usersSvc.Create(c.Context(), users.UserDraft{
		Login:    req.Login,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newUserResponse(*user))
}

//	@Summary		Get a user
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	UserResponse
//	@Failure		403	{object}	fiberfx.ErrorResponse
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/users/{id} [get]
func (h *Handler) get(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if ownErr := authz.CheckOwnResource(middleware.GetPrincipal(c), id, "user account", authz.RoleAdmin); ownErr != nil {
		return ownErr
	}

	user, err := h.usersSvc.Get(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(newUserResponse(*user))
}

//	@Summary		Change password
//	@Description	Changes the password of the caller's own ADMIN account and invalidates its tokens
//	@Tags			users
//	@Accept			json
//	@Security		BearerAuth
//	@Param			id		path	string			true	"User ID"
//	@Param			request	body	PasswordRequest	true	"New password"
//	@Success		204
//	@Failure		400	{object}	fiberfx.ErrorResponse
//	@Failure		403	{object}	fiberfx.ErrorResponse
//	@Router			/users/{id}/password [put]
func (h *Handler) putPassword(c *fiber.Ctx, req *PasswordRequest) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if _, updErr := h.usersSvc.UpdatePassword(c.Context(), middleware.GetPrincipal(c), id, req.Password); updErr != nil {
		return updErr
	}

	return c.SendStatus(fiber.StatusNoContent)
}

//	@Summary		Activate or deactivate a user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"User ID"
//	@Param			request	body		ActiveRequest	true	"Active flag"
//	@Success		200		{object}	UserResponse
//	@Failure		403		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/users/{id}/active [put]
func (h *Handler) putActive(c *fiber.Ctx, req *ActiveRequest) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	user, err := h.usersSvc.SetActive(c.Context(), middleware.GetPrincipal(c), id, *req.Active)
	if err != nil {
		return err
	}

	return c.JSON(newUserResponse(*user))
}

func userID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.UUID{}, fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	return id, nil
}
