package versions

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/authz"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/middleware"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/paging"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/validation"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/versions"
	"go.uber.org/zap"
)

const (
	formFile       = "file"
	apkContentType = "application/vnd.android.package-archive"
)

type Handler struct {
	versionsSvc *versions.Service

	auth      *middleware.Auth
	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	versionsSvc *versions.Service,
	auth *middleware.Auth,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		versionsSvc: versionsSvc,

		auth:      auth,
		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/applications/:id/versions", h.auth.Handler)

	readers := middleware.RequireRoles(authz.RoleAdmin, authz.RoleCI, authz.RoleConsumer)
	scope := middleware.RequireApplicationScope("id")

	r.Post("/", middleware.RequireRoles(authz.RoleAdmin, authz.RoleCI), scope, h.post)
	r.Get("/", readers, scope, validation.DecorateWithQueryEx(h.validator, h.list))
	r.Get("/latest", readers, scope, h.latest)
	r.Get("/:code", readers, scope, h.get)
	r.Get("/:code/download", readers, scope, h.download)
	r.Delete("/:code", middleware.RequireRoles(authz.RoleAdmin), h.delete)
}

//	@Summary		Upload a version
//	@Description	Uploads an APK. Package name, version code and signer are taken from the file.
//	@Tags			versions
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Application ID"
//	@Param			file	formData	file	true	"APK file"
//	@Success		201		{object}	VersionResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		403		{object}	fiberfx.ErrorResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/versions [post]
func (h *Handler) post(c *fiber.Ctx) error {
	applicationID, err := parseApplicationID(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile(formFile)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "APK file is required")
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}

	version, err := h.versionsSvc.Upload(c.Context(), applicationID, middleware.GetPrincipal(c).String(), data)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newVersionResponse(*version))
}

//	@Summary		List versions
//	@Description	Newest version first
//	@Tags			versions
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Application ID"
//	@Param			page	query		int		false	"Zero based page"
//	@Param			size	query		int		false	"Page size"
//	@Success		200		{object}	paging.Response[VersionResponse]
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/versions [get]
func (h *Handler) list(c *fiber.Ctx, req *paging.Query) error {
	applicationID, err := parseApplicationID(c)
	if err != nil {
		return err
	}

	page, err := h.versionsSvc.List(c.Context(), applicationID, req.ToPage())
	if err != nil {
		return err
	}

	return c.JSON(paging.NewResponse(page, newVersionResponse))
}

//	@Summary		Get the latest version
//	@Tags			versions
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Application ID"
//	@Success		200	{object}	VersionResponse
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/versions/latest [get]
func (h *Handler) latest(c *fiber.Ctx) error {
	applicationID, err := parseApplicationID(c)
	if err != nil {
		return err
	}

	version, err := h.versionsSvc.GetLatest(c.Context(), applicationID)
	if err != nil {
		return err
	}

	return c.JSON(newVersionResponse(*version))
}

//	@Summary		Get a version
//	@Tags			versions
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Application ID"
//	@Param			code	path		int		true	"Version code"
//	@Success		200		{object}	VersionResponse
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/versions/{code} [get]
func (h *Handler) get(c *fiber.Ctx) error {
	applicationID, versionCode, err := versionKey(c)
	if err != nil {
		return err
	}

	version, err := h.versionsSvc.Get(c.Context(), applicationID, versionCode)
	if err != nil {
		return err
	}

	return c.JSON(newVersionResponse(*version))
}

//	@Summary		Download a version
//	@Tags			versions
//	@Produce		application/vnd.android.package-archive
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Application ID"
//	@Param			code	path	int		true	"Version code"
//	@Success		200		{file}	binary
//	@Failure		404		{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/versions/{code}/download [get]
func (h *Handler) download(c *fiber.Ctx) error {
	applicationID, versionCode, err := versionKey(c)
	if err != nil {
		return err
	}

	version, body, err := h.versionsSvc.Download(c.Context(), applicationID, versionCode)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, apkContentType)
	c.Attachment(fmt.Sprintf("%s-%d.apk", version.PackageName, version.VersionCode))

	return c.SendStream(body, int(version.Size))
}

//	@Summary		Delete a version
//	@Tags			versions
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Application ID"
//	@Param			code	path	int		true	"Version code"
//	@Success		204
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/applications/{id}/versions/{code} [delete]
func (h *Handler) delete(c *fiber.Ctx) error {
	applicationID, versionCode, err := versionKey(c)
	if err != nil {
		return err
	}

	if delErr := h.versionsSvc.Delete(c.Context(), applicationID, versionCode); delErr != nil {
		return delErr
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseApplicationID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.UUID{}, fiber.NewError(fiber.StatusBadRequest, "invalid application id")
	}

	return id, nil
}

func versionKey(c *fiber.Ctx) (uuid.UUID, int64, error) {
	id, err := parseApplicationID(c)
	if err != nil {
		return uuid.UUID{}, 0, err
	}

	code, err := strconv.ParseInt(c.Params("code"), 10, 64)
	if err != nil || code <= 0 {
		return uuid.UUID{}, 0, fiber.NewError(fiber.StatusBadRequest, "invalid version code")
	}

	return id, code, nil
}
