package auth

import (
	"strings"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/auth"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/validation"
	"go.uber.org/zap"
)

const (
	headerAPIKey = "X-API-Key"
	tokenType    = "Bearer"
)

type Handler struct {
	authSvc *auth.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(authSvc *auth.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		authSvc: authSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/auth")

	r.Post("/login", validation.DecorateWithBodyEx(h.validator, h.login))
	r.Post("/refresh", validation.DecorateWithBodyEx(h.validator, h.refresh))
	r.Post("/api-key", h.apiKey)
}

//	@Summary		Log in
//	@Description	Exchange ADMIN credentials for an access and refresh token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	TokenPairResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		401		{object}	fiberfx.ErrorResponse
//	@Failure		403		{object}	fiberfx.ErrorResponse
//	@Router			/auth/login [post]
func (h *Handler) login(c *fiber.Ctx, req *LoginRequest) error {
	pair, err := h.authSvc.Login(c.Context(), req.Login, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(newTokenPairResponse(pair))
}

//	@Summary		Refresh tokens
//	@Description	Exchange a refresh token for a new token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	TokenPairResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		401		{object}	fiberfx.ErrorResponse
//	@Router			/auth/refresh [post]
func (h *Handler) refresh(c *fiber.Ctx, req *RefreshRequest) error {
	pair, err := h.authSvc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(newTokenPairResponse(pair))
}

//	@Summary		Log in with an API key
//	@Description	Exchange an API key for an access token scoped to its application
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			X-API-Key	header		string			false	"API key"
//	@Param			request		body		APIKeyRequest	false	"API key, when the header is absent"
//	@Success		200			{object}	APIKeyTokenResponse
//	@Failure		400			{object}	fiberfx.ErrorResponse
//	@Failure		401			{object}	fiberfx.ErrorResponse
//	@Router			/auth/api-key [post]
func (h *Handler) apiKey(c *fiber.Ctx) error {
	secret := strings.TrimSpace(c.Get(headerAPIKey))
	if secret == "" && len(c.Body()) > 0 {
		req := new(APIKeyRequest)
		if err := c.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		secret = strings.TrimSpace(req.APIKey)
	}

	if secret == "" {
		return errs.New(errs.KindInvalidArgument, "API key is required")
	}

	key, issued, err := h.authSvc.LoginWithAPIKey(c.Context(), secret)
	if err != nil {
		return err
	}

	return c.JSON(APIKeyTokenResponse{
		TokenType:            tokenType,
		AccessToken:          issued.Token,
		AccessTokenExpiresAt: issued.ExpiresAt,
		ApplicationID:        key.ApplicationID,
		Role:                 string(key.Role),
	})
}

func newTokenPairResponse(pair *auth.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		TokenType:             tokenType,
		AccessToken:           pair.Access.Token,
		AccessTokenExpiresAt:  pair.Access.ExpiresAt,
		RefreshToken:          pair.Refresh.Token,
		RefreshTokenExpiresAt: pair.Refresh.ExpiresAt,
	}
}
