// Package handler exposes the HTTP handlers. Each handler file defines
// its own request/response DTOs; store failures are mapped onto the
// sentinel errors from the repository package and never leak driver
// detail to the client.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/iliyamo/storefront-api/internal/config"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/repository"
	"github.com/iliyamo/storefront-api/internal/utils"
)

// UserHandler bundles dependencies for the user endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type createUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type updateUserReq struct {
	UserID      string         `json:"userId"`
	FirstName   *string        `json:"firstName"`
	LastName    *string        `json:"lastName"`
	Email       string         `json:"email"`
	Phone       *string        `json:"phone"`
	Password    string         `json:"password"`
	CompanyName *string        `json:"companyName"`
	Address     *model.Address `json:"address"`
	OldPassword string         `json:"oldPassword"`
}
type wishlistReq struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

// Create registers a new user with the "user" role. The plaintext
// password is handed to the repository, hashed there and discarded.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password required"})
	}
	if !utils.ValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, model.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, u)
}

// List returns all users. Password hashes are excluded by the model's
// JSON tags.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, users)
}

// Login verifies credentials and returns an access/refresh token pair.
// An unknown email answers 404 and a wrong password 401, preserving the
// storefront's historical contract.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, u.ID.Hex(), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, u.ID.Hex(), h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"accessToken":  access.Value,
		"refreshToken": refresh.Value,
	})
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is never rotated or extended here. All failure
// classes answer 403 with the same body.
func (h *UserHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh token is required"})
	}

	sub, err := utils.ParseToken(h.Cfg.RefreshSecret, strings.TrimSpace(req.RefreshToken), utils.KindRefresh)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid refresh token"})
	}

	// The subject must still exist; a token for a deleted account is as
	// invalid as an expired one.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.GetByID(ctx, sub)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid refresh token"})
	}

	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, u.ID.Hex(), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"accessToken": access.Value})
}

// Update patches a user profile. Non-sensitive fields apply
// unconditionally; an email or password change additionally requires the
// old password to verify against the stored hash. A password change is
// re-hashed before storage, and an email change is re-checked against the
// unique index.
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.UserID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	set := bson.M{}
	if req.FirstName != nil {
		set["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		set["lastName"] = *req.LastName
	}
	if req.Phone != nil {
		if *req.Phone != "" && !utils.ValidPhone(*req.Phone) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone"})
		}
		set["phone"] = *req.Phone
	}
	if req.CompanyName != nil {
		set["companyName"] = *req.CompanyName
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}

	newEmail := strings.TrimSpace(req.Email)
	emailChange := newEmail != "" && newEmail != u.Email
	passwordChange := strings.TrimSpace(req.Password) != ""

	if emailChange || passwordChange {
		if req.OldPassword == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "old password is required to change email or password"})
		}
		if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "old password is incorrect"})
		}
		if emailChange {
			if !utils.ValidEmail(newEmail) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
			}
			set["email"] = newEmail
		}
		if passwordChange {
			hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
			}
			set["password"] = hash
		}
	}

	updated, err := h.Users.UpdateFields(ctx, req.UserID, set)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, updated)
}

// Wishlist adds a product id to the user's wishlist and returns the
// updated list.
func (h *UserHandler) Wishlist(c echo.Context) error {
	var req wishlistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == "" || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId and productId required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	wishlist, err := h.Users.AddToWishlist(ctx, req.UserID, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update wishlist failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"wishlist": wishlist})
}
