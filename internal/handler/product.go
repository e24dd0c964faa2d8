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
	"github.com/iliyamo/storefront-api/internal/queue"
	"github.com/iliyamo/storefront-api/internal/repository"
	"github.com/iliyamo/storefront-api/internal/search"
	"github.com/iliyamo/storefront-api/internal/service"
)

// ProductHandler bundles dependencies for the catalog endpoints.
type ProductHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Products *repository.ProductRepo
	SKUs     *service.SKUGenerator
	Events   *service.Publisher
}

func NewProductHandler(cfg config.Config, u *repository.UserRepo, p *repository.ProductRepo, g *service.SKUGenerator, ev *service.Publisher) *ProductHandler {
	return &ProductHandler{Cfg: cfg, Users: u, Products: p, SKUs: g, Events: ev}
}

// ----- DTOs -----

type productReq struct {
	UserID                string   `json:"userId"`
	ProductID             string   `json:"productId"`
	Title                 string   `json:"title"`
	Label                 string   `json:"label"`
	Imgs                  []string `json:"imgs"`
	Size                  []string `json:"size"`
	Color                 []string `json:"color"`
	Quantity              int      `json:"quantity"`
	Category              string   `json:"category"`
	Tags                  []string `json:"tags"`
	Description           string   `json:"description"`
	AdditionalInformation string   `json:"additionalInformation"`
}
type deleteProductReq struct {
	ID string `json:"id"`
}
type reviewReq struct {
	Stars       int    `json:"stars"`
	Description string `json:"description"`
}

// Create inserts a new product with a freshly generated SKU. The role
// check happens in middleware from the verified token subject; the legacy
// body userId is still resolved and answers 404 when it does not exist.
// A duplicate-key failure from the insert is treated as a SKU collision
// and retried with a new draw, the unique index being the authority.
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Category) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and category required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.UserID != "" {
		if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	p := model.Product{
		Title:                 req.Title,
		Label:                 req.Label,
		Imgs:                  req.Imgs,
		Size:                  req.Size,
		Color:                 req.Color,
		Quantity:              req.Quantity,
		Category:              req.Category,
		Tags:                  req.Tags,
		Description:           req.Description,
		AdditionalInformation: req.AdditionalInformation,
	}

	for attempt := 0; ; attempt++ {
		sku, err := h.SKUs.Generate(ctx, req.Category)
		if err != nil {
			if errors.Is(err, service.ErrSKUExhausted) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "sku space exhausted"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		p.SKU = sku
		err = h.Products.Insert(ctx, &p)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrSKUExists) && attempt < h.Cfg.SKUMaxAttempts {
			continue // lost the race for this SKU, draw again
		}
		if errors.Is(err, repository.ErrSKUExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sku space exhausted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}

	subject, _ := c.Get("user_id").(string)
	_ = h.Events.ProductCreated(c.Request().Context(), queue.ProductCreatedEvent{
		ProductID: p.ID.Hex(),
		SKU:       p.SKU,
		Title:     p.Title,
		Category:  p.Category,
		CreatedBy: subject,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, p)
}

// Update patches product fields by productId. The SKU is immutable; the
// repository drops it from the patch even if a client sends one.
func (h *ProductHandler) Update(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.UserID != "" {
		if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	set := bson.M{
		"title":                 req.Title,
		"label":                 req.Label,
		"imgs":                  req.Imgs,
		"size":                  req.Size,
		"color":                 req.Color,
		"quantity":              req.Quantity,
		"category":              req.Category,
		"tags":                  req.Tags,
		"description":           req.Description,
		"additionalInformation": req.AdditionalInformation,
	}
	p, err := h.Products.Update(ctx, req.ProductID, set)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a product by the id carried in the request body.
func (h *ProductHandler) Delete(c echo.Context) error {
	var req deleteProductReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}

// List returns catalog products. Category and sku query parameters are
// exact-match prefilters applied in the store; a search parameter then
// runs the fuzzy ranker over the filtered snapshot and orders the result
// by relevance.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.List(ctx, repository.ListFilter{
		Category: c.QueryParam("category"),
		SKU:      c.QueryParam("sku"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if q := c.QueryParam("search"); q != "" {
		products = search.Rank(products, q)
	}
	return c.JSON(http.StatusOK, products)
}

// AddReview appends the authenticated subject's review to a product. The
// duplicate check, the append and the rating recompute are one atomic
// store operation; a second submission by the same user answers 400 and
// leaves the rating untouched.
func (h *ProductHandler) AddReview(c echo.Context) error {
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	subject, ok := c.Get("subject").(model.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rev := model.Review{
		UserID:      subject.ID,
		UserName:    reviewerName(subject),
		Stars:       req.Stars,
		Description: req.Description,
	}
	p, err := h.Products.AddReview(ctx, c.Param("id"), rev)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidRating):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "stars must be between 1 and 5"})
		case errors.Is(err, repository.ErrDuplicateReview):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you have already reviewed this product"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add review failed"})
		}
	}

	added := p.Reviews[len(p.Reviews)-1]
	_ = h.Events.ReviewAdded(c.Request().Context(), queue.ReviewAddedEvent{
		ProductID: p.ID.Hex(),
		UserID:    added.UserID.Hex(),
		UserName:  added.UserName,
		Stars:     added.Stars,
		Rating:    p.Rating,
		AddedAt:   added.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"review": added, "rating": p.Rating})
}

// reviewerName picks the display name denormalized into a review: full
// name when present, otherwise the email.
func reviewerName(u model.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
