package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fdtraverso/mercadito/internal/blobstore"
	"github.com/fdtraverso/mercadito/internal/domain"
	"github.com/fdtraverso/mercadito/internal/events"
	"github.com/fdtraverso/mercadito/internal/logging"
	"github.com/fdtraverso/mercadito/internal/models"
	"github.com/fdtraverso/mercadito/internal/search"
	"github.com/fdtraverso/mercadito/internal/service"
	"github.com/fdtraverso/mercadito/internal/transport"
)

type ProductHandler struct {
	Catalog  *service.CatalogService
	Storage  blobstore.Storage
	Producer events.Publisher
	Indexer  *search.Service
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *ProductHandler) reindex(c echo.Context, prod *models.Product) {
	if h.Indexer == nil {
		return
	}
	if err := h.Indexer.IndexProduct(c.Request().Context(), prod); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index error", "error", err, "productID", prod.ID)
	}
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}
	return uint(id), nil
}

// Gallery lists everything, or the products whose name contains ?q=.
func (h *ProductHandler) Gallery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.gallery")

	items, err := h.Catalog.Gallery(ctx, c.QueryParam("q"))
	if err != nil {
		l.Error("gallery_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, items)
}

// MyProducts lists the products the logged-in account is selling.
func (h *ProductHandler) MyProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.my_products")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	items, err := h.Catalog.ListBySeller(ctx, userID)
	if err != nil {
		l.Error("my_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	prod, err := h.Catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, prod)
}

// CreateProduct takes a multipart form: name, description, price, stock
// and the image file. Fields are validated before the image is stored
// and nothing is written on a parse failure.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	req, err := transport.ParseCreateProduct(
		c.FormValue("name"),
		c.FormValue("description"),
		c.FormValue("price"),
		c.FormValue("stock"),
	)
	if err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "no file")
		return echo.NewHTTPError(http.StatusBadRequest, "image file required")
	}

	safe := blobstore.SanitizeFilename(fileHeader.Filename)
	if safe == "" {
		l.Warn("product_create_error", "status", 400, "reason", "invalid filename")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filename")
	}

	file, err := fileHeader.Open()
	if err != nil {
		l.Error("product_create_error", "status", 500, "reason", "cannot open upload", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}
	defer file.Close()

	key := uuid.NewString() + "_" + safe
	url, err := h.Storage.Put(ctx, key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		l.Error("product_create_error", "status", 500, "reason", "upload failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}
	req.ImageURL = url

	prod, err := h.Catalog.Create(ctx, userID, req)
	if err != nil {
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
		"userID":    userID,
	})
	h.reindex(c, prod)

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Catalog.Update(ctx, id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			l.Warn("product_patch_error", "status", 400, "reason", "invalid fields", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			l.Warn("product_patch_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, domain.ErrForbidden):
			l.Warn("product_patch_error", "status", 403, "reason", "not the owner")
			return echo.NewHTTPError(http.StatusForbidden, "you do not own this product")
		default:
			l.Error("product_patch_error", "status", 500, "reason", "cannot update product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
		}
	}

	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
		"userID":    userID,
	})
	h.reindex(c, prod)

	l.Info("patch_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Catalog.Delete(ctx, id, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			l.Warn("product_delete_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, domain.ErrForbidden):
			l.Warn("product_delete_error", "status", 403, "reason", "not the owner")
			return echo.NewHTTPError(http.StatusForbidden, "you do not own this product")
		case errors.Is(err, domain.ErrConflict):
			l.Warn("product_delete_error", "status", 409, "reason", "orders reference product")
			return echo.NewHTTPError(http.StatusConflict, "product has orders and cannot be deleted")
		default:
			l.Error("product_delete_error", "status", 500, "reason", "cannot delete product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
		}
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
		"userID":    userID,
	})
	if h.Indexer != nil {
		if err := h.Indexer.DeleteProduct(ctx, id); err != nil {
			l.Error("es delete error", "error", err, "productID", id)
		}
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
