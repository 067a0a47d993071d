package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/events"
	"github.com/chintukumar01/pharmatrack/internal/logging"
	"github.com/chintukumar01/pharmatrack/internal/models"
)

// MedicineHandler is the admin inventory surface. Create/update/delete
// mirror the catalog into the search index and publish product events;
// both are best-effort and never fail the request.
type MedicineHandler struct {
	DB       *gorm.DB
	ES       *elasticsearch.Client
	Index    string
	Producer *events.Producer
}

func (h *MedicineHandler) List(c echo.Context) error {
	q := h.DB.Model(&models.Medicine{})
	if c.QueryParam("low_stock") == "true" {
		q = q.Where("stock <= low_stock_threshold")
	}

	var medicines []models.Medicine
	if err := q.Order("name ASC").Find(&medicines).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, medicines)
}

func (h *MedicineHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_medicine")

	var req struct {
		Name              string     `json:"name"`
		Category          string     `json:"category"`
		Description       string     `json:"description"`
		Price             float64    `json:"price"`
		Stock             int        `json:"stock"`
		LowStockThreshold int        `json:"low_stock_threshold"`
		Manufacturer      string     `json:"manufacturer"`
		ExpiryDate        *time.Time `json:"expiry_date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and category required")
	}
	if req.Price < 0 || req.Stock < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price and stock must be >= 0")
	}
	if req.LowStockThreshold == 0 {
		req.LowStockThreshold = 10
	}

	med := models.Medicine{
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		Price:             req.Price,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		Manufacturer:      req.Manufacturer,
		ExpiryDate:        req.ExpiryDate,
	}
	if err := h.DB.Create(&med).Error; err != nil {
		l.Error("create_medicine_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.indexDoc(c, &med)
	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(med.ID), map[string]any{
		"type":        "medicine_created",
		"medicine_id": med.ID,
		"name":        med.Name,
	})

	l.Info("create_medicine_success", "medicine_id", med.ID)
	return c.JSON(http.StatusCreated, med)
}

func (h *MedicineHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_medicine")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var med models.Medicine
	if err := h.DB.First(&med, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}

	// Partial update: only fields present in the body are applied.
	var req struct {
		Name              *string    `json:"name"`
		Category          *string    `json:"category"`
		Description       *string    `json:"description"`
		Price             *float64   `json:"price"`
		Stock             *int       `json:"stock"`
		LowStockThreshold *int       `json:"low_stock_threshold"`
		Manufacturer      *string    `json:"manufacturer"`
		ExpiryDate        *time.Time `json:"expiry_date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Name != nil {
		med.Name = *req.Name
	}
	if req.Category != nil {
		med.Category = *req.Category
	}
	if req.Description != nil {
		med.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
		med.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
		}
		med.Stock = *req.Stock
	}
	if req.LowStockThreshold != nil {
		med.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Manufacturer != nil {
		med.Manufacturer = *req.Manufacturer
	}
	if req.ExpiryDate != nil {
		med.ExpiryDate = req.ExpiryDate
	}

	if err := h.DB.Save(&med).Error; err != nil {
		l.Error("update_medicine_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.indexDoc(c, &med)
	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(med.ID), map[string]any{
		"type":        "medicine_updated",
		"medicine_id": med.ID,
		"name":        med.Name,
	})

	l.Info("update_medicine_success", "medicine_id", med.ID)
	return c.JSON(http.StatusOK, med)
}

func (h *MedicineHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_medicine")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var med models.Medicine
	if err := h.DB.First(&med, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	if err := h.DB.Delete(&med).Error; err != nil {
		l.Error("delete_medicine_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.deleteDoc(c, med.ID)
	publish(c, h.Producer, events.TopicProductEvents, fmt.Sprint(med.ID), map[string]any{
		"type":        "medicine_deleted",
		"medicine_id": med.ID,
	})

	l.Info("delete_medicine_success", "medicine_id", med.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Medicine deleted successfully"})
}

func (h *MedicineHandler) indexDoc(c echo.Context, med *models.Medicine) {
	if h.ES == nil {
		return
	}
	body, err := json.Marshal(med)
	if err != nil {
		c.Logger().Errorf("es marshal error: %v", err)
		return
	}
	res, err := h.ES.Index(
		h.Index,
		bytes.NewReader(body),
		h.ES.Index.WithDocumentID(strconv.Itoa(int(med.ID))),
		h.ES.Index.WithContext(c.Request().Context()),
	)
	if err != nil {
		c.Logger().Errorf("es index error: %v", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		c.Logger().Errorf("es index error: %s", res.Status())
	}
}

func (h *MedicineHandler) deleteDoc(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	res, err := h.ES.Delete(
		h.Index,
		strconv.Itoa(int(id)),
		h.ES.Delete.WithContext(c.Request().Context()),
	)
	if err != nil {
		c.Logger().Errorf("es delete error: %v", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		c.Logger().Errorf("es delete error: %s", res.Status())
	}
}
