package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chintukumar01/pharmatrack/internal/models"
	"github.com/chintukumar01/pharmatrack/internal/util"
)

// MedicineHandler serves the public catalog: only in-stock medicines are
// listed, no authentication required.
type MedicineHandler struct {
	DB *gorm.DB
}

func (h *MedicineHandler) Browse(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Medicine{}).Where("stock > 0")
	if category := c.QueryParam("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if search := c.QueryParam("search"); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.Medicine
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *MedicineHandler) Categories(c echo.Context) error {
	var categories []string
	if err := h.DB.Model(&models.Medicine{}).
		Distinct().
		Pluck("category", &categories).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

func (h *MedicineHandler) Detail(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var med models.Medicine
	if err := h.DB.First(&med, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	return c.JSON(http.StatusOK, med)
}
