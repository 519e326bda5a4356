package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/model"
	"github.com/nivaan/health-booking-admin/internal/repository"
)

// OfficeHandler serves the staff-side office registry under a company.
type OfficeHandler struct {
	Companies *repository.CompanyRepo
	Offices   *repository.OfficeRepo
}

type officeReq struct {
	Name      string `json:"name" validate:"required"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	SpocName  string `json:"spoc_name"`
	SpocEmail string `json:"spoc_email" validate:"omitempty,email"`
	SpocPhone string `json:"spoc_phone"`
	IsActive  *bool  `json:"is_active"`
}

func (h *OfficeHandler) Create(c echo.Context) error {
	companyID, ok := pathID(c, "companyID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}
	var req officeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, companyID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	office := &model.CompanyOffice{
		CompanyID: companyID,
		Name:      strings.TrimSpace(req.Name),
		Address1:  req.Address1,
		Address2:  req.Address2,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		SpocName:  req.SpocName,
		SpocEmail: strings.ToLower(strings.TrimSpace(req.SpocEmail)),
		SpocPhone: req.SpocPhone,
		IsActive:  true,
	}
	if err := h.Offices.Create(ctx, office); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, office)
}

func (h *OfficeHandler) ListByCompany(c echo.Context) error {
	companyID, ok := pathID(c, "companyID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	offices, err := h.Offices.ListByCompany(ctx, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"offices": offices})
}

func (h *OfficeHandler) Update(c echo.Context) error {
	companyID, ok := pathID(c, "companyID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req officeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	office, err := h.Offices.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "office not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if office.CompanyID != companyID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "office not found"})
	}

	office.Name = strings.TrimSpace(req.Name)
	office.Address1 = req.Address1
	office.Address2 = req.Address2
	office.City = req.City
	office.State = req.State
	office.Pincode = req.Pincode
	office.SpocName = req.SpocName
	office.SpocEmail = strings.ToLower(strings.TrimSpace(req.SpocEmail))
	office.SpocPhone = req.SpocPhone
	if req.IsActive != nil {
		office.IsActive = *req.IsActive
	}
	if err := h.Offices.Update(ctx, office); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, office)
}

func (h *OfficeHandler) Delete(c echo.Context) error {
	companyID, ok := pathID(c, "companyID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	office, err := h.Offices.GetByID(ctx, id)
	if err != nil || office.CompanyID != companyID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "office not found"})
	}
	if err := h.Offices.SoftDelete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
