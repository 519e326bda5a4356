package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/config"
	"github.com/nivaan/health-booking-admin/internal/model"
	"github.com/nivaan/health-booking-admin/internal/repository"
	"github.com/nivaan/health-booking-admin/internal/utils"
)

// CompanyUserHandler serves staff management of company portal accounts,
// including the offices each account may raise bookings from.
type CompanyUserHandler struct {
	Cfg          config.Config
	CompanyUsers *repository.CompanyUserRepo
	Offices      *repository.OfficeRepo
}

type companyUserReq struct {
	Name      string   `json:"name" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone"`
	Password  string   `json:"password"`
	OfficeIDs []uint64 `json:"office_ids"`
	IsActive  *bool    `json:"is_active"`
}

// checkOffices verifies every assigned office exists and belongs to the
// company the account is scoped to.
func (h *CompanyUserHandler) checkOffices(ctx context.Context, companyID uint64, officeIDs []uint64) bool {
	for _, id := range officeIDs {
		office, err := h.Offices.GetByID(ctx, id)
		if err != nil || office.CompanyID != companyID {
			return false
		}
	}
	return true
}

func (h *CompanyUserHandler) Create(c echo.Context) error {
	companyID, ok := pathID(c, "companyID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}
	var req companyUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if !h.checkOffices(ctx, companyID, req.OfficeIDs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "office not in company"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u := &model.CompanyUser{
		CompanyID:    companyID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
		IsActive:     true,
		OfficeIDs:    req.OfficeIDs,
	}
	if err := h.CompanyUsers.Create(ctx, u); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	u.PasswordHash = ""
	return c.JSON(http.StatusCreated, u)
}

func (h *CompanyUserHandler) ListByCompany(c echo.Context) error {
	companyID, ok := pathID(c, "companyID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.CompanyUsers.ListByCompany(ctx, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (h *CompanyUserHandler) Update(c echo.Context) error {
	companyID, ok := pathID(c, "companyID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req companyUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.CompanyUsers.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.CompanyID != companyID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if !h.checkOffices(ctx, companyID, req.OfficeIDs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "office not in company"})
	}

	u.Name = strings.TrimSpace(req.Name)
	u.Email = strings.ToLower(strings.TrimSpace(req.Email))
	u.Phone = req.Phone
	u.OfficeIDs = req.OfficeIDs
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := h.CompanyUsers.Update(ctx, u); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	u.PasswordHash = ""
	return c.JSON(http.StatusOK, u)
}

func (h *CompanyUserHandler) Delete(c echo.Context) error {
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

	u, err := h.CompanyUsers.GetByID(ctx, id)
	if err != nil || u.CompanyID != companyID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err := h.CompanyUsers.SoftDelete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
