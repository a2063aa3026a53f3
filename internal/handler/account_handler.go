package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// AccountHandler exposes the account management routes.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler creates an instance of AccountHandler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// List returns accounts filtered by role, status and free-text search.
func (h *AccountHandler) List(c *gin.Context) {
	filter := models.AccountFilter{Search: c.Query("search")}
	if raw := c.Query("role"); raw != "" {
		role := models.AccountRole(raw)
		filter.Role = &role
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AccountStatus(raw)
		filter.Status = &status
	}

	accounts, err := h.accounts.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, "Accounts retrieved successfully", len(accounts), accounts)
}

// Get returns one account by ID.
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := requireID(c, "Invalid account ID format")
	if !ok {
		return
	}

	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Account retrieved successfully", account)
}

// Create adds a new account.
func (h *AccountHandler) Create(c *gin.Context) {
	var req service.CreateAccountRequest
	if err := decodeStrict(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Account created successfully!", account)
}

// Update merges the supplied fields into an account.
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := requireID(c, "Invalid account ID format")
	if !ok {
		return
	}

	var req service.UpdateAccountRequest
	if err := decodeStrict(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.accounts.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Account updated successfully", account)
}

// Archive marks an account Archived.
func (h *AccountHandler) Archive(c *gin.Context) {
	id, ok := requireID(c, "Invalid account ID format")
	if !ok {
		return
	}

	account, err := h.accounts.Archive(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Account archived successfully", account)
}
