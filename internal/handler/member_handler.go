package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/oid"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// MemberHandler exposes the room membership routes.
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler creates an instance of MemberHandler.
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// List returns memberships filtered by room, account and status.
func (h *MemberHandler) List(c *gin.Context) {
	filter := models.MemberFilter{}

	if raw := c.Query("roomId"); raw != "" {
		if !oid.IsValid(raw) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Invalid room ID format"))
			return
		}
		filter.RoomID = raw
	}
	if raw := c.Query("accountId"); raw != "" {
		if !oid.IsValid(raw) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Invalid account ID format"))
			return
		}
		filter.AccountID = raw
	}
	if raw := c.Query("status"); raw != "" {
		status := models.MemberStatus(raw)
		filter.Status = &status
	}

	members, err := h.members.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := fmt.Sprintf("%d room member(s) retrieved successfully!", len(members))
	response.List(c, message, len(members), members)
}

// Get returns one membership by ID with the member account joined in.
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := requireID(c, "Invalid Room Member ID format")
	if !ok {
		return
	}

	member, err := h.members.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Room member retrieved successfully!", member)
}

// Add joins an account to a room, reactivating a previous membership
// for the same pair when one exists.
func (h *MemberHandler) Add(c *gin.Context) {
	var req service.AddMemberRequest
	if err := decodeStrict(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	member, rejoined, err := h.members.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if rejoined {
		response.JSON(c, http.StatusOK, "Account successfully re-joined the room!", member)
		return
	}
	response.Created(c, "Room member created successfully!", member)
}

// Remove soft-removes a membership.
func (h *MemberHandler) Remove(c *gin.Context) {
	id, ok := requireID(c, "Invalid Room Member ID format")
	if !ok {
		return
	}

	member, err := h.members.Remove(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Account successfully removed from the room.", member)
}
