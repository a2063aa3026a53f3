package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// RoomHandler exposes the room management routes.
type RoomHandler struct {
	rooms *service.RoomService
}

// NewRoomHandler creates an instance of RoomHandler.
func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List returns rooms filtered by class section, flags and search.
func (h *RoomHandler) List(c *gin.Context) {
	filter := models.RoomFilter{
		ClassSection: c.Query("classSection"),
		Search:       c.Query("search"),
	}

	isActive, ok := queryBool(c, "isActive")
	if !ok {
		return
	}
	filter.IsActive = isActive

	isArchived, ok := queryBool(c, "isArchived")
	if !ok {
		return
	}
	filter.IsArchived = isArchived

	rooms, err := h.rooms.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, "Rooms retrieved successfully", len(rooms), rooms)
}

// Get returns one room by ID with its course and creator summary.
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := requireID(c, "Invalid room ID format")
	if !ok {
		return
	}

	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Room fetched successfully!", room)
}

// Create adds a new room.
func (h *RoomHandler) Create(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := decodeStrict(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Room created successfully!", room)
}

// Update merges the supplied fields into a room.
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := requireID(c, "Invalid room ID format")
	if !ok {
		return
	}

	var req service.UpdateRoomRequest
	if err := decodeStrict(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	room, err := h.rooms.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Room updated successfully!", room)
}

// ToggleArchive flips the room's archived flag together with its
// activity side effects.
func (h *RoomHandler) ToggleArchive(c *gin.Context) {
	id, ok := requireID(c, "Invalid room ID format")
	if !ok {
		return
	}

	room, err := h.rooms.ToggleArchive(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Room successfully unarchived!"
	if room.IsArchived {
		message = "Room successfully archived!"
	}
	response.JSON(c, http.StatusOK, message, room)
}
