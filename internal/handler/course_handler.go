package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// CourseHandler exposes the course management routes.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler creates an instance of CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List returns courses, defaulting to non-archived rows when no archive
// filter is supplied.
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{Search: c.Query("search")}

	isArchived, ok := queryBool(c, "isArchived")
	if !ok {
		return
	}
	filter.IsArchived = isArchived

	if raw := c.Query("department"); raw != "" {
		filter.Department = &raw
	}

	courses, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, "Courses retrieved successfully", len(courses), courses)
}

// Get returns one course by ID.
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := requireID(c, "Invalid course ID format")
	if !ok {
		return
	}

	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Course fetched successfully!", course)
}

// Create adds a new course.
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := decodeStrict(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Course created successfully!", course)
}

// Update merges the supplied fields into a course.
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := requireID(c, "Invalid course ID format")
	if !ok {
		return
	}

	var req service.UpdateCourseRequest
	if err := decodeStrict(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	course, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Course updated successfully!", course)
}

// ToggleArchive flips the course's archived flag.
func (h *CourseHandler) ToggleArchive(c *gin.Context) {
	id, ok := requireID(c, "Invalid course ID format")
	if !ok {
		return
	}

	course, err := h.courses.ToggleArchive(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Course successfully unarchived!"
	if course.IsArchived {
		message = "Course successfully archived!"
	}
	response.JSON(c, http.StatusOK, message, course)
}
