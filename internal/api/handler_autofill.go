package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hostel-allotment-backend/internal/model"
	"hostel-allotment-backend/internal/planner"
)

type autoFillRequest struct {
	HostelID       string `json:"hostelId" binding:"required"`
	ForStudentYear int    `json:"forStudentYear" binding:"required"`
	InstitutionID  string `json:"institutionId" binding:"required"`
}

// AutoFill handles POST /api/admin/rooms/auto-fill: the batch assignment of
// unassigned groups and students to a hostel's free capacity. Safe to call
// repeatedly; already-allotted rooms and students are excluded from each run.
func (h *Handler) AutoFill(c *gin.Context) {
	var req autoFillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	occupancies, err := h.store.HostelRooms(ctx, req.HostelID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	// Applicants for year N are the students currently in year N-1.
	students, err := h.store.UnassignedStudents(ctx, req.InstitutionID, req.ForStudentYear-1)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve students"})
		return
	}

	rooms := make([]planner.Room, len(occupancies))
	for i, o := range occupancies {
		rooms[i] = planner.Room{ID: o.Room.ID, Capacity: o.Room.Capacity, Occupants: o.Occupants}
	}
	applicants := make([]planner.Student, len(students))
	for i, s := range students {
		applicants[i] = planner.Student{ID: s.StudentID, GroupID: s.GroupID}
	}

	plan := planner.Plan(rooms, applicants)

	rows := make([]model.AllottedRoom, len(plan))
	for i, a := range plan {
		rows[i] = model.AllottedRoom{
			ID:            uuid.NewString(),
			HostelID:      req.HostelID,
			RoomID:        a.RoomID,
			StudentID:     a.StudentID,
			InstitutionID: req.InstitutionID,
		}
	}
	if err := h.store.CreateAllotments(ctx, rows); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save allotments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Room allocation completed successfully.",
		"assigned": len(rows),
	})
}
