package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allotment-backend/internal/model"
)

type addRoomsRequest struct {
	Rooms []struct {
		RoomName string `json:"roomName" binding:"required"`
		Capacity int    `json:"capacity" binding:"required,gt=0"`
	} `json:"rooms" binding:"required,min=1,dive"`
}

// AddRooms handles POST /api/admin/hostels/{hostel_id}/rooms.
func AddRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostelID := c.Param("hostel_id")

		var req addRoomsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rooms := make([]model.Room, len(req.Rooms))
		for i, r := range req.Rooms {
			rooms[i] = model.Room{
				ID:       uuid.NewString(),
				HostelID: hostelID,
				Name:     r.RoomName,
				Capacity: r.Capacity,
			}
		}
		if err := db.Create(&rooms).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rooms"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("Created %d rooms successfully.", len(rooms))})
	}
}

type updateRoomRequest struct {
	RoomName string `json:"roomName" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
}

// UpdateRoom handles PUT /api/admin/rooms/{room_id}.
func UpdateRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("room_id")

		var req updateRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res := db.Model(&model.Room{}).Where("id = ?", roomID).
			Updates(map[string]interface{}{"name": req.RoomName, "capacity": req.Capacity})
		if res.Error != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
			return
		}
		if res.RowsAffected == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "room updated successfully"})
	}
}

// DeleteRoom handles DELETE /api/admin/rooms/{room_id}.
func DeleteRoom(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("room_id")
		if err := db.Delete(&model.Room{}, "id = ?", roomID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "room deleted successfully"})
	}
}

// DeleteHostelRooms handles DELETE /api/admin/hostels/{hostel_id}/rooms.
func DeleteHostelRooms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostelID := c.Param("hostel_id")
		if err := db.Where("hostel_id = ?", hostelID).Delete(&model.Room{}).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rooms"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "rooms deleted successfully"})
	}
}
