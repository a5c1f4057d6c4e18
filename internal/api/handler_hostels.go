package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allotment-backend/internal/model"
)

type createHostelRequest struct {
	HostelName    string `json:"hostelName" binding:"required"`
	InstitutionID string `json:"institutionId" binding:"required"`
}

// CreateHostel handles POST /api/admin/hostels.
func CreateHostel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createHostelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hostel := model.Hostel{
			ID:            uuid.NewString(),
			Name:          req.HostelName,
			InstitutionID: req.InstitutionID,
		}
		if err := db.Create(&hostel).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create hostel"})
			return
		}
		c.JSON(http.StatusCreated, hostel)
	}
}

// ListHostels handles GET /api/admin/hostels.
func ListHostels(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hostels []model.Hostel
		if err := db.Find(&hostels).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hostels"})
			return
		}
		c.JSON(http.StatusOK, hostels)
	}
}

// DeleteHostel handles DELETE /api/admin/hostels/{hostel_id}.
func DeleteHostel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostelID := c.Param("hostel_id")
		if err := db.Delete(&model.Hostel{}, "id = ?", hostelID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete hostel"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "hostel deleted successfully"})
	}
}

// ListGroups handles GET /api/admin/groups?student_year=N.
func ListGroups(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, err := strconv.Atoi(c.Query("student_year"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid student_year"})
			return
		}

		var groups []model.Group
		if err := db.Preload("Members").Where("student_year = ?", year).Find(&groups).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve groups"})
			return
		}
		c.JSON(http.StatusOK, groups)
	}
}
