package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hostel-allotment-backend/internal/model"
	"hostel-allotment-backend/internal/store"
)

func newAutoFillRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	handler := NewHandler(store.NewGormStore(db))

	r := gin.New()
	r.POST("/auto-fill", handler.AutoFill)
	return r, db
}

func postAutoFill(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auto-fill", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAutoFill(t *testing.T) {
	r, db := newAutoFillRouter(t)

	require.NoError(t, db.Create(&model.Hostel{ID: "h1", Name: "north wing", InstitutionID: "inst1"}).Error)

	base := time.Now().Add(-time.Hour)
	rooms := []model.Room{
		{ID: "r1", HostelID: "h1", Name: "101", Capacity: 2, CreatedAt: base},
		{ID: "r2", HostelID: "h1", Name: "102", Capacity: 3, CreatedAt: base.Add(time.Minute)},
	}
	require.NoError(t, db.Create(&rooms).Error)

	// Second-year applicants are the students currently in year 1.
	students := []model.Student{
		{ID: "stu1", Username: "u1", InstitutionID: "inst1", CurrentYear: 1, CreatedAt: base},
		{ID: "stu2", Username: "u2", InstitutionID: "inst1", CurrentYear: 1, CreatedAt: base.Add(time.Minute)},
		{ID: "stu3", Username: "u3", InstitutionID: "inst1", CurrentYear: 1, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "stu4", Username: "u4", InstitutionID: "inst1", CurrentYear: 1, CreatedAt: base.Add(3 * time.Minute)},
	}
	require.NoError(t, db.Create(&students).Error)

	members := []model.GroupMember{
		{ID: "gm1", GroupID: "g1", StudentID: "stu3", IsGroupAdmin: true},
		{ID: "gm2", GroupID: "g1", StudentID: "stu4"},
	}
	require.NoError(t, db.Create(&members).Error)

	w := postAutoFill(t, r, gin.H{"hostelId": "h1", "forStudentYear": 2, "institutionId": "inst1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message  string `json:"message"`
		Assigned int    `json:"assigned"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Assigned)

	var rows []model.AllottedRoom
	require.NoError(t, db.Order("student_id").Find(&rows).Error)
	require.Len(t, rows, 4)

	byStudent := make(map[string]string, len(rows))
	for _, row := range rows {
		assert.Equal(t, "h1", row.HostelID)
		assert.Equal(t, "inst1", row.InstitutionID)
		byStudent[row.StudentID] = row.RoomID
	}

	// The group of two lands whole in the first room that fits it; the
	// ungrouped pair fills the remaining capacity.
	assert.Equal(t, byStudent["stu3"], byStudent["stu4"])
	assert.Len(t, byStudent, 4)
}

func TestAutoFill_Idempotent(t *testing.T) {
	r, db := newAutoFillRouter(t)

	require.NoError(t, db.Create(&model.Hostel{ID: "h1", Name: "north wing", InstitutionID: "inst1"}).Error)
	require.NoError(t, db.Create(&model.Room{ID: "r1", HostelID: "h1", Name: "101", Capacity: 2}).Error)
	require.NoError(t, db.Create(&model.Student{ID: "stu1", Username: "u1", InstitutionID: "inst1", CurrentYear: 1}).Error)

	w := postAutoFill(t, r, gin.H{"hostelId": "h1", "forStudentYear": 2, "institutionId": "inst1"})
	require.Equal(t, http.StatusOK, w.Code)

	// A second run finds no unassigned students and writes nothing new.
	w = postAutoFill(t, r, gin.H{"hostelId": "h1", "forStudentYear": 2, "institutionId": "inst1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Assigned int `json:"assigned"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Assigned)

	var count int64
	require.NoError(t, db.Model(&model.AllottedRoom{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAutoFill_BadRequest(t *testing.T) {
	r, _ := newAutoFillRouter(t)

	w := postAutoFill(t, r, gin.H{"hostelId": "h1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
