package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allotment-backend/internal/model"
)

// Store defines the interface for all database operations the engine and
// the auto-fill flow depend on.
type Store interface {
	DB() *gorm.DB

	IsAdmin(ctx context.Context, userID string) (bool, error)
	AdminOwnsHostel(ctx context.Context, adminID, hostelID string) (bool, error)

	RoomAllotted(ctx context.Context, hostelID, roomID string) (bool, error)
	AllotRoom(ctx context.Context, hostelID, roomID string, studentIDs []string) error

	HostelRooms(ctx context.Context, hostelID string) ([]RoomOccupancy, error)
	UnassignedStudents(ctx context.Context, institutionID string, currentYear int) ([]UnassignedStudent, error)
	CreateAllotments(ctx context.Context, rows []model.AllottedRoom) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// IsAdmin reports whether the user id belongs to an operator account.
func (s *gormStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up admin %s: %w", userID, err)
	}
	return count > 0, nil
}

// AdminOwnsHostel reports whether the admin's institution owns the hostel.
func (s *gormStore) AdminOwnsHostel(ctx context.Context, adminID, hostelID string) (bool, error) {
	var admin model.Admin
	err := s.db.WithContext(ctx).First(&admin, "id = ?", adminID).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up admin %s: %w", adminID, err)
	}

	var count int64
	err = s.db.WithContext(ctx).
		Model(&model.Hostel{}).
		Where("id = ? AND institution_id = ?", hostelID, admin.InstitutionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up hostel %s: %w", hostelID, err)
	}
	return count > 0, nil
}

// RoomAllotted reports whether any allotment exists for the room in the
// hostel. This is the de-duplication guard against double booking.
func (s *gormStore) RoomAllotted(ctx context.Context, hostelID, roomID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.AllottedRoom{}).
		Where("hostel_id = ? AND room_id = ?", hostelID, roomID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check allotment for room %s: %w", roomID, err)
	}
	return count > 0, nil
}

// AllotRoom assigns the room to every listed student in one transaction.
// Either the whole group commits or nothing does; a failure leaves no
// partial assignment observable.
func (s *gormStore) AllotRoom(ctx context.Context, hostelID, roomID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hostel model.Hostel
		if err := tx.First(&hostel, "id = ?", hostelID).Error; err != nil {
			return fmt.Errorf("failed to load hostel %s: %w", hostelID, err)
		}

		// Re-check the double-booking guard inside the transaction.
		var count int64
		if err := tx.Model(&model.AllottedRoom{}).
			Where("hostel_id = ? AND room_id = ?", hostelID, roomID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to re-check room %s: %w", roomID, err)
		}
		if count > 0 {
			return fmt.Errorf("room %s already allotted in hostel %s", roomID, hostelID)
		}

		rows := make([]model.AllottedRoom, len(studentIDs))
		for i, studentID := range studentIDs {
			rows[i] = model.AllottedRoom{
				ID:            uuid.NewString(),
				HostelID:      hostelID,
				RoomID:        roomID,
				StudentID:     studentID,
				InstitutionID: hostel.InstitutionID,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to create allotments for room %s: %w", roomID, err)
		}
		return nil
	})
}

// HostelRooms returns every room of the hostel with its occupant count, in
// creation order.
func (s *gormStore) HostelRooms(ctx context.Context, hostelID string) ([]RoomOccupancy, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).
		Where("hostel_id = ?", hostelID).
		Order("created_at, id").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms for hostel %s: %w", hostelID, err)
	}

	type aggRow struct {
		RoomID    string
		Occupants int
	}
	var aggs []aggRow
	err = s.db.WithContext(ctx).
		Model(&model.AllottedRoom{}).
		Select("room_id as room_id, COUNT(*) as occupants").
		Where("hostel_id = ?", hostelID).
		Group("room_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate allotments for hostel %s: %w", hostelID, err)
	}

	aggMap := make(map[string]int, len(aggs))
	for _, a := range aggs {
		aggMap[a.RoomID] = a.Occupants
	}

	out := make([]RoomOccupancy, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomOccupancy{Room: r, Occupants: aggMap[r.ID]})
	}
	return out, nil
}

// UnassignedStudents lists students of the institution and year who have no
// room yet, with their group link if any, in signup order.
func (s *gormStore) UnassignedStudents(ctx context.Context, institutionID string, currentYear int) ([]UnassignedStudent, error) {
	var rows []UnassignedStudent
	err := s.db.WithContext(ctx).
		Table("students").
		Select("students.id as student_id, COALESCE(group_members.group_id, '') as group_id").
		Joins("LEFT JOIN allotted_rooms ON allotted_rooms.student_id = students.id").
		Joins("LEFT JOIN group_members ON group_members.student_id = students.id").
		Where("allotted_rooms.id IS NULL AND students.institution_id = ? AND students.current_year = ?", institutionID, currentYear).
		Order("students.created_at, students.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve unassigned students: %w", err)
	}
	return rows, nil
}

// CreateAllotments writes a batch of planner assignments transactionally.
func (s *gormStore) CreateAllotments(ctx context.Context, rows []model.AllottedRoom) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to create %d allotments: %w", len(rows), err)
		}
		return nil
	})
}
