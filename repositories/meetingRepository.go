package repositories

import (
	"MediPortal/cache"
	"MediPortal/database"
	"MediPortal/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

const (
	MeetingCacheExpiry = 5 * time.Minute
	meetingsCacheKey   = "meetings_cache"
)

type MeetingRepository struct {
	cache *cache.Cache
}

func NewMeetingRepository(cache *cache.Cache) *MeetingRepository {
	return &MeetingRepository{cache: cache}
}

func meetingToRow(m models.MedicalBoardMeeting) models.BoardMeetingRow {
	return models.BoardMeetingRow{
		ID:           m.ID,
		Title:        m.Title,
		MeetingDate:  m.Date,
		MeetingTime:  m.Time,
		Specialty:    m.Specialty,
		Participants: models.StringList(m.Participants),
	}
}

func rowToMeeting(row models.BoardMeetingRow) models.MedicalBoardMeeting {
	return models.MedicalBoardMeeting{
		ID:           row.ID,
		Title:        row.Title,
		Date:         row.MeetingDate,
		Time:         row.MeetingTime,
		Specialty:    row.Specialty,
		Participants: []string(row.Participants),
	}
}

// GetAll returns every board meeting.
func (r *MeetingRepository) GetAll(ctx context.Context) ([]models.MedicalBoardMeeting, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cached []models.MedicalBoardMeeting
	if err := r.cache.GetJSON(ctx, meetingsCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get board meetings from cache: %v", err)
	}

	var rows []models.BoardMeetingRow
	if err := database.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get board meetings: %w", err)
	}

	meetings := make([]models.MedicalBoardMeeting, 0, len(rows))
	for _, row := range rows {
		meetings = append(meetings, rowToMeeting(row))
	}

	if err := r.cache.SetJSON(ctx, meetingsCacheKey, meetings, MeetingCacheExpiry); err != nil {
		log.Printf("Failed to set board meetings in cache: %v", err)
	}
	return meetings, nil
}

// Create inserts a new board meeting.
func (r *MeetingRepository) Create(ctx context.Context, m models.MedicalBoardMeeting) error {
	row := meetingToRow(m)
	if err := database.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create board meeting: %w", err)
	}
	return r.cache.Delete(ctx, meetingsCacheKey)
}

// Delete removes a meeting by identifier.
func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	if err := database.DB.WithContext(ctx).Delete(&models.BoardMeetingRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete board meeting: %w", err)
	}
	return r.cache.Delete(ctx, meetingsCacheKey)
}
