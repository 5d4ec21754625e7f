package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"api/database"
	"api/models"

	"gorm.io/gorm"
)

// EntryInput describes one submission in a bulk add
type EntryInput struct {
	EntryName   string `json:"entry_name" binding:"required"`
	Description string `json:"description"`
}

// GetEntry fetches a live entry by id
func GetEntry(id string) (*models.CompetitionEntry, error) {
	var entry models.CompetitionEntry
	err := database.DB.Scopes(models.Live).Preload("Contestant").First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("作品不存在: " + id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	return &entry, nil
}

// GetCompetitionEntries returns the live entries of a competition in display order
func GetCompetitionEntries(competitionID string) ([]models.CompetitionEntry, error) {
	if _, err := GetCompetition(competitionID); err != nil {
		return nil, err
	}

	var entries []models.CompetitionEntry
	err := database.DB.Scopes(models.Live).
		Where("competition_id = ?", competitionID).
		Preload("Contestant").
		Order("display_order").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	return entries, nil
}

// SubmitEntry stores a contestant's submission against an accepting competition.
// The entry starts PENDING and receives the next display order.
func SubmitEntry(competitionID, entryName, description string, file *multipart.FileHeader, submitterID string) (*models.CompetitionEntry, error) {
	competition, err := GetCompetition(competitionID)
	if err != nil {
		return nil, err
	}
	if err := checkAcceptsSubmissions(competition); err != nil {
		return nil, err
	}
	contestant, err := GetUserByID(submitterID)
	if err != nil {
		return nil, err
	}

	fileRef := ""
	if file != nil {
		fileRef, err = Files.Store(file)
		if err != nil {
			return nil, fmt.Errorf("failed to store entry file: %w", err)
		}
	}

	entry := models.CompetitionEntry{
		CompetitionID: competitionID,
		EntryName:     entryName,
		Description:   description,
		FilePath:      fileRef,
		DisplayOrder:  nextDisplayOrder(database.DB, competitionID),
		Status:        models.EntryStatusPending,
		ContestantID:  &contestant.ID,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return &entry, nil
}

// AddEntriesBulk is the creator/admin path for adding several entries at once,
// pairing entries positionally with an optional file list
func AddEntriesBulk(competitionID string, inputs []EntryInput, files []*multipart.FileHeader, requesterID string, isAdmin bool) ([]string, error) {
	competition, err := GetCompetition(competitionID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && competition.CreatorID != requesterID {
		return nil, Forbidden("只有赛事创建者可以添加参赛作品")
	}
	if err := checkAcceptsSubmissions(competition); err != nil {
		return nil, err
	}

	order := nextDisplayOrder(database.DB, competitionID)
	var entryIDs []string

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for i, input := range inputs {
			fileRef := ""
			if i < len(files) && files[i] != nil {
				ref, err := Files.Store(files[i])
				if err != nil {
					return fmt.Errorf("failed to store file for entry %s: %w", input.EntryName, err)
				}
				fileRef = ref
			}

			entry := models.CompetitionEntry{
				CompetitionID: competitionID,
				EntryName:     input.EntryName,
				Description:   input.Description,
				FilePath:      fileRef,
				DisplayOrder:  order + i,
				Status:        models.EntryStatusPending,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to create entry %s: %w", input.EntryName, err)
			}
			entryIDs = append(entryIDs, entry.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entryIDs, nil
}

// UpdateEntryStatus sets an entry's moderation status directly. Any of the
// three statuses may be set from any other; ratability follows immediately.
func UpdateEntryStatus(entryID, status string) error {
	entry, err := GetEntry(entryID)
	if err != nil {
		return err
	}
	if !models.ValidEntryStatus(status) {
		return InvalidArgument("无效的状态值: " + status)
	}

	if err := database.DB.Model(entry).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	return nil
}

// UpdateEntry updates an entry's name, description and optionally replaces its
// file. Only the owning contestant or an admin may update.
func UpdateEntry(entryID, entryName, description string, file *multipart.FileHeader, userID string, isAdmin bool) error {
	entry, err := GetEntry(entryID)
	if err != nil {
		return err
	}
	if !isAdmin && (entry.ContestantID == nil || *entry.ContestantID != userID) {
		return Forbidden("没有权限修改此作品")
	}

	updates := map[string]interface{}{}
	if entryName != "" {
		updates["entry_name"] = entryName
	}
	if description != "" {
		updates["description"] = description
	}

	if file != nil {
		if entry.FilePath != "" {
			Files.Delete(entry.FilePath)
		}
		ref, err := Files.Store(file)
		if err != nil {
			return fmt.Errorf("failed to store entry file: %w", err)
		}
		updates["file_path"] = ref
	}

	if len(updates) == 0 {
		return nil
	}
	if err := database.DB.Model(entry).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

// DeleteEntry soft-deletes an entry and removes its stored file. Only the
// owning contestant or an admin may delete.
func DeleteEntry(entryID, userID string, isAdmin bool) error {
	entry, err := GetEntry(entryID)
	if err != nil {
		return err
	}
	if !isAdmin && (entry.ContestantID == nil || *entry.ContestantID != userID) {
		return Forbidden("没有权限删除此作品")
	}

	now := time.Now()
	if err := database.DB.Model(entry).Update("deleted_at", &now).Error; err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if entry.FilePath != "" {
		Files.Delete(entry.FilePath)
	}
	return nil
}

// checkAcceptsSubmissions fails closed with a distinct message for an ended
// competition versus a passed deadline
func checkAcceptsSubmissions(competition *models.Competition) error {
	if competition.CanAcceptSubmissions() {
		return nil
	}
	if competition.IsEnded() {
		return InvalidArgument("赛事已结束，无法提交参赛作品")
	}
	return InvalidArgument("赛事截止时间已过，无法提交参赛作品")
}

// nextDisplayOrder assigns entries a monotonically increasing order per
// competition, starting at 1. Soft-deleted entries keep their slot.
func nextDisplayOrder(db *gorm.DB, competitionID string) int {
	var max *int
	db.Model(&models.CompetitionEntry{}).
		Where("competition_id = ?", competitionID).
		Select("MAX(display_order)").
		Scan(&max)
	if max == nil {
		return 1
	}
	return *max + 1
}
