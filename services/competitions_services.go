package services

import (
	"errors"
	"fmt"
	"time"

	"api/database"
	"api/models"

	"gorm.io/gorm"
)

// GetCompetition fetches a live competition by id
func GetCompetition(id string) (*models.Competition, error) {
	var competition models.Competition
	err := database.DB.Scopes(models.Live).First(&competition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("赛事不存在: " + id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competition: %w", err)
	}
	return &competition, nil
}

// GetCompetitionWithDetails fetches a live competition with its model, creator,
// judges and entries nested for the competition view
func GetCompetitionWithDetails(id string) (*models.Competition, error) {
	var competition models.Competition
	err := database.DB.Scopes(models.Live).
		Preload("Model.Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		Preload("Creator").
		Preload("Judges.Judge").
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted_at IS NULL").Order("display_order")
		}).
		Preload("Entries.Contestant").
		First(&competition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("赛事不存在: " + id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competition: %w", err)
	}
	return &competition, nil
}

// GetAllCompetitions returns every live competition, newest first
func GetAllCompetitions() ([]models.Competition, error) {
	var list []models.Competition
	err := database.DB.Scopes(models.Live).
		Preload("Model").
		Preload("Creator").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitions: %w", err)
	}
	return list, nil
}

// GetCompetitionsByCreator returns the live competitions created by a user, newest first
func GetCompetitionsByCreator(creatorID string) ([]models.Competition, error) {
	var list []models.Competition
	err := database.DB.Scopes(models.Live).
		Where("creator_id = ?", creatorID).
		Preload("Model").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitions: %w", err)
	}
	return list, nil
}

// GetCompetitionsByJudge returns the live competitions a user is assigned to judge
func GetCompetitionsByJudge(judgeID string) ([]models.Competition, error) {
	var list []models.Competition
	err := database.DB.
		Joins("JOIN competition_judges cj ON cj.competition_id = competitions.id").
		Where("cj.judge_id = ? AND competitions.deleted_at IS NULL", judgeID).
		Preload("Model").
		Order("competitions.created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitions: %w", err)
	}
	return list, nil
}

// CreateCompetition creates a competition in ACTIVE status against an existing
// evaluation model. The creator is automatically assigned as a judge; extra
// judge ids are assigned in the same transaction, with duplicates skipped and
// unknown users failing the whole call.
func CreateCompetition(name, description, modelID string, deadline time.Time, judgeIDs []string, creatorID string) (*models.Competition, error) {
	if _, err := GetModelByID(modelID); err != nil {
		return nil, err
	}
	if _, err := GetUserByID(creatorID); err != nil {
		return nil, err
	}
	if !deadline.After(time.Now()) {
		return nil, InvalidArgument("截止时间必须在未来")
	}

	competition := models.Competition{
		Name:        name,
		Description: description,
		ModelID:     modelID,
		CreatorID:   creatorID,
		Deadline:    deadline,
		Status:      models.CompetitionStatusActive,
	}

	ids := append([]string{creatorID}, judgeIDs...)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&competition).Error; err != nil {
			return fmt.Errorf("failed to create competition: %w", err)
		}
		return addJudges(tx, competition.ID, ids)
	})
	if err != nil {
		return nil, err
	}

	return GetCompetitionWithDetails(competition.ID)
}

// UpdateCompetition updates name, description, model reference and deadline.
// Only the creator may update; the deadline is re-validated and a changed
// model reference must point at an existing model.
func UpdateCompetition(id, name, description, modelID string, deadline time.Time, requesterID string) (*models.Competition, error) {
	competition, err := GetCompetition(id)
	if err != nil {
		return nil, err
	}
	if competition.CreatorID != requesterID {
		return nil, Forbidden("只有赛事创建者可以修改赛事")
	}
	if modelID != competition.ModelID {
		if _, err := GetModelByID(modelID); err != nil {
			return nil, err
		}
	}
	if !deadline.After(time.Now()) {
		return nil, InvalidArgument("截止时间必须在未来")
	}

	updates := map[string]interface{}{
		"name":        name,
		"description": description,
		"model_id":    modelID,
		"deadline":    deadline,
	}
	if err := database.DB.Model(competition).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update competition: %w", err)
	}

	return GetCompetitionWithDetails(id)
}

// DeleteCompetition soft-deletes a competition and cascades over everything it
// owns in one transaction, in dependency order: ratings, entries, judges, then
// the competition itself. Stored entry files are removed after commit.
func DeleteCompetition(id, requesterID string) error {
	competition, err := GetCompetition(id)
	if err != nil {
		return err
	}
	if competition.CreatorID != requesterID {
		return Forbidden("只有赛事创建者可以删除赛事")
	}

	var fileRefs []string
	database.DB.Model(&models.CompetitionEntry{}).
		Where("competition_id = ? AND deleted_at IS NULL AND file_path <> ''", id).
		Pluck("file_path", &fileRefs)

	now := time.Now()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Rating{}).
			Where("competition_id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", &now).Error; err != nil {
			return fmt.Errorf("failed to delete ratings: %w", err)
		}
		if err := tx.Model(&models.CompetitionEntry{}).
			Where("competition_id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", &now).Error; err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
		if err := tx.Where("competition_id = ?", id).
			Delete(&models.CompetitionJudge{}).Error; err != nil {
			return fmt.Errorf("failed to delete judges: %w", err)
		}
		if err := tx.Model(competition).Update("deleted_at", &now).Error; err != nil {
			return fmt.Errorf("failed to delete competition: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ref := range fileRefs {
		Files.Delete(ref)
	}
	return nil
}

// AddJudges assigns users as judges of a competition. Already-assigned users
// are silently skipped; an unknown user id fails the whole call.
func AddJudges(competitionID string, judgeIDs []string) error {
	if _, err := GetCompetition(competitionID); err != nil {
		return err
	}
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return addJudges(tx, competitionID, judgeIDs)
	})
}

// RemoveJudge removes a judge assignment. Only the competition creator may remove judges.
func RemoveJudge(competitionID, judgeID, requesterID string) error {
	competition, err := GetCompetition(competitionID)
	if err != nil {
		return err
	}
	if competition.CreatorID != requesterID {
		return Forbidden("只有赛事创建者可以移除评委")
	}

	if err := database.DB.
		Where("competition_id = ? AND judge_id = ?", competitionID, judgeID).
		Delete(&models.CompetitionJudge{}).Error; err != nil {
		return fmt.Errorf("failed to remove judge: %w", err)
	}
	return nil
}

// CompetitionExists reports whether a live competition with this id exists
func CompetitionExists(id string) bool {
	var count int64
	database.DB.Model(&models.Competition{}).Scopes(models.Live).
		Where("id = ?", id).Count(&count)
	return count > 0
}

// IsJudgeAssigned reports whether a user has an explicit judge assignment row
func IsJudgeAssigned(competitionID, judgeID string) bool {
	var count int64
	database.DB.Model(&models.CompetitionJudge{}).
		Where("competition_id = ? AND judge_id = ?", competitionID, judgeID).
		Count(&count)
	return count > 0
}

func addJudges(tx *gorm.DB, competitionID string, judgeIDs []string) error {
	for _, judgeID := range judgeIDs {
		var user models.User
		err := tx.Scopes(models.Live).First(&user, "id = ?", judgeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("用户不存在: " + judgeID)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch user: %w", err)
		}

		var count int64
		tx.Model(&models.CompetitionJudge{}).
			Where("competition_id = ? AND judge_id = ?", competitionID, judgeID).
			Count(&count)
		if count > 0 {
			continue
		}

		judge := models.CompetitionJudge{CompetitionID: competitionID, JudgeID: judgeID}
		if err := tx.Create(&judge).Error; err != nil {
			return fmt.Errorf("failed to assign judge %s: %w", judgeID, err)
		}
	}
	return nil
}
