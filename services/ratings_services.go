package services

import (
	"errors"
	"fmt"
	"time"

	"api/database"
	"api/models"

	"gorm.io/gorm"
)

// ScoreInput is one judge score for one parameter
type ScoreInput struct {
	ParameterID string  `json:"parameter_id" binding:"required"`
	Score       float64 `json:"score"`
}

// ScoreView is one scored parameter inside a RatingView
type ScoreView struct {
	ParameterID   string  `json:"parameter_id"`
	ParameterName string  `json:"parameter_name"`
	Weight        int     `json:"weight"`
	Score         float64 `json:"score"`
}

// RatingView is one judge's full rating set for one entry
type RatingView struct {
	CompetitionID string      `json:"competition_id"`
	EntryID       string      `json:"entry_id"`
	EntryName     string      `json:"entry_name"`
	JudgeID       string      `json:"judge_id"`
	JudgeName     string      `json:"judge_name"`
	Scores        []ScoreView `json:"scores"`
	Note          string      `json:"note"`
	SubmittedAt   time.Time   `json:"submitted_at"`
}

// SubmitRating records a judge's scores for every parameter of an entry's
// evaluation model. The whole batch persists atomically; a resubmission
// overwrites the existing (entry, judge, parameter) rows in place. All rows of
// one submission share the same note and timestamp.
func SubmitRating(competitionID, entryID, judgeID string, scores []ScoreInput, note string) (*RatingView, error) {
	// Step 1: The competition must be accepting ratings, with a distinct
	// reason for a passed deadline versus an ended status
	competition, err := GetCompetition(competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.CanAcceptRatings() {
		if competition.IsDeadlinePassed() {
			return nil, IllegalState("赛事已截止，无法提交评分")
		}
		return nil, IllegalState("赛事已结束，无法提交评分")
	}

	// Step 2: The entry must belong to the competition and be approved
	entry, err := GetEntry(entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompetitionID != competitionID {
		return nil, InvalidArgument("参赛作品不属于指定赛事")
	}
	if !entry.IsApproved() {
		return nil, IllegalState("只能为已审核通过的作品评分")
	}

	// Step 3: The judge must hold an assignment row or the admin role
	judge, err := GetUserByID(judgeID)
	if err != nil {
		return nil, err
	}
	if !judge.IsAdmin && !IsJudgeAssigned(competitionID, judgeID) {
		return nil, Forbidden("您不是该赛事的评委")
	}

	// Step 4: The score set must cover every parameter of the model
	parameters, err := getModelParameters(competition.ModelID)
	if err != nil {
		return nil, err
	}
	scoreMap := make(map[string]float64, len(scores))
	for _, s := range scores {
		scoreMap[s.ParameterID] = s.Score
	}
	for _, parameter := range parameters {
		if _, ok := scoreMap[parameter.ID]; !ok {
			return nil, InvalidArgument("必须为所有评价参数评分：" + parameter.Name)
		}
	}

	// Step 5: Every score is bounded by its parameter's weight
	for _, parameter := range parameters {
		score := scoreMap[parameter.ID]
		if score < 0 || score > float64(parameter.Weight) {
			return nil, InvalidArgument(fmt.Sprintf("参数 %s 的评分必须在 0 到 %d 之间", parameter.Name, parameter.Weight))
		}
	}

	// Step 6+7: Upsert one row per parameter inside a single transaction
	now := time.Now()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, parameter := range parameters {
			var existing models.Rating
			err := tx.Where("entry_id = ? AND judge_id = ? AND parameter_id = ? AND deleted_at IS NULL",
				entryID, judgeID, parameter.ID).First(&existing).Error
			switch {
			case err == nil:
				updates := map[string]interface{}{
					"score":        scoreMap[parameter.ID],
					"note":         note,
					"submitted_at": now,
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update rating: %w", err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				rating := models.Rating{
					CompetitionID: competitionID,
					EntryID:       entryID,
					JudgeID:       judgeID,
					ParameterID:   parameter.ID,
					Score:         scoreMap[parameter.ID],
					Note:          note,
					SubmittedAt:   now,
				}
				if err := tx.Create(&rating).Error; err != nil {
					return fmt.Errorf("failed to create rating: %w", err)
				}
			default:
				return fmt.Errorf("failed to look up rating: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	views, err := groupRatings(ratingsQuery().
		Where("ratings.entry_id = ? AND ratings.judge_id = ?", entryID, judgeID))
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("submitted ratings not found for entry %s", entryID)
	}
	return &views[0], nil
}

// GetRatingsByEntry returns the live ratings of an entry grouped by judge
func GetRatingsByEntry(entryID string) ([]RatingView, error) {
	if _, err := GetEntry(entryID); err != nil {
		return nil, err
	}
	return groupRatings(ratingsQuery().Where("ratings.entry_id = ?", entryID))
}

// GetRatingsByCompetition returns the live ratings of a competition grouped by entry and judge
func GetRatingsByCompetition(competitionID string) ([]RatingView, error) {
	if _, err := GetCompetition(competitionID); err != nil {
		return nil, err
	}
	return groupRatings(ratingsQuery().Where("ratings.competition_id = ?", competitionID))
}

// GetRatingsByJudge returns a judge's live ratings within a competition
// grouped by entry. The judge must be assigned to the competition or an admin.
func GetRatingsByJudge(competitionID, judgeID string) ([]RatingView, error) {
	if _, err := GetCompetition(competitionID); err != nil {
		return nil, err
	}
	judge, err := GetUserByID(judgeID)
	if err != nil {
		return nil, err
	}
	if !judge.IsAdmin && !IsJudgeAssigned(competitionID, judgeID) {
		return nil, Forbidden("您不是该赛事的评委")
	}
	return groupRatings(ratingsQuery().
		Where("ratings.competition_id = ? AND ratings.judge_id = ?", competitionID, judgeID))
}

// HasJudgeCompletedRating reports whether a judge has rated every parameter of
// an entry's evaluation model
func HasJudgeCompletedRating(entryID, judgeID string) (bool, error) {
	entry, err := GetEntry(entryID)
	if err != nil {
		return false, err
	}
	competition, err := GetCompetition(entry.CompetitionID)
	if err != nil {
		return false, err
	}
	parameters, err := getModelParameters(competition.ModelID)
	if err != nil {
		return false, err
	}

	var rated int64
	database.DB.Model(&models.Rating{}).
		Where("entry_id = ? AND judge_id = ? AND deleted_at IS NULL", entryID, judgeID).
		Count(&rated)
	return rated >= int64(len(parameters)), nil
}

// getModelParameters returns a model's parameters in display order
func getModelParameters(modelID string) ([]models.EvaluationParameter, error) {
	var parameters []models.EvaluationParameter
	err := database.DB.Where("model_id = ?", modelID).
		Order("display_order").
		Find(&parameters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parameters: %w", err)
	}
	if len(parameters) == 0 {
		return nil, NotFound("评价模型不存在: " + modelID)
	}
	return parameters, nil
}

// ratingsQuery builds the base query for grouped rating views: live rows with
// their judge, entry and parameter, in a stable entry/judge/parameter order
func ratingsQuery() *gorm.DB {
	return database.DB.Model(&models.Rating{}).
		Joins("JOIN evaluation_parameters p ON p.id = ratings.parameter_id").
		Where("ratings.deleted_at IS NULL").
		Order("ratings.entry_id, ratings.judge_id, p.display_order").
		Preload("Judge").
		Preload("Entry").
		Preload("Parameter")
}

// groupRatings collapses rating rows into one view per (entry, judge) pair,
// preserving first-seen order so one call yields a stable grouping
func groupRatings(query *gorm.DB) ([]RatingView, error) {
	var ratings []models.Rating
	if err := query.Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch ratings: %w", err)
	}

	views := []RatingView{}
	index := map[string]int{}
	for _, rating := range ratings {
		key := rating.EntryID + "_" + rating.JudgeID
		i, ok := index[key]
		if !ok {
			view := RatingView{
				CompetitionID: rating.CompetitionID,
				EntryID:       rating.EntryID,
				JudgeID:       rating.JudgeID,
				Note:          rating.Note,
				SubmittedAt:   rating.SubmittedAt,
			}
			if rating.Entry != nil {
				view.EntryName = rating.Entry.EntryName
			}
			if rating.Judge != nil {
				view.JudgeName = rating.Judge.Username
			}
			views = append(views, view)
			i = len(views) - 1
			index[key] = i
		}
		score := ScoreView{
			ParameterID: rating.ParameterID,
			Score:       rating.Score,
		}
		if rating.Parameter != nil {
			score.ParameterName = rating.Parameter.Name
			score.Weight = rating.Parameter.Weight
		}
		views[i].Scores = append(views[i].Scores, score)
	}
	return views, nil
}
