package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"api/database"
	"api/metrics"
	"api/models"

	"github.com/xuri/excelize/v2"
)

// ratingDataCacheTTL bounds how stale a cached aggregation may be
const ratingDataCacheTTL = 30 * time.Second

// ParameterAverage is the mean score of one parameter across judges
type ParameterAverage struct {
	ParameterID   string  `gorm:"column:parameter_id" json:"parameter_id"`
	ParameterName string  `gorm:"column:parameter_name" json:"parameter_name"`
	Weight        int     `gorm:"column:weight" json:"weight"`
	AverageScore  float64 `gorm:"column:average_score" json:"average_score"`
	RatingCount   int     `gorm:"column:rating_count" json:"rating_count"`
}

// EntryRatingData is the aggregated view of one approved entry
type EntryRatingData struct {
	EntryID           string             `json:"entry_id"`
	EntryName         string             `json:"entry_name"`
	Description       string             `json:"description"`
	FilePath          string             `json:"file_path"`
	ParameterAverages []ParameterAverage `json:"parameter_averages"`
	TotalAverageScore float64            `json:"total_average_score"`
	TotalJudges       int                `json:"total_judges"`
	CompletedRatings  int                `json:"completed_ratings"`
}

// CompetitionRatingData is the aggregated view of a whole competition
type CompetitionRatingData struct {
	CompetitionID   string            `json:"competition_id"`
	CompetitionName string            `json:"competition_name"`
	Entries         []EntryRatingData `json:"entries"`
}

// GetCompetitionRatingData aggregates every approved entry of a competition:
// per-parameter means across judges and the entry total (the sum of the
// means, directly comparable to the model's 100-point scale). Served from the
// cache when one is configured; each fresh read tolerates being slightly
// stale relative to concurrent writes.
func GetCompetitionRatingData(competitionID string) (*CompetitionRatingData, error) {
	if cached := readRatingDataCache(competitionID); cached != nil {
		return cached, nil
	}

	competition, err := GetCompetition(competitionID)
	if err != nil {
		return nil, err
	}

	var entries []models.CompetitionEntry
	err = database.DB.Scopes(models.Live).
		Where("competition_id = ? AND status = ?", competitionID, models.EntryStatusApproved).
		Order("display_order").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	var totalJudges int64
	database.DB.Model(&models.CompetitionJudge{}).
		Where("competition_id = ?", competitionID).
		Count(&totalJudges)

	data := &CompetitionRatingData{
		CompetitionID:   competition.ID,
		CompetitionName: competition.Name,
		Entries:         []EntryRatingData{},
	}
	for _, entry := range entries {
		entryData, err := calculateEntryRatingData(&entry, int(totalJudges))
		if err != nil {
			return nil, err
		}
		data.Entries = append(data.Entries, *entryData)
	}

	writeRatingDataCache(competitionID, data)
	return data, nil
}

// calculateEntryRatingData averages the live ratings of one entry per
// parameter. The entry total is the sum of the per-parameter means; the
// completed-ratings count is the first aggregated parameter's judge count,
// valid because a rating batch always covers every parameter.
func calculateEntryRatingData(entry *models.CompetitionEntry, totalJudges int) (*EntryRatingData, error) {
	var averages []ParameterAverage
	err := database.DB.Model(&models.Rating{}).
		Select("p.id AS parameter_id, p.name AS parameter_name, p.weight AS weight, AVG(ratings.score) AS average_score, COUNT(ratings.score) AS rating_count").
		Joins("JOIN evaluation_parameters p ON p.id = ratings.parameter_id").
		Where("ratings.entry_id = ? AND ratings.deleted_at IS NULL", entry.ID).
		Group("p.id, p.name, p.weight, p.display_order").
		Order("p.display_order").
		Scan(&averages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	totalScore := 0.0
	completedRatings := 0
	for _, avg := range averages {
		totalScore += avg.AverageScore
		if completedRatings == 0 {
			completedRatings = avg.RatingCount
		}
	}
	if averages == nil {
		averages = []ParameterAverage{}
	}

	return &EntryRatingData{
		EntryID:           entry.ID,
		EntryName:         entry.EntryName,
		Description:       entry.Description,
		FilePath:          entry.FilePath,
		ParameterAverages: averages,
		TotalAverageScore: totalScore,
		TotalJudges:       totalJudges,
		CompletedRatings:  completedRatings,
	}, nil
}

// GenerateCompetitionCSV renders the competition's rating table: one row per
// (entry, judge) pair holding at least one live rating, a column per model
// parameter in display order, a row total and the quote-escaped note. With no
// ratings the output is header-only.
func GenerateCompetitionCSV(competitionID string) (string, error) {
	competition, err := GetCompetition(competitionID)
	if err != nil {
		return "", err
	}
	parameters, err := getModelParameters(competition.ModelID)
	if err != nil {
		return "", err
	}

	var writer strings.Builder
	writeCSVHeader(&writer, parameters)

	rows, err := exportRows(competitionID)
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		writer.WriteString("\"" + row.EntryName + "\",")
		writer.WriteString("\"" + row.JudgeName + "\",")

		total := 0.0
		for _, parameter := range parameters {
			score, ok := row.Scores[parameter.ID]
			if ok {
				writer.WriteString(formatScore(score))
				total += score
			} else {
				writer.WriteString("0")
			}
			writer.WriteString(",")
		}
		writer.WriteString(formatScore(total) + ",")

		if strings.TrimSpace(row.Note) != "" {
			writer.WriteString("\"" + strings.ReplaceAll(row.Note, "\"", "\"\"") + "\"")
		}
		writer.WriteString("\n")
	}

	return writer.String(), nil
}

// GenerateCompetitionXLSX renders the same rating table as an Excel workbook
func GenerateCompetitionXLSX(competitionID string) ([]byte, error) {
	competition, err := GetCompetition(competitionID)
	if err != nil {
		return nil, err
	}
	parameters, err := getModelParameters(competition.ModelID)
	if err != nil {
		return nil, err
	}

	xlsx := excelize.NewFile()
	defer xlsx.Close()
	sheet := xlsx.GetSheetName(0)

	headers := []interface{}{"参赛作品", "评委"}
	for _, parameter := range parameters {
		headers = append(headers, fmt.Sprintf("%s(%d分)", parameter.Name, parameter.Weight))
	}
	headers = append(headers, "总分", "备注")
	if err := xlsx.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	rows, err := exportRows(competitionID)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		values := []interface{}{row.EntryName, row.JudgeName}
		total := 0.0
		for _, parameter := range parameters {
			score := row.Scores[parameter.ID]
			total += score
			values = append(values, score)
		}
		values = append(values, total, row.Note)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := xlsx.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write data row: %w", err)
		}
	}

	buffer, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

// CanViewRatingData reports whether a user may read a competition's rating
// data: the creator, an assigned judge, or anyone once the competition has
// concluded (ended or past its deadline)
func CanViewRatingData(competitionID, userID string) (bool, error) {
	competition, err := GetCompetition(competitionID)
	if err != nil {
		return false, err
	}
	if competition.IsEnded() || competition.IsDeadlinePassed() {
		return true, nil
	}
	if competition.CreatorID == userID {
		return true, nil
	}
	return IsJudgeAssigned(competitionID, userID), nil
}

// CanExportRatingData reports whether a user may export a competition's rating
// data. Only the creator may export.
func CanExportRatingData(competitionID, userID string) (bool, error) {
	competition, err := GetCompetition(competitionID)
	if err != nil {
		return false, err
	}
	return competition.CreatorID == userID, nil
}

// exportRow is one (entry, judge) grouping of the export table
type exportRow struct {
	EntryName string
	JudgeName string
	Note      string
	Scores    map[string]float64
}

// exportRows groups a competition's live ratings by (entry, judge) in entry
// display order, stable within one export call
func exportRows(competitionID string) ([]exportRow, error) {
	var ratings []models.Rating
	err := database.DB.Model(&models.Rating{}).
		Joins("JOIN competition_entries e ON e.id = ratings.entry_id").
		Joins("JOIN users u ON u.id = ratings.judge_id").
		Joins("JOIN evaluation_parameters p ON p.id = ratings.parameter_id").
		Where("ratings.competition_id = ? AND ratings.deleted_at IS NULL AND e.deleted_at IS NULL", competitionID).
		Order("e.display_order, u.username, p.display_order").
		Preload("Entry").
		Preload("Judge").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ratings for export: %w", err)
	}

	rows := []exportRow{}
	index := map[string]int{}
	for _, rating := range ratings {
		key := rating.EntryID + "_" + rating.JudgeID
		i, ok := index[key]
		if !ok {
			row := exportRow{
				Note:   rating.Note,
				Scores: map[string]float64{},
			}
			if rating.Entry != nil {
				row.EntryName = rating.Entry.EntryName
			}
			if rating.Judge != nil {
				row.JudgeName = rating.Judge.Username
			}
			rows = append(rows, row)
			i = len(rows) - 1
			index[key] = i
		}
		rows[i].Scores[rating.ParameterID] = rating.Score
	}
	return rows, nil
}

func writeCSVHeader(writer *strings.Builder, parameters []models.EvaluationParameter) {
	writer.WriteString("参赛作品,评委,")
	for _, parameter := range parameters {
		writer.WriteString(fmt.Sprintf("%s(%d分),", parameter.Name, parameter.Weight))
	}
	writer.WriteString("总分,备注\n")
}

// formatScore trims trailing zeros so whole scores export as integers
func formatScore(score float64) string {
	s := fmt.Sprintf("%.2f", score)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func readRatingDataCache(competitionID string) *CompetitionRatingData {
	if database.Cache == nil {
		return nil
	}

	payload, err := database.Cache.Get(context.Background(), ratingDataCacheKey(competitionID)).Bytes()
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil
	}

	var data CompetitionRatingData
	if err := json.Unmarshal(payload, &data); err != nil {
		metrics.CacheMisses.Inc()
		return nil
	}
	metrics.CacheHits.Inc()
	return &data
}

func writeRatingDataCache(competitionID string, data *CompetitionRatingData) {
	if database.Cache == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	database.Cache.Set(context.Background(), ratingDataCacheKey(competitionID), payload, ratingDataCacheTTL)
}

func ratingDataCacheKey(competitionID string) string {
	return "rating_data:" + competitionID
}
