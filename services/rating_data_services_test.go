package services

import (
	"bytes"
	"strings"
	"testing"

	"api/database"
	"api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAggregationSumsParameterMeans(t *testing.T) {
	setupTestDB(t)
	f := newRatingFixture(t)

	second := createTestUser(t, "second-judge", false)
	require.NoError(t, AddJudges(f.competition.ID, []string{second.ID}))

	// 外观 means 25, 风味 means 55; the entry total is their sum
	_, err := SubmitRating(f.competition.ID, f.entry.ID, f.judge.ID,
		scoresFor(t, f.model.ID, 20, 50), "")
	require.NoError(t, err)
	_, err = SubmitRating(f.competition.ID, f.entry.ID, second.ID,
		scoresFor(t, f.model.ID, 30, 60), "")
	require.NoError(t, err)

	data, err := GetCompetitionRatingData(f.competition.ID)
	require.NoError(t, err)
	require.Len(t, data.Entries, 1)

	entry := data.Entries[0]
	require.Len(t, entry.ParameterAverages, 2)
	assert.Equal(t, "外观", entry.ParameterAverages[0].ParameterName)
	assert.InDelta(t, 25.0, entry.ParameterAverages[0].AverageScore, 1e-9)
	assert.InDelta(t, 55.0, entry.ParameterAverages[1].AverageScore, 1e-9)
	assert.InDelta(t, 80.0, entry.TotalAverageScore, 1e-9)
	assert.Equal(t, 2, entry.CompletedRatings)
	// creator + two judges hold assignment rows
	assert.Equal(t, 3, entry.TotalJudges)
}

func TestAggregationSkipsUnapprovedAndUnratedShowsZero(t *testing.T) {
	setupTestDB(t)
	f := newRatingFixture(t)

	// A PENDING entry never appears in the aggregation
	_, err := SubmitEntry(f.competition.ID, "待审作品", "", nil, f.creator.ID)
	require.NoError(t, err)

	// An approved entry with no ratings aggregates to zero
	unrated := createApprovedEntry(t, f.competition.ID, "无评分作品", f.creator.ID)

	data, err := GetCompetitionRatingData(f.competition.ID)
	require.NoError(t, err)
	require.Len(t, data.Entries, 2)

	for _, entry := range data.Entries {
		if entry.EntryID == unrated.ID {
			assert.Empty(t, entry.ParameterAverages)
			assert.Zero(t, entry.TotalAverageScore)
			assert.Zero(t, entry.CompletedRatings)
		}
	}
}

func TestGenerateCompetitionCSV(t *testing.T) {
	setupTestDB(t)
	f := newRatingFixture(t)

	_, err := SubmitRating(f.competition.ID, f.entry.ID, f.judge.ID,
		scoresFor(t, f.model.ID, 30, 50.5), `口感 "极佳"`)
	require.NoError(t, err)

	csv, err := GenerateCompetitionCSV(f.competition.ID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "参赛作品,评委,外观(40分),风味(60分),总分,备注", lines[0])
	assert.Equal(t, `"作品一","judge",30,50.5,80.5,"口感 ""极佳"""`, lines[1])
}

func TestGenerateCompetitionCSVEmptyIsHeaderOnly(t *testing.T) {
	setupTestDB(t)
	f := newRatingFixture(t)

	csv, err := GenerateCompetitionCSV(f.competition.ID)
	require.NoError(t, err)
	assert.Equal(t, "参赛作品,评委,外观(40分),风味(60分),总分,备注\n", csv)
}

func TestGenerateCompetitionCSVOneRowPerEntryJudgePair(t *testing.T) {
	setupTestDB(t)
	f := newRatingFixture(t)

	second := createTestUser(t, "another", false)
	require.NoError(t, AddJudges(f.competition.ID, []string{second.ID}))
	entry2 := createApprovedEntry(t, f.competition.ID, "作品二", f.creator.ID)

	_, err := SubmitRating(f.competition.ID, f.entry.ID, f.judge.ID,
		scoresFor(t, f.model.ID, 30, 50), "")
	require.NoError(t, err)
	_, err = SubmitRating(f.competition.ID, f.entry.ID, second.ID,
		scoresFor(t, f.model.ID, 20, 40), "")
	require.NoError(t, err)
	_, err = SubmitRating(f.competition.ID, entry2.ID, f.judge.ID,
		scoresFor(t, f.model.ID, 10, 20), "")
	require.NoError(t, err)

	csv, err := GenerateCompetitionCSV(f.competition.ID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 4)
	// Entries in display order; judges alphabetically within an entry
	assert.True(t, strings.HasPrefix(lines[1], `"作品一","another"`))
	assert.True(t, strings.HasPrefix(lines[2], `"作品一","judge"`))
	assert.True(t, strings.HasPrefix(lines[3], `"作品二","judge"`))
}

func TestGenerateCompetitionXLSX(t *testing.T) {
	setupTestDB(t)
	f := newRatingFixture(t)

	_, err := SubmitRating(f.competition.ID, f.entry.ID, f.judge.ID,
		scoresFor(t, f.model.ID, 30, 50), "")
	require.NoError(t, err)

	payload, err := GenerateCompetitionXLSX(f.competition.ID)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"参赛作品", "评委", "外观(40分)", "风味(60分)", "总分", "备注"}, rows[0][:6])
	assert.Equal(t, "作品一", rows[1][0])
	assert.Equal(t, "judge", rows[1][1])
}

func TestCanViewRatingData(t *testing.T) {
	setupTestDB(t)
	f := newRatingFixture(t)
	stranger := createTestUser(t, "stranger", false)

	// While active, only the creator and assigned judges see the data
	ok, err := CanViewRatingData(f.competition.ID, f.creator.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CanViewRatingData(f.competition.ID, f.judge.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CanViewRatingData(f.competition.ID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Once concluded, the data is public
	endCompetition(t, f.competition.ID)
	ok, err = CanViewRatingData(f.competition.ID, stranger.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestPresetModelFullFlow drives the seeded six-parameter model from entry
// submission through moderation, two full ratings, aggregation and CSV export
func TestPresetModelFullFlow(t *testing.T) {
	setupTestDB(t)
	database.Populate()

	admin, err := GetUserByUsername(database.AdminUsername)
	require.NoError(t, err)
	require.True(t, admin.IsAdmin)

	var preset models.EvaluationModel
	require.NoError(t, database.DB.
		Where("name = ? AND deleted_at IS NULL", database.PresetModelName).
		First(&preset).Error)

	competition := createTestCompetition(t, admin.ID, preset.ID, futureDeadline())

	judgeA := createTestUser(t, "judge-a", false)
	judgeB := createTestUser(t, "judge-b", false)
	require.NoError(t, AddJudges(competition.ID, []string{judgeA.ID, judgeB.ID}))

	entry, err := SubmitEntry(competition.ID, "芒果一号", "", nil, admin.ID)
	require.NoError(t, err)
	require.NoError(t, UpdateEntryStatus(entry.ID, models.EntryStatusApproved))

	// 外观10 风味24 滋味16 质构18 形状22 营养10
	_, err = SubmitRating(competition.ID, entry.ID, judgeA.ID,
		scoresFor(t, preset.ID, 8, 20, 14, 15, 18, 9), "")
	require.NoError(t, err)
	_, err = SubmitRating(competition.ID, entry.ID, judgeB.ID,
		scoresFor(t, preset.ID, 10, 22, 12, 17, 20, 8), "")
	require.NoError(t, err)

	data, err := GetCompetitionRatingData(competition.ID)
	require.NoError(t, err)
	require.Len(t, data.Entries, 1)

	aggregated := data.Entries[0]
	require.Len(t, aggregated.ParameterAverages, 6)
	assert.Equal(t, "外观", aggregated.ParameterAverages[0].ParameterName)
	assert.InDelta(t, 9.0, aggregated.ParameterAverages[0].AverageScore, 1e-9)
	assert.Equal(t, "营养", aggregated.ParameterAverages[5].ParameterName)
	assert.InDelta(t, 8.5, aggregated.ParameterAverages[5].AverageScore, 1e-9)
	assert.InDelta(t, 86.5, aggregated.TotalAverageScore, 1e-9)
	assert.GreaterOrEqual(t, aggregated.TotalAverageScore, 0.0)
	assert.LessOrEqual(t, aggregated.TotalAverageScore, 100.0)
	assert.Equal(t, 2, aggregated.CompletedRatings)
	// admin creator plus the two assigned judges
	assert.Equal(t, 3, aggregated.TotalJudges)

	csv, err := GenerateCompetitionCSV(competition.ID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "参赛作品,评委,外观(10分),风味(24分),滋味(16分),质构(18分),形状(22分),营养(10分),总分,备注", lines[0])
	assert.Equal(t, `"芒果一号","judge-a",8,20,14,15,18,9,84,`, lines[1])
	assert.Equal(t, `"芒果一号","judge-b",10,22,12,17,20,8,89,`, lines[2])
}

func TestCanExportRatingDataCreatorOnly(t *testing.T) {
	setupTestDB(t)
	f := newRatingFixture(t)

	ok, err := CanExportRatingData(f.competition.ID, f.creator.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CanExportRatingData(f.competition.ID, f.judge.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
