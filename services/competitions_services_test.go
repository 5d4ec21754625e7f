package services

import (
	"testing"
	"time"

	"api/database"
	"api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCompetitionDeadlineMustBeFuture(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	model := createTestModel(t, "评分模型", twoParameters())

	_, err := CreateCompetition("赛事", "", model.ID, time.Now().Add(-time.Minute), nil, creator.ID)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidArgument))
	assert.Contains(t, err.Error(), "截止时间必须在未来")
}

func TestCreateCompetitionUnknownModelOrCreator(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	model := createTestModel(t, "评分模型", twoParameters())

	_, err := CreateCompetition("赛事", "", "no-such-model", futureDeadline(), nil, creator.ID)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = CreateCompetition("赛事", "", model.ID, futureDeadline(), nil, "no-such-user")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCreateCompetitionAssignsCreatorAsJudge(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	judge := createTestUser(t, "judge", false)
	model := createTestModel(t, "评分模型", twoParameters())

	competition, err := CreateCompetition("赛事", "", model.ID, futureDeadline(), []string{judge.ID}, creator.ID)
	require.NoError(t, err)

	assert.Equal(t, models.CompetitionStatusActive, competition.Status)
	assert.True(t, IsJudgeAssigned(competition.ID, creator.ID))
	assert.True(t, IsJudgeAssigned(competition.ID, judge.ID))
	assert.Len(t, competition.Judges, 2)
}

func TestAddJudgesSkipsDuplicates(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	judge := createTestUser(t, "judge", false)
	model := createTestModel(t, "评分模型", twoParameters())
	competition := createTestCompetition(t, creator.ID, model.ID, futureDeadline())

	require.NoError(t, AddJudges(competition.ID, []string{judge.ID}))
	require.NoError(t, AddJudges(competition.ID, []string{judge.ID}))

	var count int64
	database.DB.Model(&models.CompetitionJudge{}).
		Where("competition_id = ? AND judge_id = ?", competition.ID, judge.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddJudgesUnknownUserFailsWholeCall(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	judge := createTestUser(t, "judge", false)
	model := createTestModel(t, "评分模型", twoParameters())
	competition := createTestCompetition(t, creator.ID, model.ID, futureDeadline())

	err := AddJudges(competition.ID, []string{judge.ID, "no-such-user"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Contains(t, err.Error(), "用户不存在")

	// The valid judge in the same batch was rolled back
	assert.False(t, IsJudgeAssigned(competition.ID, judge.ID))
}

func TestUpdateCompetitionCreatorOnly(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	other := createTestUser(t, "other", false)
	model := createTestModel(t, "评分模型", twoParameters())
	competition := createTestCompetition(t, creator.ID, model.ID, futureDeadline())

	_, err := UpdateCompetition(competition.ID, "改名", "", model.ID, futureDeadline(), other.ID)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindForbidden))
	assert.Contains(t, err.Error(), "只有赛事创建者可以修改赛事")

	updated, err := UpdateCompetition(competition.ID, "改名", "新描述", model.ID, futureDeadline(), creator.ID)
	require.NoError(t, err)
	assert.Equal(t, "改名", updated.Name)
}

func TestRemoveJudgeCreatorOnly(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	judge := createTestUser(t, "judge", false)
	model := createTestModel(t, "评分模型", twoParameters())
	competition := createTestCompetition(t, creator.ID, model.ID, futureDeadline())
	require.NoError(t, AddJudges(competition.ID, []string{judge.ID}))

	err := RemoveJudge(competition.ID, judge.ID, judge.ID)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindForbidden))

	require.NoError(t, RemoveJudge(competition.ID, judge.ID, creator.ID))
	assert.False(t, IsJudgeAssigned(competition.ID, judge.ID))
}

func TestDeleteCompetitionCascades(t *testing.T) {
	store := setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	model := createTestModel(t, "评分模型", twoParameters())
	competition := createTestCompetition(t, creator.ID, model.ID, futureDeadline())

	entry := createApprovedEntry(t, competition.ID, "作品一", creator.ID)
	require.NoError(t, database.DB.Model(&models.CompetitionEntry{}).
		Where("id = ?", entry.ID).Update("file_path", "ref-1").Error)

	scores := scoresFor(t, model.ID, 30, 50)
	_, err := SubmitRating(competition.ID, entry.ID, creator.ID, scores, "")
	require.NoError(t, err)

	// A stranger cannot delete
	other := createTestUser(t, "other", false)
	err = DeleteCompetition(competition.ID, other.ID)
	assert.True(t, IsKind(err, KindForbidden))

	require.NoError(t, DeleteCompetition(competition.ID, creator.ID))

	_, err = GetCompetition(competition.ID)
	assert.True(t, IsKind(err, KindNotFound))
	_, err = GetEntry(entry.ID)
	assert.True(t, IsKind(err, KindNotFound))

	var liveRatings int64
	database.DB.Model(&models.Rating{}).
		Where("competition_id = ? AND deleted_at IS NULL", competition.ID).
		Count(&liveRatings)
	assert.EqualValues(t, 0, liveRatings)

	var judgeRows int64
	database.DB.Model(&models.CompetitionJudge{}).
		Where("competition_id = ?", competition.ID).
		Count(&judgeRows)
	assert.EqualValues(t, 0, judgeRows)

	assert.Contains(t, store.deleted, "ref-1")
}

func TestSweepFlipsOnlyExpiredActiveCompetitions(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	model := createTestModel(t, "评分模型", twoParameters())

	expired := createTestCompetition(t, creator.ID, model.ID, futureDeadline())
	passDeadline(t, expired.ID)
	fresh := createTestCompetition(t, creator.ID, model.ID, futureDeadline())

	swept, err := SweepExpiredCompetitions()
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	var got models.Competition
	require.NoError(t, database.DB.First(&got, "id = ?", expired.ID).Error)
	assert.Equal(t, models.CompetitionStatusEnded, got.Status)

	got = models.Competition{}
	require.NoError(t, database.DB.First(&got, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.CompetitionStatusActive, got.Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	model := createTestModel(t, "评分模型", twoParameters())
	competition := createTestCompetition(t, creator.ID, model.ID, futureDeadline())
	passDeadline(t, competition.ID)

	swept, err := SweepExpiredCompetitions()
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	swept, err = SweepExpiredCompetitions()
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
}

func TestGetCompetitionsByJudge(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "creator", false)
	judge := createTestUser(t, "judge", false)
	model := createTestModel(t, "评分模型", twoParameters())

	judged := createTestCompetition(t, creator.ID, model.ID, futureDeadline())
	require.NoError(t, AddJudges(judged.ID, []string{judge.ID}))
	createTestCompetition(t, creator.ID, model.ID, futureDeadline())

	list, err := GetCompetitionsByJudge(judge.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, judged.ID, list[0].ID)

	// The creator judges both
	list, err = GetCompetitionsByJudge(creator.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
