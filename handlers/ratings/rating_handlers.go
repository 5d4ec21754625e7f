package ratings

import (
	"net/http"

	"api/metrics"
	"api/middleware"
	"api/realtime"
	"api/services"
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// [POST] SubmitRating
// @Summary Submit a rating
// @Description Submit one judge's scores for every parameter of an entry; resubmission overwrites
// @Tags Ratings
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param ratingRequest body SubmitRatingRequest true "Rating request"
// @Success 200 {object} services.RatingView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /competitions/{id}/ratings [post]
// @Security Bearer
func SubmitRating(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	// Step 2: Parse the request body
	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	// Step 3: Submit the rating batch
	view, err := services.SubmitRating(c.Param("id"), req.EntryID, user.ID, req.Scores, req.Note)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// Step 4: Record metrics and notify listeners
	metrics.RatingsSubmitted.Inc()
	realtime.BroadcastCompetitionUpdate(realtime.CompetitionUpdate{
		CompetitionID: view.CompetitionID,
		UpdateType:    realtime.UpdateRatingSubmitted,
		Payload:       gin.H{"entry_id": view.EntryID, "judge_id": view.JudgeID},
	})

	c.JSON(http.StatusOK, view)
}

// [GET] GetEntryRatings
// @Summary Get an entry's ratings
// @Description Get the ratings of one entry grouped by judge
// @Tags Ratings
// @Produce json
// @Param entry_id path string true "Entry ID"
// @Success 200 {array} services.RatingView
// @Failure 404 {object} map[string]string
// @Router /entries/{entry_id}/ratings [get]
// @Security Bearer
func GetEntryRatings(c *gin.Context) {
	views, err := services.GetRatingsByEntry(c.Param("entry_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// [GET] GetCompetitionRatings
// @Summary Get a competition's ratings
// @Description Get every rating of a competition grouped by entry and judge
// @Tags Ratings
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {array} services.RatingView
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/ratings [get]
// @Security Bearer
func GetCompetitionRatings(c *gin.Context) {
	// Step 1: Authenticate the user
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	competitionID := c.Param("id")

	// Step 2: Check visibility
	allowed, err := services.CanViewRatingData(competitionID, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !allowed && !user.IsAdmin {
		respondWithError(c, http.StatusForbidden, ErrNoPermissionView)
		return
	}

	// Step 3: Fetch the ratings
	views, err := services.GetRatingsByCompetition(competitionID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// [GET] GetMyRatings
// @Summary Get the current judge's ratings
// @Description Get the authenticated judge's ratings within a competition grouped by entry
// @Tags Ratings
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {array} services.RatingView
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/ratings/mine [get]
// @Security Bearer
func GetMyRatings(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	views, err := services.GetRatingsByJudge(c.Param("id"), user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// [GET] CheckRatingCompletion
// @Summary Check rating completion
// @Description Report whether the authenticated judge has rated every parameter of an entry
// @Tags Ratings
// @Produce json
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} RatingCompletionResponse
// @Failure 404 {object} map[string]string
// @Router /entries/{entry_id}/ratings/completion [get]
// @Security Bearer
func CheckRatingCompletion(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	entryID := c.Param("entry_id")

	completed, err := services.HasJudgeCompletedRating(entryID, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, RatingCompletionResponse{
		EntryID:   entryID,
		JudgeID:   user.ID,
		Completed: completed,
	})
}
