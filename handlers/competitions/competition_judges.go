package competitions

import (
	"net/http"

	"api/middleware"
	"api/services"
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// [POST] AddJudges
// @Summary Add judges to a competition
// @Description Assign users as judges in bulk; already-assigned users are skipped
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param addRequest body AddJudgesRequest true "Add judges request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/judges [post]
// @Security Bearer
func AddJudges(c *gin.Context) {
	var req AddJudgesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if err := services.AddJudges(c.Param("id"), req.JudgeIDs); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Judges added"})
}

// [DELETE] RemoveJudge
// @Summary Remove a judge from a competition
// @Description Remove one judge assignment (creator only)
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Param judge_id path string true "Judge user ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id}/judges/{judge_id} [delete]
// @Security Bearer
func RemoveJudge(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	if err := services.RemoveJudge(c.Param("id"), c.Param("judge_id"), user.ID); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Judge removed"})
}
