package competitions

import (
	"net/http"

	"api/middleware"
	"api/services"
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// [GET] GetAllCompetitions
// @Summary Get all competitions
// @Description Get every live competition
// @Tags Competitions
// @Produce json
// @Success 200 {array} models.Competition
// @Failure 500 {object} map[string]string
// @Router /competitions [get]
// @Security Bearer
func GetAllCompetitions(c *gin.Context) {
	competitions, err := services.GetAllCompetitions()
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, competitions)
}

// [GET] GetMyCompetitions
// @Summary Get competitions created by the current user
// @Description Get every live competition the authenticated user created
// @Tags Competitions
// @Produce json
// @Success 200 {array} models.Competition
// @Failure 500 {object} map[string]string
// @Router /competitions/mine [get]
// @Security Bearer
func GetMyCompetitions(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	competitions, err := services.GetCompetitionsByCreator(user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, competitions)
}

// [GET] GetJudgedCompetitions
// @Summary Get competitions the current user judges
// @Description Get every live competition the authenticated user is assigned to as a judge
// @Tags Competitions
// @Produce json
// @Success 200 {array} models.Competition
// @Failure 500 {object} map[string]string
// @Router /competitions/judged [get]
// @Security Bearer
func GetJudgedCompetitions(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	competitions, err := services.GetCompetitionsByJudge(user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, competitions)
}

// [GET] GetCompetition
// @Summary Get a competition
// @Description Get one competition with its model, judges and live entries
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} models.Competition
// @Failure 404 {object} map[string]string
// @Router /competitions/{id} [get]
// @Security Bearer
func GetCompetition(c *gin.Context) {
	competition, err := services.GetCompetitionWithDetails(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, competition)
}

// [POST] CreateCompetition
// @Summary Create a competition
// @Description Create a competition with a future deadline and an initial judge list
// @Tags Competitions
// @Accept json
// @Produce json
// @Param createRequest body CreateCompetitionRequest true "Create competition request"
// @Success 201 {object} models.Competition
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions [post]
// @Security Bearer
func CreateCompetition(c *gin.Context) {
	// Step 1: Authenticate the user and check the admin flag
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	if !user.IsAdmin {
		respondWithError(c, http.StatusForbidden, ErrOnlyAdminCreate)
		return
	}

	// Step 2: Parse the request body
	var req CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	// Step 3: Create the competition
	competition, err := services.CreateCompetition(req.Name, req.Description, req.ModelID, req.Deadline, req.JudgeIDs, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, competition)
}

// [PUT] UpdateCompetition
// @Summary Update a competition
// @Description Update a competition's name, description, model and deadline (creator only)
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param updateRequest body UpdateCompetitionRequest true "Update competition request"
// @Success 200 {object} models.Competition
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id} [put]
// @Security Bearer
func UpdateCompetition(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var req UpdateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	competition, err := services.UpdateCompetition(c.Param("id"), req.Name, req.Description, req.ModelID, req.Deadline, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, competition)
}

// [DELETE] DeleteCompetition
// @Summary Delete a competition
// @Description Delete a competition and cascade its ratings, entries and judge assignments (creator only)
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /competitions/{id} [delete]
// @Security Bearer
func DeleteCompetition(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	if err := services.DeleteCompetition(c.Param("id"), user.ID); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Competition deleted"})
}
