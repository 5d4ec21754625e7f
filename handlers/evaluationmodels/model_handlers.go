package evaluationmodels

import (
	"net/http"

	"api/middleware"
	"api/services"
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// [GET] GetAllModels
// @Summary Get all evaluation models
// @Description Get every live evaluation model with its parameters
// @Tags EvaluationModels
// @Produce json
// @Success 200 {array} models.EvaluationModel
// @Failure 500 {object} map[string]string
// @Router /evaluation-models [get]
// @Security Bearer
func GetAllModels(c *gin.Context) {
	evaluationModels, err := services.GetAllModels()
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluationModels)
}

// [GET] GetModel
// @Summary Get an evaluation model
// @Description Get one evaluation model by ID with its parameters in display order
// @Tags EvaluationModels
// @Produce json
// @Param id path string true "Evaluation model ID"
// @Success 200 {object} models.EvaluationModel
// @Failure 404 {object} map[string]string
// @Router /evaluation-models/{id} [get]
// @Security Bearer
func GetModel(c *gin.Context) {
	model, err := services.GetModelByID(c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, model)
}

// [POST] CreateModel
// @Summary Create an evaluation model
// @Description Create an evaluation model whose parameter weights sum to 100
// @Tags EvaluationModels
// @Accept json
// @Produce json
// @Param createRequest body CreateModelRequest true "Create model request"
// @Success 201 {object} models.EvaluationModel
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /evaluation-models [post]
// @Security Bearer
func CreateModel(c *gin.Context) {
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
	var req CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	// Step 3: Create the model with its parameters
	model, err := services.CreateModel(req.Name, toParameterInputs(req.Parameters))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model)
}

// [PUT] UpdateModel
// @Summary Update an evaluation model
// @Description Replace an evaluation model's name and full parameter set
// @Tags EvaluationModels
// @Accept json
// @Produce json
// @Param id path string true "Evaluation model ID"
// @Param updateRequest body UpdateModelRequest true "Update model request"
// @Success 200 {object} models.EvaluationModel
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /evaluation-models/{id} [put]
// @Security Bearer
func UpdateModel(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	if !user.IsAdmin {
		respondWithError(c, http.StatusForbidden, ErrOnlyAdminUpdate)
		return
	}

	var req UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	model, err := services.UpdateModel(c.Param("id"), req.Name, toParameterInputs(req.Parameters))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, model)
}

// [DELETE] DeleteModel
// @Summary Delete an evaluation model
// @Description Soft-delete an evaluation model that no live competition references
// @Tags EvaluationModels
// @Produce json
// @Param id path string true "Evaluation model ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /evaluation-models/{id} [delete]
// @Security Bearer
func DeleteModel(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	if !user.IsAdmin {
		respondWithError(c, http.StatusForbidden, ErrOnlyAdminDelete)
		return
	}

	if err := services.DeleteModel(c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Evaluation model deleted"})
}
