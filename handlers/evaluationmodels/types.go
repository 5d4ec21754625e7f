package evaluationmodels

import (
	"api/services"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrInvalidRequest  = "Invalid request data"
	ErrOnlyAdminCreate = "只有管理员可以创建评价模型"
	ErrOnlyAdminUpdate = "只有管理员可以更新评价模型"
	ErrOnlyAdminDelete = "只有管理员可以删除评价模型"
)

// ParameterRequest is one weighted parameter of an evaluation model
type ParameterRequest struct {
	Name   string `json:"name" binding:"required"`
	Weight int    `json:"weight" binding:"required"`
}

// CreateModelRequest model for creating an evaluation model
type CreateModelRequest struct {
	Name       string             `json:"name" binding:"required"`
	Parameters []ParameterRequest `json:"parameters" binding:"required"`
}

// UpdateModelRequest model for replacing an evaluation model
type UpdateModelRequest struct {
	Name       string             `json:"name" binding:"required"`
	Parameters []ParameterRequest `json:"parameters" binding:"required"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func toParameterInputs(params []ParameterRequest) []services.ParameterInput {
	inputs := make([]services.ParameterInput, 0, len(params))
	for _, p := range params {
		inputs = append(inputs, services.ParameterInput{Name: p.Name, Weight: p.Weight})
	}
	return inputs
}
