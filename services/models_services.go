package services

import (
	"errors"
	"fmt"
	"time"

	"api/database"
	"api/models"

	"gorm.io/gorm"
)

// ParameterInput describes one weighted parameter of an evaluation model
type ParameterInput struct {
	Name   string `json:"name" binding:"required"`
	Weight int    `json:"weight" binding:"required,min=1,max=100"`
}

// GetAllModels returns every live evaluation model with its parameters in display order
func GetAllModels() ([]models.EvaluationModel, error) {
	var list []models.EvaluationModel
	err := database.DB.Scopes(models.Live).
		Preload("Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		Order("created_at").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evaluation models: %w", err)
	}
	return list, nil
}

// GetModelByID returns a live evaluation model with its parameters in display order
func GetModelByID(id string) (*models.EvaluationModel, error) {
	var model models.EvaluationModel
	err := database.DB.Scopes(models.Live).
		Preload("Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("评价模型不存在: " + id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evaluation model: %w", err)
	}
	return &model, nil
}

// CreateModel creates a new evaluation model with its weighted parameters.
// The sum of parameter weights must equal exactly 100.
func CreateModel(name string, parameters []ParameterInput) (*models.EvaluationModel, error) {
	if name == "" {
		return nil, InvalidArgument("评价模型名称不能为空")
	}
	if err := validateTotalWeight(parameters); err != nil {
		return nil, err
	}

	// Model names are unique among live models
	var count int64
	database.DB.Model(&models.EvaluationModel{}).Where("name = ? AND deleted_at IS NULL", name).Count(&count)
	if count > 0 {
		return nil, InvalidArgument("评价模型名称已存在: " + name)
	}

	model := models.EvaluationModel{Name: name}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("failed to create evaluation model: %w", err)
		}
		return createParameters(tx, &model, parameters)
	})
	if err != nil {
		return nil, err
	}

	return GetModelByID(model.ID)
}

// UpdateModel replaces the full parameter set of a model (delete-all-then-recreate)
func UpdateModel(id, name string, parameters []ParameterInput) (*models.EvaluationModel, error) {
	if err := validateTotalWeight(parameters); err != nil {
		return nil, err
	}

	model, err := GetModelByID(id)
	if err != nil {
		return nil, err
	}

	if model.Name != name {
		var count int64
		database.DB.Model(&models.EvaluationModel{}).Where("name = ? AND deleted_at IS NULL AND id <> ?", name, id).Count(&count)
		if count > 0 {
			return nil, InvalidArgument("评价模型名称已存在: " + name)
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(model).Update("name", name).Error; err != nil {
			return fmt.Errorf("failed to update evaluation model: %w", err)
		}
		if err := tx.Where("model_id = ?", id).Delete(&models.EvaluationParameter{}).Error; err != nil {
			return fmt.Errorf("failed to delete parameters: %w", err)
		}
		return createParameters(tx, model, parameters)
	})
	if err != nil {
		return nil, err
	}

	return GetModelByID(id)
}

// DeleteModel soft-deletes a model. A model referenced by any live competition cannot be deleted.
func DeleteModel(id string) error {
	model, err := GetModelByID(id)
	if err != nil {
		return err
	}

	var used int64
	database.DB.Model(&models.Competition{}).Where("model_id = ? AND deleted_at IS NULL", id).Count(&used)
	if used > 0 {
		return IllegalState("无法删除正在使用的评价模型: " + id)
	}

	now := time.Now()
	if err := database.DB.Model(model).Update("deleted_at", &now).Error; err != nil {
		return fmt.Errorf("failed to delete evaluation model: %w", err)
	}
	return nil
}

func validateTotalWeight(parameters []ParameterInput) error {
	if len(parameters) == 0 {
		return InvalidArgument("评价模型必须包含评价参数")
	}

	totalWeight := 0
	for _, p := range parameters {
		if p.Name == "" {
			return InvalidArgument("评价参数名称不能为空")
		}
		if p.Weight < 1 || p.Weight > 100 {
			return InvalidArgument(fmt.Sprintf("参数 %s 的权重必须在 1 到 100 之间", p.Name))
		}
		totalWeight += p.Weight
	}
	if totalWeight != 100 {
		return InvalidArgument(fmt.Sprintf("评价参数总分值必须为100分，当前为: %d", totalWeight))
	}
	return nil
}

func createParameters(tx *gorm.DB, model *models.EvaluationModel, parameters []ParameterInput) error {
	for i, p := range parameters {
		parameter := models.EvaluationParameter{
			ModelID:      model.ID,
			Name:         p.Name,
			Weight:       p.Weight,
			DisplayOrder: i + 1,
		}
		if err := tx.Create(&parameter).Error; err != nil {
			return fmt.Errorf("failed to create parameter %s: %w", p.Name, err)
		}
	}
	return nil
}
