package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe represents a recipe the user confirmed and saved
type Recipe struct {
	ID              uint               `gorm:"primarykey" json:"id"`
	Title           string             `gorm:"not null" json:"title"`
	SourceURL       string             `gorm:"index" json:"source_url,omitempty"`
	ImageURL        string             `json:"image_url,omitempty"`
	Servings        *int               `json:"servings,omitempty"`
	PrepTime        *int               `json:"prep_time,omitempty"`
	CookingTime     *int               `json:"cooking_time,omitempty"`
	RestingTime     *int               `json:"resting_time,omitempty"`
	Difficulty      string             `json:"difficulty,omitempty"`
	ConfidenceScore float64            `json:"confidence_score"`
	IsFavorite      bool               `gorm:"default:false" json:"is_favorite"`
	Ingredients     []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
	Steps           []RecipeStep       `gorm:"constraint:OnDelete:CASCADE" json:"steps"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName specifies the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient is one ingredient line of a saved recipe
type RecipeIngredient struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RecipeID uint   `gorm:"index;not null" json:"recipe_id"`
	Position int    `json:"position"`
	Name     string `gorm:"not null" json:"name"`
	Amount   string `json:"amount,omitempty"`
	Section  string `json:"section,omitempty"`
}

// TableName specifies the table name for RecipeIngredient
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeStep is one instruction of a saved recipe
type RecipeStep struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	RecipeID    uint   `gorm:"index;not null" json:"recipe_id"`
	StepOrder   int    `json:"order"`
	Instruction string `gorm:"type:text;not null" json:"instruction"`
}

// TableName specifies the table name for RecipeStep
func (RecipeStep) TableName() string {
	return "recipe_steps"
}

// AllModels lists every model managed by migrations
func AllModels() []any {
	return []any{&Recipe{}, &RecipeIngredient{}, &RecipeStep{}}
}
