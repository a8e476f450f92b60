package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"fit-competition-system/models"
	"fit-competition-system/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var titleCaser = cases.Title(language.English)

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// normalizeExerciseName keeps catalog display names consistent regardless of
// how admins type them ("bench  press" → "Bench Press").
func normalizeExerciseName(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

type ExerciseInput struct {
	Name           string
	Description    string
	Category       string
	DifficultyRank int
	Image          *multipart.FileHeader // optional
}

func (s *CatalogService) CreateExercise(in ExerciseInput) (*models.Exercise, error) {
	name := normalizeExerciseName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("exercise name is required: %w", ErrInvalidRange)
	}
	if in.DifficultyRank < 1 {
		in.DifficultyRank = 1
	}

	exercise := models.Exercise{
		ID:             uuid.NewString(),
		Name:           name,
		Slug:           slug.Make(name),
		Description:    in.Description,
		Category:       strings.ToLower(strings.TrimSpace(in.Category)),
		DifficultyRank: in.DifficultyRank,
	}

	if in.Image != nil && in.Image.Size > 0 {
		url, err := s.storeImage(in.Image, exercise.Slug)
		if err != nil {
			return nil, err
		}
		exercise.ImageURL = url
	}

	if err := s.DB.Create(&exercise).Error; err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (s *CatalogService) UpdateExercise(id string, in ExerciseInput) (*models.Exercise, error) {
	exercise, err := s.ExerciseByID(id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		exercise.Name = normalizeExerciseName(in.Name)
		exercise.Slug = slug.Make(exercise.Name)
	}
	if in.Description != "" {
		exercise.Description = in.Description
	}
	if in.Category != "" {
		exercise.Category = strings.ToLower(strings.TrimSpace(in.Category))
	}
	if in.DifficultyRank >= 1 {
		exercise.DifficultyRank = in.DifficultyRank
	}
	if in.Image != nil && in.Image.Size > 0 {
		url, err := s.storeImage(in.Image, exercise.Slug)
		if err != nil {
			return nil, err
		}
		exercise.ImageURL = url
	}

	if err := s.DB.Save(exercise).Error; err != nil {
		return nil, err
	}
	return exercise, nil
}

// storeImage uploads to R2 when configured, falling back to local uploads/
// for development setups without object storage.
func (s *CatalogService) storeImage(file *multipart.FileHeader, slugName string) (string, error) {
	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("exercises/%s-%s%s", slugName, uuid.NewString()[:8], ext)

	if utils.R2Enabled() {
		return utils.UploadImageToR2(file, key)
	}

	dest := utils.GetUploadPath(key)
	if err := utils.SaveFile(file, dest); err != nil {
		return "", fmt.Errorf("save image locally: %w", err)
	}
	return "/" + dest, nil
}

func (s *CatalogService) ExerciseByID(id string) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := s.DB.First(&exercise, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (s *CatalogService) ListExercises(category string) ([]models.Exercise, error) {
	var exercises []models.Exercise
	q := s.DB.Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", strings.ToLower(category))
	}
	err := q.Find(&exercises).Error
	return exercises, err
}

// DeleteExercise is blocked while the append-only activity log references the
// exercise.
func (s *CatalogService) DeleteExercise(id string) error {
	exercise, err := s.ExerciseByID(id)
	if err != nil {
		return err
	}

	var activities int64
	if err := s.DB.Model(&models.ActivityLog{}).Where("exercise_id = ?", id).Count(&activities).Error; err != nil {
		return err
	}
	if activities > 0 {
		return fmt.Errorf("exercise %s has %d logged activities: %w", exercise.Slug, activities, ErrConstraintViolation)
	}
	return s.DB.Delete(exercise).Error
}
