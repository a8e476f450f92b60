package handlers

import (
	"strconv"

	"fit-competition-system/middleware"
	"fit-competition-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupActivityRoutes(app *fiber.App, progressionService *services.ProgressionService) {
	// 🔐 Secured routes — require user context forwarded by the Gateway
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/activities", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			ExerciseID    string   `json:"exercise_id"`
			ChallengeID   string   `json:"challenge_id,omitempty"`
			SubmissionKey string   `json:"submission_key,omitempty"`
			Quantity      *int     `json:"quantity,omitempty"`
			Sets          *int     `json:"sets,omitempty"`
			WeightKg      *float64 `json:"weight_kg,omitempty"`
			DurationSecs  *int     `json:"duration_secs,omitempty"`
			Calories      *int     `json:"calories,omitempty"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.ExerciseID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "exercise_id is required",
			})
		}

		result, err := progressionService.LogActivity(services.LogActivityInput{
			ExternalUserID: userID,
			ExerciseID:     req.ExerciseID,
			ChallengeID:    req.ChallengeID,
			SubmissionKey:  req.SubmissionKey,
			Quantity:       req.Quantity,
			Sets:           req.Sets,
			WeightKg:       req.WeightKg,
			DurationSecs:   req.DurationSecs,
			Calories:       req.Calories,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		progress, err := progressionService.GetMemberProgress(userID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(progress)
	})

	securedGroup.Get("/user/activities", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		history, err := progressionService.GetRecentActivities(userID, page, size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(history)
	})
}
