package handlers

import (
	"strconv"

	"fit-competition-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		seasonID := c.Query("season_id")
		challengeID := c.Query("challenge_id")
		if (seasonID == "") == (challengeID == "") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "exactly one of season_id or challenge_id is required",
			})
		}

		limit, _ := strconv.Atoi(c.Query("limit", "25"))
		cursor := c.Query("cursor")

		page, err := leaderboardService.GetLeaderboard(services.LeaderboardScope{
			SeasonID:    seasonID,
			ChallengeID: challengeID,
		}, limit, cursor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(page)
	})
}
