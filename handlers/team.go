package handlers

import (
	"fit-competition-system/middleware"
	"fit-competition-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTeamRoutes(app *fiber.App, teamService *services.TeamService) {
	app.Get("/teams", func(c *fiber.Ctx) error {
		teams, err := teamService.ListTeams()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(teams)
	})

	app.Get("/teams/:id", func(c *fiber.Ctx) error {
		team, err := teamService.GetTeam(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(team)
	})

	app.Get("/teams/:id/roster", func(c *fiber.Ctx) error {
		members, err := teamService.Roster(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"members": members})
	})

	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/teams", func(c *fiber.Ctx) error {
		type Req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		team, err := teamService.CreateTeam(req.Name, req.Description)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(team)
	})

	securedGroup.Post("/teams/:id/join", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		membership, err := teamService.JoinTeam(userID, c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(membership)
	})

	securedGroup.Post("/teams/leave", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := teamService.LeaveTeam(userID); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "left team"})
	})
}
