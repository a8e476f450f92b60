package handlers

import (
	"strconv"
	"time"

	"fit-competition-system/middleware"
	"fit-competition-system/models"
	"fit-competition-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the administrative CRUD surfaces: exercise catalog,
// level ladder, seasons and challenges. These are thin wrappers — the services
// enforce the referential-integrity rules the engine relies on.
func SetupAdminRoutes(app *fiber.App, catalogService *services.CatalogService, ladderService *services.LadderService, challengeService *services.ChallengeService) {
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	// --- Exercise catalog ---

	adminGroup.Post("/exercises", func(c *fiber.Ctx) error {
		difficulty, _ := strconv.Atoi(c.FormValue("difficulty_rank", "1"))
		in := services.ExerciseInput{
			Name:           c.FormValue("name"),
			Description:    c.FormValue("description"),
			Category:       c.FormValue("category"),
			DifficultyRank: difficulty,
		}
		if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
			in.Image = image
		}

		exercise, err := catalogService.CreateExercise(in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(exercise)
	})

	adminGroup.Put("/exercises/:id", func(c *fiber.Ctx) error {
		difficulty, _ := strconv.Atoi(c.FormValue("difficulty_rank", "0"))
		in := services.ExerciseInput{
			Name:           c.FormValue("name"),
			Description:    c.FormValue("description"),
			Category:       c.FormValue("category"),
			DifficultyRank: difficulty,
		}
		if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
			in.Image = image
		}

		exercise, err := catalogService.UpdateExercise(c.Params("id"), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(exercise)
	})

	adminGroup.Delete("/exercises/:id", func(c *fiber.Ctx) error {
		if err := catalogService.DeleteExercise(c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "exercise deleted"})
	})

	app.Get("/exercises", func(c *fiber.Ctx) error {
		exercises, err := catalogService.ListExercises(c.Query("category"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(exercises)
	})

	// --- Level ladder ---

	app.Get("/levels", func(c *fiber.Ctx) error {
		entries, err := ladderService.Entries()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(entries)
	})

	adminGroup.Post("/levels", func(c *fiber.Ctx) error {
		var entry models.LevelLadderEntry
		if err := c.BodyParser(&entry); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := ladderService.CreateEntry(&entry); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	adminGroup.Delete("/levels/:level", func(c *fiber.Ctx) error {
		level, err := strconv.Atoi(c.Params("level"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "level must be an integer",
			})
		}
		if err := ladderService.DeleteEntry(level); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "level deleted"})
	})

	// --- Seasons ---

	app.Get("/seasons", func(c *fiber.Ctx) error {
		seasons, err := challengeService.ListSeasons()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(seasons)
	})

	app.Get("/seasons/:id", func(c *fiber.Ctx) error {
		season, err := challengeService.GetSeason(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(season)
	})

	adminGroup.Post("/seasons", func(c *fiber.Ctx) error {
		in, err := parseWindowedInput(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		season, err := challengeService.CreateSeason(services.SeasonInput{
			Name:        in.Name,
			Description: in.Description,
			StartsAt:    in.StartsAt,
			EndsAt:      in.EndsAt,
			BannerURL:   in.ImageURL,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(season)
	})

	adminGroup.Delete("/seasons/:id", func(c *fiber.Ctx) error {
		if err := challengeService.DeleteSeason(c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "season deleted"})
	})

	// --- Challenges ---

	app.Get("/challenges", func(c *fiber.Ctx) error {
		challenges, err := challengeService.ListChallenges(c.Query("season_id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(challenges)
	})

	app.Get("/challenges/:id", func(c *fiber.Ctx) error {
		challenge, err := challengeService.GetChallenge(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(challenge)
	})

	adminGroup.Post("/challenges", func(c *fiber.Ctx) error {
		in, err := parseWindowedInput(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		challenge, err := challengeService.CreateChallenge(services.ChallengeInput{
			SeasonID:         in.SeasonID,
			Name:             in.Name,
			Description:      in.Description,
			StartsAt:         in.StartsAt,
			EndsAt:           in.EndsAt,
			IsTeamBased:      in.IsTeamBased,
			PointsMultiplier: in.PointsMultiplier,
			ImageURL:         in.ImageURL,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(challenge)
	})

	adminGroup.Delete("/challenges/:id", func(c *fiber.Ctx) error {
		if err := challengeService.DeleteChallenge(c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "challenge deleted"})
	})
}

type windowedInput struct {
	SeasonID         string    `json:"season_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	IsTeamBased      bool      `json:"is_team_based"`
	PointsMultiplier int64     `json:"points_multiplier"`
	ImageURL         string    `json:"image_url"`
}

func parseWindowedInput(c *fiber.Ctx) (*windowedInput, error) {
	var in windowedInput
	if err := c.BodyParser(&in); err != nil {
		return nil, err
	}
	if in.PointsMultiplier == 0 {
		in.PointsMultiplier = 1
	}
	return &in, nil
}
