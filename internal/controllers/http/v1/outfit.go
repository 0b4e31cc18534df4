package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"weather-outfit/internal/generative"
	"weather-outfit/internal/jobs"
	"weather-outfit/internal/models"
	"weather-outfit/internal/services/outfit"
)

// OutfitRequest is the body of POST /outfit. Weather temperatures are Celsius.
type OutfitRequest struct {
	Weather  *models.WeatherSnapshot   `json:"weather"`
	Unit     string                    `json:"unit" example:"metric"`
	Style    string                    `json:"style" example:"Casual"`
	Gender   string                    `json:"gender" example:"female"`
	Location *models.LocationSelection `json:"location,omitempty"`
}

// OutfitResponse is the terminal answer for an outfit request
type OutfitResponse struct {
	Text     string  `json:"text" example:"A light waterproof trench over a knit..."`
	ImageURL *string `json:"imageUrl" example:"https://example.com/outfit.png"`
	Key      string  `json:"key" example:"9f2c..."`
	Source   string  `json:"source" example:"generated"`
}

// JobAcceptedResponse is returned with 202 while a job runs
type JobAcceptedResponse struct {
	Status string `json:"status" example:"pending"`
	ID     string `json:"id,omitempty" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
}

func (req OutfitRequest) input() (outfit.Input, string) {
	if req.Weather == nil {
		return outfit.Input{}, "Missing required field: weather"
	}
	if err := req.Weather.Validate(); err != nil {
		return outfit.Input{}, "Invalid weather: " + err.Error()
	}
	style, err := models.ParseStyle(req.Style)
	if err != nil {
		return outfit.Input{}, "Style must be one of Stylish, Casual, Sporty, Formal"
	}
	gender, err := models.ParseGender(req.Gender)
	if err != nil {
		return outfit.Input{}, "Gender must be female or male"
	}
	unit, err := models.ParseUnit(req.Unit)
	if err != nil {
		return outfit.Input{}, "Unit must be metric or imperial"
	}

	in := outfit.Input{
		Weather:     *req.Weather,
		Preferences: models.OutfitPreferences{Style: style, Gender: gender},
		Unit:        unit,
	}
	if req.Location != nil {
		in.Location = *req.Location
	}
	return in, ""
}

func newOutfitResponse(res outfit.Result) OutfitResponse {
	image := res.Suggestion.ImageURL
	// Static images are served by this service under the assets prefix.
	if res.Source == outfit.SourceStatic && image != nil && !strings.Contains(*image, "://") {
		image = models.StringPtr("/" + strings.TrimPrefix(*image, "/"))
	}
	return OutfitResponse{
		Text:     res.Suggestion.Text,
		ImageURL: image,
		Key:      res.Hash,
		Source:   string(res.Source),
	}
}

// PostOutfit godoc
// @Summary Suggest an outfit
// @Description Produces an outfit suggestion for the given weather and preferences.
// @Description Send "Prefer: respond-async" to get a job handle to poll instead.
// @Tags Outfit
// @Accept json
// @Produce json
// @Param Prefer header string false "respond-async for deferred mode"
// @Param request body OutfitRequest true "Weather and preferences"
// @Success 200 {object} OutfitResponse "Suggestion"
// @Success 202 {object} JobAcceptedResponse "Accepted, poll the Location header"
// @Failure 400 {object} ErrorResponse "Bad request - invalid body"
// @Failure 429 {object} ErrorResponse "Generative backend rate limited"
// @Failure 502 {object} ErrorResponse "Generative backend failure"
// @Router /outfit [post]
func (r *routes) handleOutfit(c *fiber.Ctx) error {
	var req OutfitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid JSON body"})
	}
	in, msg := req.input()
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	if r.deferred || strings.Contains(strings.ToLower(c.Get("Prefer")), generative.PreferAsync) {
		id := r.jobs.Submit(c.UserContext(), func(ctx context.Context) (outfit.Result, error) {
			return r.suggester.Suggest(ctx, in)
		})
		r.l.Debug("outfit job accepted", map[string]any{"job": id, "key": outfit.NewRequestKey(in).String()})

		c.Location("/outfit/jobs/" + id)
		return c.Status(fiber.StatusAccepted).JSON(JobAcceptedResponse{Status: string(jobs.StatusPending), ID: id})
	}

	res, err := r.suggester.Suggest(c.UserContext(), in)
	if err != nil {
		return r.outfitFailure(c, err)
	}
	return c.JSON(newOutfitResponse(res))
}

// GetOutfitJob godoc
// @Summary Poll an outfit job
// @Tags Outfit
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} OutfitResponse "Suggestion"
// @Success 202 {object} JobAcceptedResponse "Still running"
// @Failure 404 {object} ErrorResponse "Unknown job"
// @Failure 429 {object} ErrorResponse "Generative backend rate limited"
// @Failure 502 {object} ErrorResponse "Generative backend failure"
// @Router /outfit/jobs/{id} [get]
func (r *routes) handleOutfitJob(c *fiber.Ctx) error {
	job, ok := r.jobs.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Job not found"})
	}

	switch job.Status {
	case jobs.StatusPending:
		return c.Status(fiber.StatusAccepted).JSON(JobAcceptedResponse{Status: string(jobs.StatusPending)})
	case jobs.StatusFailed:
		return r.outfitFailure(c, job.Err)
	}
	return c.JSON(newOutfitResponse(job.Value))
}

func (r *routes) outfitFailure(c *fiber.Ctx, err error) error {
	if generative.IsRateLimited(err) {
		r.l.Warning("outfit generation rate limited", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
			Error: "Outfit generation is rate limited, try again later",
		})
	}

	r.l.Error(err)
	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Error: "Failed to generate outfit suggestion",
	})
}
