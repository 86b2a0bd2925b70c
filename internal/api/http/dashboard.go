package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/fire-risk-dashboard/internal/dashboard"
	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
	"github.com/i474232898/fire-risk-dashboard/internal/store"
)

// DashboardConfig configures the HTML pages.
type DashboardConfig struct {
	Renderer       *dashboard.Renderer
	Profiles       *dashboard.Profiles
	DefaultVariant string
	FeedEditURL    string
	Refresh        time.Duration
}

// RegisterDashboard serves the dashboard at / (default variant) and
// /v/:variant. ?theme=dark selects the dark palette.
func RegisterDashboard(app *fiber.App, service RiskService, cfg DashboardConfig) {
	render := func(c *fiber.Ctx, variant string) error {
		profile, err := cfg.Profiles.Get(variant)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		in := dashboard.Input{
			Profile:     profile,
			Dark:        c.Query("theme") == "dark",
			Status:      service.Status(),
			Station:     service.Station(),
			FeedEditURL: cfg.FeedEditURL,
			Refresh:     cfg.Refresh,
			Now:         service.Now(),
		}
		latest, err := service.GetLatest()
		switch {
		case err == nil:
			in.Latest = &latest
		case !errors.Is(err, store.ErrNotFound):
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch assessment")
		}

		c.Type("html", "utf-8")
		return cfg.Renderer.Render(c, dashboard.BuildView(in))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return render(c, cfg.DefaultVariant)
	})
	app.Get("/v/:variant", func(c *fiber.Ctx) error {
		return render(c, c.Params("variant"))
	})
}

var _ RiskService = (*firerisk.Service)(nil)
