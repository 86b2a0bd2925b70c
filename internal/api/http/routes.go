package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
	"github.com/i474232898/fire-risk-dashboard/internal/store"
)

var validate = validator.New()

// RiskService is the part of firerisk.Service the handlers use.
type RiskService interface {
	Status() firerisk.CycleStatus
	Station() firerisk.Station
	Now() time.Time
	GetLatest() (firerisk.Assessment, error)
	GetRange(from, to time.Time) ([]firerisk.Assessment, error)
}

// RegisterRoutes wires the JSON API and the metrics endpoint into the Fiber app.
func RegisterRoutes(app *fiber.App, service RiskService) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	v1.Get("/risk/current", func(c *fiber.Ctx) error {
		status := service.Status()
		if status.Outcome == firerisk.OutcomeMissingColumns {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   true,
				"message": (&firerisk.MissingColumnsError{Missing: status.Missing}).Error(),
				"missing": status.Missing,
				"preview": status.Preview,
			})
		}

		assessment, err := service.GetLatest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				msg := "no assessment available yet"
				if status.Outcome == firerisk.OutcomeNoData {
					msg = firerisk.ErrEmptyData.Error()
				}
				return fiber.NewError(fiber.StatusNotFound, msg)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch assessment")
		}

		return c.JSON(fiber.Map{
			"assessment": assessment,
			"style":      firerisk.StyleForCode(assessment.Current.Code),
			"stale":      status.Supersedes(assessment),
		})
	})

	v1.Get("/risk/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		assessments, err := service.GetRange(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no assessments for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch assessment history")
		}

		return c.JSON(fiber.Map{
			"station":     service.Station(),
			"from":        req.From,
			"to":          req.To,
			"assessments": assessments,
			"summary":     firerisk.Summarize(assessments),
		})
	})

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(service.Status())
	})

	v1.Get("/legend", func(c *fiber.Ctx) error {
		return c.JSON(firerisk.Legend())
	})
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
