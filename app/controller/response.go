package controller

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"ghuman-groceries/models"
)

const dayLayout = "2006-01-02"

// writeJSON prints v as indented JSON on the app's writer
func writeJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode response")
	}
	return nil
}

// fail logs err for op and turns it into a CLI exit error. Not-found and
// validation errors exit with 2, everything else with 1.
func fail(op string, err error) error {
	log.Errorf("❌ %s: %v", op, err)
	code := 1
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrSaleNotFound),
		errors.Is(err, models.ErrCreditorNotFound),
		errors.Is(err, models.ErrExpenseNotFound),
		errors.Is(err, models.ErrRestockItemNotFound),
		errors.Is(err, models.ErrPaymentNotFound),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidBackup):
		code = 2
	}
	return cli.Exit(err.Error(), code)
}

// requireString returns a required string flag
func requireString(c *cli.Context, name string) (string, error) {
	v := strings.TrimSpace(c.String(name))
	if v == "" {
		return "", cli.Exit("--"+name+" is required", 2)
	}
	return v, nil
}

// parseDay parses a YYYY-MM-DD flag in local time. An unset flag yields fallback.
func parseDay(c *cli.Context, name string, fallback time.Time) (time.Time, error) {
	v := c.String(name)
	if v == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(dayLayout, v, time.Local)
	if err != nil {
		return time.Time{}, cli.Exit("--"+name+" must be YYYY-MM-DD", 2)
	}
	return t, nil
}

// floatFlag returns a pointer to the flag value when it was set
func floatFlag(c *cli.Context, name string) *float64 {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Float64(name)
	return &v
}

// stringFlag returns a pointer to the flag value when it was set
func stringFlag(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

// boolFlag returns a pointer to the flag value when it was set
func boolFlag(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

// parseUnit accepts "units" or "kg"
func parseUnit(v string) (models.UnitType, error) {
	switch models.UnitType(strings.ToLower(v)) {
	case models.UnitUnits:
		return models.UnitUnits, nil
	case models.UnitKg:
		return models.UnitKg, nil
	}
	return "", cli.Exit("type must be units or kg, got "+strconv.Quote(v), 2)
}
