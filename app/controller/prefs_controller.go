package controller

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"ghuman-groceries/localstorage"
)

// PrefsController handles the prefs commands
type PrefsController struct {
	prefs *localstorage.Preferences
}

// NewPrefsController creates a new PrefsController
func NewPrefsController(prefs *localstorage.Preferences) *PrefsController {
	return &PrefsController{prefs: prefs}
}

// Get handles `prefs get`
func (pc *PrefsController) Get(c *cli.Context) error {
	dark, err := pc.prefs.DarkMode()
	if err != nil {
		return fail("GetPrefs", err)
	}
	name, err := pc.prefs.RecipientName()
	if err != nil {
		return fail("GetPrefs", err)
	}
	upiID, err := pc.prefs.UPIID()
	if err != nil {
		return fail("GetPrefs", err)
	}
	return writeJSON(c, map[string]interface{}{
		localstorage.KeyDarkMode:         dark,
		localstorage.KeyPaymentRecipient: name,
		localstorage.KeyPaymentUPIID:     upiID,
	})
}

// Set handles `prefs set --key K --value V`
func (pc *PrefsController) Set(c *cli.Context) error {
	key, err := requireString(c, "key")
	if err != nil {
		return err
	}
	value := c.String("value")

	switch key {
	case localstorage.KeyDarkMode:
		enabled, perr := strconv.ParseBool(value)
		if perr != nil {
			return cli.Exit("darkMode must be true or false", 2)
		}
		err = pc.prefs.SetDarkMode(enabled)
	case localstorage.KeyPaymentRecipient:
		err = pc.prefs.SetRecipientName(value)
	case localstorage.KeyPaymentUPIID:
		err = pc.prefs.SetUPIID(value)
	default:
		return cli.Exit("unknown preference "+strconv.Quote(key), 2)
	}
	if err != nil {
		return fail("SetPrefs", err)
	}
	return pc.Get(c)
}
