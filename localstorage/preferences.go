package localstorage

import "strconv"

const (
	DefaultRecipientName = "GURINDER SINGH"
	DefaultUPIID         = "ghumangroceries@pnb"
)

// Preferences exposes the UI preference keys. They are plain strings and are
// not part of the relational schema.
type Preferences struct {
	storage Storage
}

// NewPreferences creates Preferences backed by storage
func NewPreferences(storage Storage) *Preferences {
	return &Preferences{storage: storage}
}

func (p *Preferences) get(key, fallback string) (string, error) {
	v, ok, err := p.storage.GetItem(key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}

// DarkMode reports whether the dark theme is enabled
func (p *Preferences) DarkMode() (bool, error) {
	v, err := p.get(KeyDarkMode, "false")
	if err != nil {
		return false, err
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return false, nil
	}
	return enabled, nil
}

func (p *Preferences) SetDarkMode(enabled bool) error {
	return p.storage.SetItem(KeyDarkMode, strconv.FormatBool(enabled))
}

// RecipientName is the default payee shown on payment requests
func (p *Preferences) RecipientName() (string, error) {
	return p.get(KeyPaymentRecipient, DefaultRecipientName)
}

func (p *Preferences) SetRecipientName(name string) error {
	return p.storage.SetItem(KeyPaymentRecipient, name)
}

// UPIID is the default virtual payment address for payment requests
func (p *Preferences) UPIID() (string, error) {
	return p.get(KeyPaymentUPIID, DefaultUPIID)
}

func (p *Preferences) SetUPIID(id string) error {
	return p.storage.SetItem(KeyPaymentUPIID, id)
}
