package templates

import (
	"strings"
	"time"
)

// Brand carries the sender-side fields every email shows.
type Brand struct {
	CompanyName string
	AppName     string
	SupportURL  string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithChanges(changes []string) Option {
	return func(d *EmailData) { d.Changes = changes }
}

// NewBaseEmailData fills the common fields from brand, then applies opts.
func NewBaseEmailData(brand Brand, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        strings.TrimSpace(name),
		Email:       email,
		Type:        typ,
		CompanyName: brand.CompanyName,
		AppName:     brand.AppName,
		SupportURL:  brand.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(brand Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(brand, Welcome, name, email, opts...))
}

func NewProfileUpdatedData(brand Brand, name, email string, changes []string, opts ...Option) map[string]any {
	opts = append([]Option{WithChanges(changes)}, opts...)
	return ToMap(NewBaseEmailData(brand, ProfileUpdated, name, email, opts...))
}

func NewAccountDeletedData(brand Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(brand, AccountDeleted, name, email, opts...))
}
