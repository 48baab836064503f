package calendar

import (
	"context"
	"time"
)

//go:generate mockgen -source=provider.go -destination=mock/provider_mock.go -package=mock

// Provider answers whether a date is a non-working day for a country.
// The real provider is an external collaborator; StaticProvider is the
// config-driven default used when none is wired.
type Provider interface {
	IsNonWorkingDay(ctx context.Context, date time.Time, countryCode string) (bool, error)
}

// StaticProvider derives non-working days from a weekend pattern plus a
// fixed holiday list, both resolved once at process start.
type StaticProvider struct {
	weekend  map[time.Weekday]bool
	holidays map[string]bool // keyed by countryCode + "/" + YYYY-MM-DD
}

func NewStaticProvider(weekendDays []time.Weekday, holidays map[string][]string) *StaticProvider {
	if len(weekendDays) == 0 {
		weekendDays = []time.Weekday{time.Saturday, time.Sunday}
	}
	weekend := make(map[time.Weekday]bool, len(weekendDays))
	for _, d := range weekendDays {
		weekend[d] = true
	}

	hs := make(map[string]bool)
	for country, dates := range holidays {
		for _, d := range dates {
			hs[country+"/"+d] = true
		}
	}

	return &StaticProvider{weekend: weekend, holidays: hs}
}

func (p *StaticProvider) IsNonWorkingDay(ctx context.Context, date time.Time, countryCode string) (bool, error) {
	if p.weekend[date.Weekday()] {
		return true, nil
	}
	return p.holidays[countryCode+"/"+date.Format("2006-01-02")], nil
}
