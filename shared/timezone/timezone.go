// Package timezone pins every wall-clock computation (rules, exceptions, slot grids) to the
// zone named by APP_TIMEZONE. Instants are still stored in UTC.
package timezone

import (
	"time"

	"github.com/rs/zerolog/log"

	"appointly/config"
	"appointly/shared/constant"
)

var appLocation = time.UTC

func init() {
	if err := Use(config.Get().App.Timezone); err != nil {
		log.Error().Err(err).Msg("Failed to load APP_TIMEZONE, falling back to UTC")
	}
}

// Use switches the application zone. An empty name selects UTC; an unknown name leaves the
// current zone in place.
func Use(name string) error {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")
		appLocation = time.UTC

		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	appLocation = loc
	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return nil
}

func Now() time.Time {
	return time.Now().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

// Parse reads value as wall-clock time in the application zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// ParseDay parses a "YYYY-MM-DD" date as local midnight.
func ParseDay(value string) (time.Time, error) {
	return Parse(constant.DayFormat, value)
}

// AtMinute returns the wall-clock instant minutes after midnight of day. Minutes are applied to
// the clock face, so 09:00 stays 09:00 on a DST transition day. 1440 lands on the next midnight.
func AtMinute(day time.Time, minutes int) time.Time {
	year, month, date := ToAppTime(day).Date()

	return time.Date(year, month, date, minutes/60, minutes%60, 0, 0, appLocation)
}

// MinuteOfDay is the inverse of AtMinute.
func MinuteOfDay(t time.Time) int {
	local := ToAppTime(t)

	return local.Hour()*60 + local.Minute()
}
