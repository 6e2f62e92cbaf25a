// Package derive computes template variables from raw form input: country
// metadata, the booking/report time chain, date renderings, unit conversion
// and enum canonicalization. Every derivation is a pure function over its
// input; the Pipeline composes them with an explicit precedence.
package derive

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for derivation-stage input failures. These are domain
// errors: their messages are suitable for direct display to the form
// submitter.
var (
	ErrUnsupportedCountry = errors.New("unsupported country")
	ErrInvalidTimeFormat  = errors.New("invalid time format")
	ErrInvalidDistance    = errors.New("invalid distance")
	ErrInvalidMeetingType = errors.New("invalid meeting type")
)

// Variable names produced by the derivation steps.
const (
	VarCountryStandardTime      = "Country_Standard_Time"
	VarCountryCode              = "Country_Code"
	VarCountryStandardTimeShort = "Country_Standard_Time_Short"
	VarCountryCurrency          = "COUNTRY_CURRENCY_SHORT_NAME"

	VarEndTimeBooking   = "End_Time_For_Booking_Venue"
	VarStartTimeReport  = "Start_Time_For_Report_Preparation"
	VarEndTimeReport    = "End_Time_For_Report_Preparation"
	VarTotalTime        = "Total_Time"
	VarServiceTime      = "Service_Time"
	VarStartTimeBooking = "Start_Time_For_Booking_Venue"
	VarEventDate        = "Event_Date"
	VarEventDay         = "Event_Day"
	VarDateOfFR         = "Date_of_FR"
	VarDistanceKm       = "Distance_In_Kilometres"
	VarDistanceMiles    = "Distance_In_Miles"
	VarMeetingType      = "Meeting_Type"
	VarCountry          = "Country"
)

// CountryInfo holds the four derived values for one registered country.
type CountryInfo struct {
	StandardTime      string `yaml:"standard_time"`
	DialingCode       string `yaml:"dialing_code"`
	StandardTimeShort string `yaml:"standard_time_short"`
	Currency          string `yaml:"currency"`
}

// ResolveCountry looks a country up in the registered table and returns its
// four derived variables.
func ResolveCountry(countries map[string]CountryInfo, name string) (map[string]string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: country must be a non-empty string", ErrUnsupportedCountry)
	}

	info, ok := countries[trimmed]
	if !ok {
		supported := make([]string, 0, len(countries))
		for c := range countries {
			supported = append(supported, c)
		}
		sort.Strings(supported)
		return nil, fmt.Errorf("%w: %q. Supported: %s", ErrUnsupportedCountry, name, strings.Join(supported, ", "))
	}

	return map[string]string{
		VarCountryStandardTime:      info.StandardTime,
		VarCountryCode:              info.DialingCode,
		VarCountryStandardTimeShort: info.StandardTimeShort,
		VarCountryCurrency:          info.Currency,
	}, nil
}

const (
	bookingDurationMinutes = 15
	reportDurationMinutes  = 5
)

var hhmmRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// RunTimeAutomation derives the booking/report time chain from a start time.
// The booking slot runs a fixed 15 minutes, report preparation starts when
// the booking ends and runs a fixed 5 minutes. Total elapsed time is
// formatted as "{h}h{m}m". Only two short additions are made, so wrapping
// within the reference day cannot occur for valid input.
func RunTimeAutomation(startTime string) (map[string]string, error) {
	trimmed := strings.TrimSpace(startTime)
	if !hhmmRe.MatchString(trimmed) {
		return nil, fmt.Errorf("%w: %q. Expected format: HH:mm", ErrInvalidTimeFormat, startTime)
	}

	start, err := time.Parse("15:04", trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q. Expected format: HH:mm", ErrInvalidTimeFormat, startTime)
	}

	endBooking := start.Add(bookingDurationMinutes * time.Minute)
	endReport := endBooking.Add(reportDurationMinutes * time.Minute)

	totalMinutes := bookingDurationMinutes + reportDurationMinutes
	total := fmt.Sprintf("%dh%dm", totalMinutes/60, totalMinutes%60)

	return map[string]string{
		VarStartTimeBooking: start.Format("15:04"),
		VarEndTimeBooking:   endBooking.Format("15:04"),
		VarStartTimeReport:  endBooking.Format("15:04"),
		VarEndTimeReport:    endReport.Format("15:04"),
		VarTotalTime:        total,
		VarServiceTime:      total,
	}, nil
}

// dateLayouts are the accepted ISO-like inputs for date derivation.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

func parseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", value)
}

// FormatDateOfFR renders a date as "02 January 2006".
func FormatDateOfFR(value string) (string, error) {
	t, err := parseDate(value)
	if err != nil {
		return "", err
	}
	return t.Format("02 January 2006"), nil
}

// FormatEventDate renders a date as "January 02, 2006".
func FormatEventDate(value string) (string, error) {
	t, err := parseDate(value)
	if err != nil {
		return "", err
	}
	return t.Format("January 02, 2006"), nil
}

// DeriveEventDay returns the weekday name of a date.
func DeriveEventDay(value string) (string, error) {
	t, err := parseDate(value)
	if err != nil {
		return "", err
	}
	return t.Format("Monday"), nil
}

const kmToMiles = 0.621371

// ConvertKmToMiles converts a kilometre distance to miles with two decimal
// places. The conversion factor is fixed, not user-configurable.
func ConvertKmToMiles(km string) (string, error) {
	num, err := strconv.ParseFloat(strings.TrimSpace(km), 64)
	if err != nil || num < 0 {
		return "", fmt.Errorf("%w: km must be a non-negative number, got %q", ErrInvalidDistance, km)
	}
	return strconv.FormatFloat(roundTo2(num*kmToMiles), 'f', 2, 64), nil
}

func roundTo2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

var canonicalMeetingTypes = map[string]string{
	"virtual":   "Virtual",
	"in person": "In Person",
	"none":      "",
}

// ResolveMeetingType canonicalizes a meeting type for template output. "None"
// resolves to the empty string so the rendered document carries no residue
// instead of the literal word.
func ResolveMeetingType(value string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	canonical, ok := canonicalMeetingTypes[key]
	if !ok {
		return "", fmt.Errorf("%w: %q. Allowed: virtual, in person, none", ErrInvalidMeetingType, value)
	}
	return canonical, nil
}

var (
	timeDigitsRe    = regexp.MustCompile(`^\d{3,4}$`)
	timeSeparatorRe = regexp.MustCompile(`[\s:]`)
)

// EnforceTimeFormat strips separators from an HH:mm value and zero-pads to
// four digits, e.g. "8:30" -> "0830". Applied to every template variable
// whose name contains "Time" and whose value is a plain clock time.
func EnforceTimeFormat(value string) (string, error) {
	stripped := timeSeparatorRe.ReplaceAllString(value, "")
	if !timeDigitsRe.MatchString(stripped) {
		return "", fmt.Errorf("%w: %q. Expected HH:mm or HHMM", ErrInvalidTimeFormat, value)
	}

	padded := strings.Repeat("0", 4-len(stripped)) + stripped
	hours, _ := strconv.Atoi(padded[:2])
	minutes, _ := strconv.Atoi(padded[2:])
	if hours > 23 || minutes > 59 {
		return "", fmt.Errorf("%w: %q. Hours 00-23, minutes 00-59", ErrInvalidTimeFormat, value)
	}
	return padded, nil
}
