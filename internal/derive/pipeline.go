package derive

import (
	"log/slog"
	"maps"
	"sort"
	"strings"
)

// Step computes derived variables from the working mapping and returns only
// the keys it produced. Steps never mutate their input.
type Step struct {
	Name string
	Run  func(data map[string]string) (map[string]string, error)

	// NonFatal steps may fail without aborting the pipeline; their keys
	// simply stay absent and the validator decides later whether that is
	// fatal. Country resolution is the one deliberate case.
	NonFatal bool
}

// Pipeline applies an ordered list of derivation steps to raw form input.
// Results merge left to right with documented precedence: later steps win.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// NewPipeline builds the standard derivation pipeline against a country
// table. Order matters: the time chain runs before time-format enforcement
// so the chain's HH:mm outputs are normalized with everything else.
func NewPipeline(countries map[string]CountryInfo, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger: logger,
		steps: []Step{
			{Name: "country", Run: countryStep(countries), NonFatal: true},
			{Name: "dates", Run: dateStep},
			{Name: "distance", Run: distanceStep},
			{Name: "time_chain", Run: timeChainStep},
			{Name: "meeting_type", Run: meetingTypeStep},
			{Name: "time_format", Run: timeFormatStep},
		},
	}
}

// Steps returns the configured step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Run derives all computed variables from raw input. The returned mapping is
// a new map holding the input plus every derived key; the input is never
// mutated.
func (p *Pipeline) Run(input map[string]string) (map[string]string, error) {
	data := make(map[string]string, len(input))
	maps.Copy(data, input)

	for _, step := range p.steps {
		derived, err := step.Run(data)
		if err != nil {
			if step.NonFatal {
				p.logger.Warn("derivation step failed, continuing without its keys",
					"step", step.Name, "error", err)
				continue
			}
			return nil, err
		}
		maps.Copy(data, derived)
	}
	return data, nil
}

func countryStep(countries map[string]CountryInfo) func(map[string]string) (map[string]string, error) {
	return func(data map[string]string) (map[string]string, error) {
		country := data[VarCountry]
		if country == "" {
			country = data["country"]
		}
		if country == "" {
			return nil, nil
		}
		return ResolveCountry(countries, country)
	}
}

func dateStep(data map[string]string) (map[string]string, error) {
	value, ok := data[VarEventDate]
	if !ok || value == "" {
		return nil, nil
	}

	out := make(map[string]string, 3)
	if data[VarDateOfFR] == "" {
		fr, err := FormatDateOfFR(value)
		if err != nil {
			return nil, err
		}
		out[VarDateOfFR] = fr
	}
	if data[VarEventDay] == "" {
		day, err := DeriveEventDay(value)
		if err != nil {
			return nil, err
		}
		out[VarEventDay] = day
	}
	// Reformat the event date itself only when it still looks ISO.
	if strings.Contains(value, "-") {
		formatted, err := FormatEventDate(value)
		if err != nil {
			return nil, err
		}
		out[VarEventDate] = formatted
	}
	return out, nil
}

func distanceStep(data map[string]string) (map[string]string, error) {
	km, ok := data[VarDistanceKm]
	if !ok || km == "" {
		return nil, nil
	}
	if data[VarDistanceMiles] != "" {
		return nil, nil
	}
	miles, err := ConvertKmToMiles(km)
	if err != nil {
		return nil, err
	}
	return map[string]string{VarDistanceMiles: miles}, nil
}

// timeChainStep seeds the booking/report chain from the first available
// start-time field so every action type is covered.
func timeChainStep(data map[string]string) (map[string]string, error) {
	if data[VarStartTimeReport] != "" {
		return nil, nil
	}

	seed := data[VarStartTimeBooking]
	if seed == "" {
		var candidates []string
		for key := range data {
			if strings.HasPrefix(key, "Start_Time_") || key == "Event_Time" {
				candidates = append(candidates, key)
			}
		}
		// Deterministic pick when several seeds are present.
		sort.Strings(candidates)
		for _, key := range candidates {
			if v := strings.TrimSpace(data[key]); v != "" {
				seed = v
				break
			}
		}
	}
	if seed == "" {
		return nil, nil
	}
	return RunTimeAutomation(seed)
}

func meetingTypeStep(data map[string]string) (map[string]string, error) {
	value, ok := data[VarMeetingType]
	if !ok {
		return nil, nil
	}
	canonical, err := ResolveMeetingType(value)
	if err != nil {
		return nil, err
	}
	return map[string]string{VarMeetingType: canonical}, nil
}

// timeFormatStep normalizes every clock-time variable to HHMM. Values that
// already carry an "h" duration marker (Total_Time and friends) are left
// alone.
func timeFormatStep(data map[string]string) (map[string]string, error) {
	out := make(map[string]string)
	for key, value := range data {
		if !strings.Contains(key, "Time") || value == "" {
			continue
		}
		if strings.Contains(value, "h") {
			continue
		}
		if !strings.Contains(value, ":") {
			continue
		}
		formatted, err := EnforceTimeFormat(value)
		if err != nil {
			return nil, err
		}
		out[key] = formatted
	}
	return out, nil
}
