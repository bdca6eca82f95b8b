package schedule

import (
	"strings"
	"time"

	"github.com/ligaflagmx/liga-api/internal/domain"
)

var diaNames = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
}

// DefaultDias is used when a request does not restrict weekdays.
var DefaultDias = []time.Weekday{time.Saturday, time.Sunday}

// ParseDias maps Spanish weekday names to time.Weekday values.
func ParseDias(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, ok := diaNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, &domain.ValidationError{Field: "dias", Reason: "unknown weekday " + name}
		}
		out = append(out, d)
	}
	return out, nil
}
