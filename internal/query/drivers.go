package query

import (
	"strings"

	gormModels "dispatch-app/backend/internal/models/gorm"
)

// FilterDrivers keeps drivers whose name, callsign, location, phone or email
// contains the search text. An empty search keeps everyone.
func FilterDrivers(drivers []gormModels.Driver, search string) []gormModels.Driver {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return drivers
	}

	out := make([]gormModels.Driver, 0, len(drivers))
	for _, d := range drivers {
		text := strings.ToLower(strings.Join([]string{d.Name, d.Callsign, d.Location, deref(d.Phone), deref(d.Email)}, " "))
		if strings.Contains(text, search) {
			out = append(out, d)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
