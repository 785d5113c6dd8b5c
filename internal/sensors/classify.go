package sensors

import (
	"strings"

	"github.com/urbansense/siteimpact/internal/models"
)

// prefixRule maps a sensor-name prefix to its derived category.
type prefixRule struct {
	Prefix string
	Type   models.SensorType
}

// classifierRules is the explicit prefix → category table. Longer prefixes
// must come before shorter ones that they contain. New sensor families are
// added here without touching call sites.
var classifierRules = []prefixRule{
	{"PER_INTERNAL_BUILDING", models.TypeBuilding},
	{"PER_BUILDING", models.TypeBuilding},
	{"PER_TTN", models.TypeAirQuality},
	{"PER_AIRMON", models.TypeAirQuality},
	{"PER_PEOPLE", models.TypePeople},
	{"PER_NE_CAJT", models.TypeVehicles},
}

// Classify derives the sensor type from its name prefix, defaulting to Other.
func Classify(sensorID string) models.SensorType {
	for _, rule := range classifierRules {
		if strings.HasPrefix(sensorID, rule.Prefix) {
			return rule.Type
		}
	}
	return models.TypeOther
}

// ClassifyAll returns a copy of the input with the Type annotation filled in.
// The input slice is not modified.
func ClassifyAll(locations []models.SensorLocation) []models.SensorLocation {
	out := make([]models.SensorLocation, len(locations))
	for i, loc := range locations {
		loc.Type = Classify(loc.ID)
		out[i] = loc
	}
	return out
}
