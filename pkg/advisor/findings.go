package advisor

import (
	"fmt"

	"github.com/opscart/stack-advisor/pkg/models"
)

// Warn builds a WARN finding for a property
func Warn(configName, message string) models.Finding {
	return models.Finding{Level: models.LevelWarn, ConfigName: configName, Message: message}
}

// Error builds an ERROR finding for a property
func Error(configName, message string) models.Finding {
	return models.Finding{Level: models.LevelError, ConfigName: configName, Message: message}
}

// EqualsRecommended warns when a property is set to something other than its
// recommended default. Missing values on either side produce nothing.
func EqualsRecommended(props, recommended models.Properties, name string) []models.Finding {
	value, ok := props[name]
	if !ok {
		return nil
	}
	want, ok := recommended[name]
	if !ok || value == want {
		return nil
	}
	return []models.Finding{
		Warn(name, fmt.Sprintf("It is recommended to set value %s for property %s", want, name)),
	}
}
