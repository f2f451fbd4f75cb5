package alerting

import (
	"errors"
	"fmt"

	"github.com/crestwatch/surfcast/internal/database"
)

// ValidateAlert enforces the well-formedness the evaluator assumes:
// exactly one of properties/star rating is populated, matching the alert
// type. It runs at the creation boundary; malformed alerts never reach
// evaluation.
func ValidateAlert(a *database.Alert) error {
	if a.UserID == "" {
		return errors.New("alert requires a user")
	}
	if a.RegionID == 0 {
		return errors.New("alert requires a region")
	}

	switch a.NotificationMethod {
	case database.NotifyEmail, database.NotifyWhatsApp, database.NotifyApp:
	default:
		return fmt.Errorf("unknown notification method %q", a.NotificationMethod)
	}

	switch a.AlertType {
	case database.AlertTypeVariables:
		if len(a.Properties) == 0 {
			return errors.New("variables alert requires at least one property condition")
		}
		if a.StarRating != "" {
			return errors.New("variables alert must not set a star rating")
		}
		for _, prop := range a.Properties {
			if !KnownProperty(prop.Property) {
				return fmt.Errorf("unknown forecast property %q", prop.Property)
			}
		}
	case database.AlertTypeRating:
		if a.StarRating != database.StarRating4Plus && a.StarRating != database.StarRating5 {
			return fmt.Errorf("star rating must be %q or %q", database.StarRating4Plus, database.StarRating5)
		}
		if len(a.Properties) != 0 {
			return errors.New("rating alert must not set property conditions")
		}
	default:
		return fmt.Errorf("unknown alert type %q", a.AlertType)
	}

	return nil
}
