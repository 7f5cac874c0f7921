package teams

import (
	"encoding/json"
	"reflect"
	"strings"

	pkgerrors "github.com/campuskit/membership-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validateSettings = newSettingsValidator()

func newSettingsValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// recognizedSettings carries the team settings keys the service
// understands. Unknown keys are persisted untouched.
type recognizedSettings struct {
	MaxMembers         *int              `json:"max_members" validate:"omitempty,min=1"`
	AutoApprove        *bool             `json:"auto_approve"`
	NotificationEmails []string          `json:"notification_emails" validate:"omitempty,dive,email"`
	BusinessHours      map[string]string `json:"business_hours"`
}

// checkSettings validates the recognized keys of a settings map. Keys
// outside the recognized set pass through without inspection.
func checkSettings(settings map[string]any) error {
	if len(settings) == 0 {
		return nil
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid settings")
	}

	var known recognizedSettings
	if err := json.Unmarshal(raw, &known); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid settings").
			WithDetails(map[string]any{"error": err.Error()})
	}

	if err := validateSettings.Struct(known); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = settingsMessage(fieldErr)
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid settings").WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid settings")
	}
	return nil
}

func settingsMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
