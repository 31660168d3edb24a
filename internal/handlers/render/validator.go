package render

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dateonly", validateDateOnly)
	v.RegisterTagNameFunc(useJSONTagNames)
	return v
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// validateDateOnly accepts calendar dates in strict YYYY-MM-DD form
func validateDateOnly(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	_, err := time.Parse(time.DateOnly, value)
	return err == nil
}
