package dto

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tu-usuario/contable-pro/internal/domain"
)

var rutPattern = regexp.MustCompile(`^[0-9]{12}$`)

// validate instancia única del motor de validación, configurada con el tag
// "rut" y con los nombres de campo tomados del tag json.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// RUT uruguayo de la sociedad controlante: exactamente 12 dígitos.
	_ = v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return rutPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate valida un DTO completo y devuelve un domain.Error de tipo
// VALIDATION_ERROR con todas las violaciones por campo (no se corta en la
// primera), o nil si es válido.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.NewInternal("validación: " + err.Error())
	}
	return domain.NewValidation(TranslateFieldErrors(vErrs))
}

// TranslateFieldErrors convierte los errores del validador en el mapa
// campo→mensajes del envelope de error. Los segmentos de ruta anidados se
// unen con ".".
func TranslateFieldErrors(vErrs validator.ValidationErrors) map[string][]string {
	details := make(map[string][]string, len(vErrs))
	for _, fe := range vErrs {
		field := fieldPath(fe.Namespace())
		details[field] = append(details[field], messageFor(fe))
	}
	return details
}

// fieldPath descarta el nombre del struct raíz del namespace del validador
// ("CreateGroupRequest.nombre" → "nombre").
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "min":
		return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("no debe superar %s caracteres", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "rut":
		return "debe tener exactamente 12 dígitos"
	default:
		return "es inválido"
	}
}
