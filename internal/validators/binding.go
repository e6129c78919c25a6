package validators

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/agenda-scheduler/internal/timeutil"
)

// RegisterBindings instala as tags customizadas no validador do gin.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding engine")
	}
	return RegisterOn(v)
}

// RegisterOn registra hhmm, ymd e phone.
func RegisterOn(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"hhmm":  isHHMM,
		"ymd":   isYMD,
		"phone": isPhone,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isHHMM(fl validator.FieldLevel) bool {
	_, err := timeutil.ToMinutes(fl.Field().String())
	return err == nil
}

func isYMD(fl validator.FieldLevel) bool {
	_, err := timeutil.ParseDate(fl.Field().String())
	return err == nil
}

func isPhone(fl validator.FieldLevel) bool {
	return NormalizePhone(fl.Field().String()) != ""
}
