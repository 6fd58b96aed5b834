package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/gigmarket/gigmarket/internal/modules/model"
)

var registerOnce sync.Once

// RegisterValidations adds the marketplace tags to gin's validator:
//
//	tier  one of Basic, Standard, Premium
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
			return model.Tier(fl.Field().String()).Valid()
		})
	})
}
