package routes

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"quill-notes/quill/models"
)

// noterole accepts the two role strings the account tier model defines.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("noterole", func(fl validator.FieldLevel) bool {
			switch models.RoleType(fl.Field().String()) {
			case models.SimpleUserRole, models.AdminRole:
				return true
			}
			return false
		})
	}
}
