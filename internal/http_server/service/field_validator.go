// Package service
package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	c "github.com/half-nothing/event-logistics/internal/interfaces/config"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	. "github.com/half-nothing/event-logistics/internal/interfaces/service"
)

type FieldValidator struct {
	Min, Max          int
	ErrShort, ErrLong *ApiStatus
}

func (v *FieldValidator) CheckString(value string) *ApiStatus {
	length := len(value)
	if length > v.Max {
		return v.ErrLong
	}
	if length < v.Min {
		return v.ErrShort
	}
	return nil
}

func (v *FieldValidator) CheckInt(value int) *ApiStatus {
	if value > v.Max {
		return v.ErrLong
	}
	if value < v.Min {
		return v.ErrShort
	}
	return nil
}

const flightStatusTag = "flight_status"

// Validator 结构体标签校验加上配置中的长度限制
type Validator struct {
	validate          *validator.Validate
	usernameValidator *FieldValidator
	passwordValidator *FieldValidator
	pageSizeValidator *FieldValidator
}

func NewValidator(config *c.HttpServerLimit) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation(flightStatusTag, func(fl validator.FieldLevel) bool {
		return operation.FlightStatus(fl.Field().String()).IsValid()
	})
	return &Validator{
		validate: validate,
		usernameValidator: &FieldValidator{
			Min:      config.UsernameLengthMin,
			Max:      config.UsernameLengthMax,
			ErrShort: &ApiStatus{StatusName: "USERNAME_TOO_SHORT", Description: "username is too short", HttpCode: BadRequest},
			ErrLong:  &ApiStatus{StatusName: "USERNAME_TOO_LONG", Description: "username is too long", HttpCode: BadRequest},
		},
		passwordValidator: &FieldValidator{
			Min:      config.PasswordLengthMin,
			Max:      config.PasswordLengthMax,
			ErrShort: &ApiStatus{StatusName: "PASSWORD_TOO_SHORT", Description: "password is too short", HttpCode: BadRequest},
			ErrLong:  &ApiStatus{StatusName: "PASSWORD_TOO_LONG", Description: "password is too long", HttpCode: BadRequest},
		},
		pageSizeValidator: &FieldValidator{
			Min:      1,
			Max:      config.PageSizeMax,
			ErrShort: &ErrIllegalParam,
			ErrLong:  &ApiStatus{StatusName: "PAGE_SIZE_TOO_LARGE", Description: "page_size is too large", HttpCode: BadRequest},
		},
	}
}

// CheckStruct 非法状态值单独映射为 ErrInvalidFlightStatus, 缺少必填字段映射为 ErrLackParam
func (v *Validator) CheckStruct(data interface{}) (*ApiStatus, error) {
	err := v.validate.Struct(data)
	if err == nil {
		return nil, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &ErrIllegalParam, err
	}
	for _, fieldError := range validationErrors {
		if fieldError.Tag() == flightStatusTag {
			return &ErrInvalidFlightStatus, nil
		}
	}
	for _, fieldError := range validationErrors {
		if fieldError.Tag() == "required" {
			return &ErrLackParam, fieldError
		}
	}
	return &ErrIllegalParam, validationErrors[0]
}

func (v *Validator) CheckPage(page PageArguments) *ApiStatus {
	if page.Page <= 0 {
		return &ErrIllegalParam
	}
	return v.pageSizeValidator.CheckInt(page.PageSize)
}
