package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mihirmehra/employee-management-system/errors"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

const (
	dateLayout   = "2006-01-02"
	periodLayout = "2006-01"
)

var validate = newValidate()

func newValidate() *playground.Validate {
	v := playground.New()
	v.SetTagName("binding")
	if err := registerRules(v); err != nil {
		panic(err)
	}
	return v
}

// registerRules thêm các tag tự định nghĩa: date (YYYY-MM-DD), period (YYYY-MM).
// Lỗi dùng tên field theo json tag.
func registerRules(v *playground.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("date", layoutRule(dateLayout)); err != nil {
		return err
	}
	return v.RegisterValidation("period", layoutRule(periodLayout))
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func layoutRule(layout string) playground.Func {
	return func(fl playground.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse(layout, s)
		return err == nil
	}
}

// Setup đăng ký các tag tự định nghĩa cho validator mà gin dùng khi bind request
func Setup() error {
	engine, ok := binding.Validator.Engine().(*playground.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return registerRules(engine)
}

// Struct validate một struct ngoài luồng bind của gin
func Struct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate chuyển lỗi bind/validate thành AppError, details ghi field -> rule
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs playground.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Invalid request body", err)
	}

	fields := make([]string, 0, len(verrs))
	appErr := errors.NewAppError(errors.ErrCodeValidation, "", err)
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			appErr.Code = errors.ErrCodeRequiredField
		}
		field := lowerFirst(fe.Field())
		fields = append(fields, field)
		appErr.WithDetail(field, fe.Tag())
	}
	if appErr.Code == errors.ErrCodeRequiredField {
		appErr.Message = "Missing required fields: " + strings.Join(fields, ", ")
	} else {
		appErr.Message = "Invalid fields: " + strings.Join(fields, ", ")
	}
	return appErr
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
