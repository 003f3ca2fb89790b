package validator

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"laborsync/backend/internal/labor"
	"laborsync/backend/internal/model"
)

// RegisterCustomValidations 注册所有自定义校验规则
func RegisterCustomValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"activity":     isActivity,
		"driver":       isDriver,
		"process_type": isProcessType,
		"log_type":     isLogType,
		"role":         isRole,
		"br_date":      isBRDate,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("注册校验规则 %s 失败: %w", tag, err)
		}
	}
	return nil
}

// RegisterGinValidations 将自定义规则挂载到 Gin 默认的 binding 校验器
func RegisterGinValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin binding 校验器类型不是 *validator.Validate")
	}
	return RegisterCustomValidations(v)
}

func isActivity(fl validator.FieldLevel) bool {
	return model.IsValidActivity(fl.Field().String())
}

func isDriver(fl validator.FieldLevel) bool {
	return model.IsValidDriver(fl.Field().String())
}

func isProcessType(fl validator.FieldLevel) bool {
	return model.IsValidProcessType(fl.Field().String())
}

func isLogType(fl validator.FieldLevel) bool {
	return model.IsValidLogType(fl.Field().String())
}

func isRole(fl validator.FieldLevel) bool {
	return model.IsValidRole(fl.Field().String())
}

// 空串交由 required 处理
func isBRDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(labor.DateLayout, s)
	return err == nil
}
