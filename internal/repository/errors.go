package repository

import (
	"errors"

	"skill-swap/internal/model"

	"gorm.io/gorm"
)

// translateNotFound 将记录不存在转换为业务 NotFound 错误
func translateNotFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewNotFoundError(resource, id)
	}
	return err
}
