package service

import "errors"

// 业务错误，由 api 层映射为提示文案
var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyName         = errors.New("category name is required")
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrCategoryInUse     = errors.New("category is still used by expenses")
	ErrNoTemplates       = errors.New("no templates to apply")
	ErrNoCategories      = errors.New("no categories configured")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidFormat     = errors.New("invalid import file")
	ErrNoData            = errors.New("month has no entries to export")
)
