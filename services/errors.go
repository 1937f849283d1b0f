package services

import "errors"

// 业务错误类型，views层据此映射HTTP状态码
var (
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type bizError struct {
	kind error
	msg  string
}

func (e *bizError) Error() string { return e.msg }
func (e *bizError) Unwrap() error { return e.kind }

func Forbiddenf(msg string) error  { return &bizError{kind: ErrForbidden, msg: msg} }
func Validationf(msg string) error { return &bizError{kind: ErrValidation, msg: msg} }
func NotFoundf(msg string) error   { return &bizError{kind: ErrNotFound, msg: msg} }
func Conflictf(msg string) error   { return &bizError{kind: ErrConflict, msg: msg} }
