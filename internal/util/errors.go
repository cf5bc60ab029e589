package util

import "errors"

var (
	ErrUserNotFound       = errors.New("người dùng không tồn tại")
	ErrUsernameTaken      = errors.New("tên đăng nhập đã tồn tại")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrNotEnrolled        = errors.New("not enrolled")
	ErrScoreOutOfRange    = errors.New("score must be between 0 and 10")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)
