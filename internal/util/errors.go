package util

import (
	"errors"
	"fmt"
)

// 合约错误种类，Error() 即种类名，外部调用方按子串匹配
var (
	ErrNotFound          = errors.New("NotFound")
	ErrAlreadyExists     = errors.New("AlreadyExists")
	ErrInvalidOperation  = errors.New("InvalidOperation")
	ErrIncorrectSolution = errors.New("IncorrectSolution")
	ErrUnauthorized      = errors.New("Unauthorized")
	ErrMalformed         = errors.New("Malformed")
	ErrAlreadyIssued     = errors.New("AlreadyIssued")
	ErrNoRandomness      = errors.New("NoRandomness")
)

var errorKinds = []error{
	ErrNotFound,
	ErrAlreadyExists,
	ErrInvalidOperation,
	ErrIncorrectSolution,
	ErrUnauthorized,
	ErrMalformed,
	ErrAlreadyIssued,
	ErrNoRandomness,
}

// Errorf 包装错误种类，结果形如 "IncorrectSolution: Incorrect solution"
func Errorf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// ErrorKind 返回错误种类名，非合约错误返回 "Internal"
func ErrorKind(err error) string {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "Internal"
}
