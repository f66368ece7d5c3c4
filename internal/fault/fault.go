package fault

import (
	"errors"
	"fmt"
)

// Kind classifies why an invocation failed.
type Kind int

const (
	Config Kind = iota + 1
	Validation
	Precondition
	Database
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Validation:
		return "validation"
	case Precondition:
		return "precondition"
	case Database:
		return "database"
	default:
		return "unknown"
	}
}

// Code is the process exit status reported for a failure site.
type Code int

const (
	Success                Code = 0
	Usage                  Code = 1
	UnknownEnvironment     Code = 5
	UnknownDatabase        Code = 6
	RestoreSnapshotMissing Code = 11
	ConnectionKillFailed   Code = 73
	NotOnlineForSnapshot   Code = 77
	NotOnlineForRestore    Code = 78
	DataFileSurveyFailed   Code = 79
	CleanSlateDropFailed   Code = 80
	SnapshotNotDestroyed   Code = 81
	SnapshotNotCreated     Code = 82
	SnapshotNotReplaced    Code = 83
	RefuseDropNonSnapshot  Code = 84
	DatabaseSurveyFailed   Code = 85
	SnapshotCreateFailed   Code = 86
	RestoreFailed          Code = 87
	DropFailed             Code = 88
)

// Error carries a failure kind plus the exit code for the site that raised it.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s failure (code %d)", e.Kind, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode satisfies urfave/cli's ExitCoder.
func (e *Error) ExitCode() int {
	return int(e.Code)
}

func Configf(code Code, format string, args ...interface{}) *Error {
	return &Error{Kind: Config, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validationf(code Code, format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Preconditionf(code Code, format string, args ...interface{}) *Error {
	return &Error{Kind: Precondition, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a database failure code to a driver error. The message is
// the short diagnostic extracted from err.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Kind: Database, Code: code, Message: message, Err: err}
}

// ExitCode maps err to a process exit status: 0 for nil, the carried code
// for an *Error anywhere in the chain, and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return int(Success)
	}
	var fe *Error
	if errors.As(err, &fe) {
		return int(fe.Code)
	}
	return int(Usage)
}

func IsKind(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

func HasCode(err error, code Code) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Code == code
}
