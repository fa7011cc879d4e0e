// Package errs defines the error categories callers discriminate on.
package errs

import (
	"errors"
	"fmt"
)

// Kind is a structural error category.
type Kind int

const (
	Unknown Kind = iota
	AppDataDirUnavailable
	OpenDatabase
	SchemaVersionRead
	SchemaVersionWrite
	SchemaVersionParse
	Migration
	DatabaseRead
	DatabaseWrite
	ClipNotFound
	ClipboardRead
	ClipboardWrite
	Regexp
	OcrNotInitialised
	OcrEngineFull
	Path
	Export
	ConfigParse
)

var kindNames = map[Kind]string{
	Unknown:               "unknown error",
	AppDataDirUnavailable: "app data dir unavailable",
	OpenDatabase:          "open database",
	SchemaVersionRead:     "read schema version",
	SchemaVersionWrite:    "write schema version",
	SchemaVersionParse:    "parse schema version",
	Migration:             "migration",
	DatabaseRead:          "database read",
	DatabaseWrite:         "database write",
	ClipNotFound:          "clip not found",
	ClipboardRead:         "clipboard read",
	ClipboardWrite:        "clipboard write",
	Regexp:                "regexp",
	OcrNotInitialised:     "ocr engine not initialised",
	OcrEngineFull:         "ocr engine already initialised",
	Path:                  "path",
	Export:                "export",
	ConfigParse:           "config parse",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error carries a Kind along with the operation that failed.
// ID is set for clip-scoped failures.
type Error struct {
	Kind Kind
	Op   string
	ID   int64
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.ID != 0 {
		msg = fmt.Sprintf("%s (clip %d)", msg, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error. err may be nil.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds an *Error whose cause is a formatted message.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// NotFound reports a missing clip.
func NotFound(op string, id int64) error {
	return &Error{Kind: ClipNotFound, Op: op, ID: id}
}

// Is reports whether any error in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// KindOf returns the outermost kind found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
