package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var (
	logrusOnce sync.Once
	std        *logrus.Logger
)

func logger() *logrus.Logger {
	logrusOnce.Do(func() {
		std = logrus.New()
		std.Out = os.Stderr
		std.Level = logrus.DebugLevel
	})
	return std
}

// Entry is a chainable log record builder. A nil *Entry absorbs every
// method call, so call sites pay no cost beyond the Enabled() check when a
// module's level is disabled.
type Entry struct {
	mod    Module
	lvl    Level
	msg    string
	fields logrus.Fields
}

func newEntry(mod Module, lvl Level, msg string) *Entry {
	if !mod.Enabled(lvl) {
		return nil
	}
	return &Entry{mod: mod, lvl: lvl, msg: msg, fields: make(logrus.Fields, 4)}
}

func (mod Module) DebugZ(msg string) *Entry { return newEntry(mod, DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *Entry  { return newEntry(mod, InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *Entry  { return newEntry(mod, WarnLevel, msg) }
func (mod Module) ErrorZ(msg string) *Entry { return newEntry(mod, ErrorLevel, msg) }
func (mod Module) FatalZ(msg string) *Entry { return newEntry(mod, FatalLevel, msg) }

func (e *Entry) Str(key, val string) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = val
	return e
}

func (e *Entry) Bool(key string, val bool) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = val
	return e
}

func (e *Entry) Int(key string, val int) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = val
	return e
}

func (e *Entry) Uint8(key string, val uint8) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = val
	return e
}

func (e *Entry) Uint16(key string, val uint16) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = val
	return e
}

func (e *Entry) Int64(key string, val int64) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = val
	return e
}

func (e *Entry) Hex8(key string, val uint8) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = fmt.Sprintf("%02x", val)
	return e
}

func (e *Entry) Hex16(key string, val uint16) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = fmt.Sprintf("%04x", val)
	return e
}

func (e *Entry) Err(err error) *Entry {
	if e == nil {
		return nil
	}
	e.fields["err"] = err
	return e
}

func (e *Entry) Blob(key string, b []byte) *Entry {
	if e == nil {
		return nil
	}
	e.fields[key] = strings.ToUpper(fmt.Sprintf("%x", b))
	return e
}

// End emits the accumulated entry.
func (e *Entry) End() {
	if e == nil {
		return
	}
	le := logger().WithField("mod", e.mod.String()).WithFields(e.fields)
	switch e.lvl {
	case DebugLevel:
		le.Debug(e.msg)
	case InfoLevel:
		le.Info(e.msg)
	case WarnLevel:
		le.Warn(e.msg)
	case ErrorLevel:
		le.Error(e.msg)
	case FatalLevel:
		le.Fatal(e.msg)
	}
}
