// Package log provides the leveled loggers of the path tracer. Each package
// logs under its own module name (see the Module constants) so verbosity can
// be raised for one stage, such as scene loading, without flooding the render
// output.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level logging.Level

// Module names used by the packages of this repository
const (
	ModuleCLI      = "pathtracer"
	ModuleMain     = "main"
	ModuleLoaders  = "loaders"
	ModuleRenderer = "renderer"
	ModuleOutput   = "output"
)

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// The internal leveled logger backend
var leveledBackend logging.LeveledBackend

// Per-module overrides, reapplied when the sink changes
var moduleLevels = make(map[string]logging.Level)

var currentSink io.Writer = os.Stderr

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Override the backend output sink. The current level is kept.
func SetSink(sink io.Writer) {
	level := logging.NOTICE
	if leveledBackend != nil {
		level = leveledBackend.GetLevel("")
	}

	currentSink = sink
	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	leveledBackend.SetLevel(level, "")
	for module, moduleLevel := range moduleLevels {
		leveledBackend.SetLevel(moduleLevel, module)
	}
	logging.SetBackend(leveledBackend)
}

// Set logger verbosity for every module without an override.
func SetLevel(level Level) {
	leveledBackend.SetLevel(level.toLogging(), "")
}

// Set the verbosity of a single module, e.g. ModuleLoaders.
func SetModuleLevel(module string, level Level) {
	moduleLevels[module] = level.toLogging()
	leveledBackend.SetLevel(moduleLevels[module], module)
}

// Drop all per-module overrides.
func ResetModuleLevels() {
	clear(moduleLevels)
	SetSink(currentSink)
}

func (level Level) toLogging() logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
	SetLevel(Notice)
}
