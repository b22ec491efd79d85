package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool // human readable output instead of JSON lines
}

// LogFile implements a file based logger with one rolling file per level group.
type LogFile struct {
	Enabled bool
	Path    string

	Access string // access log file name, written by the fiber adapter
	Error  string
	Info   string
	Trace  string
	Warn   string

	MaxSize    int // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the fiber access log to stdout.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log check alive calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	// File logging for non container environments.
	File LogFile
}
