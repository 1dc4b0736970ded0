package logger

import (
	"flag"
	"path"
	"time"

	"k8s.io/klog/v2"
)

// Constants for logging.
const (
	Name = "Cluster Simulator"

	LogDir  = "logs"
	LogName = "simga"

	LogToStderr     = "false"
	AlsoLogtoStderr = "true"
	V               = "4"
)

var initialized bool

// Usage:
// logger.InitLogger()
// log := logger.GetLogger().WithName("xxx").WithValues("xxx", xxx)
// defer logger.Flush()
// ...do some logging

// InitLogger initializes the logger with constants for logging. Safe to
// call more than once; later calls are no-ops.
func InitLogger() {
	if initialized {
		return
	}
	initialized = true

	logName := LogName + "-" + time.Now().Format("20060102-150405") + ".log"
	logPath := path.Join(LogDir, logName)

	klog.InitFlags(nil)
	flag.Set("v", V)
	flag.Set("log_file", logPath)
	flag.Set("logtostderr", LogToStderr)
	flag.Set("alsologtostderr", AlsoLogtoStderr)
	flag.Parse()
}

// GetLogger returns the package-wide structured logger.
func GetLogger() klog.Logger {
	return klog.Background().WithName(Name)
}

// Flush flushes all pending log I/O.
func Flush() {
	klog.Flush()
}
