package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/fitlog/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
	// Stdout receives the logs when no log file is set, or next to the
	// file with LogToStdout. Defaults to os.Stderr, os.Stdout is left to
	// the command output and the mcp stdio transport.
	Stdout io.Writer
}

var sentryLevels = []logrus.Level{
	logrus.PanicLevel,
	logrus.FatalLevel,
	logrus.ErrorLevel,
}

// Setup configures the global logrus logger. The returned teardown flushes
// pending sentry events and closes the log file, it is safe to call once
// the command or server is done.
func Setup(params LoggerSetupParams) (teardown func()) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	sentryOn := params.SentryEnabled && setupSentry(params)

	out := params.Stdout
	if out == nil {
		out = os.Stderr
	}

	var logFile *lumberjack.Logger
	if params.LogFileName != "" {
		fileName := params.LogFileName
		if filepath.Ext(fileName) != ".log" {
			fileName += ".log"
		}
		logFile = &lumberjack.Logger{
			Filename:   fileName,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			Compress:   true,
		}
		if params.LogToStdout {
			out = pkg.NewCombinedWriter(out, logFile)
		} else {
			out = logFile
		}
	}
	logrus.SetOutput(out)

	return func() {
		if sentryOn {
			sentry.Flush(sentryFlushTimeout)
		}
		if logFile != nil {
			// logs after teardown still need a sink
			logrus.SetOutput(os.Stderr)
			if err := logFile.Close(); err != nil {
				logrus.Errorf("close log file: %s", err)
			}
		}
	}
}

func setupSentry(params LoggerSetupParams) bool {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return false
	}

	logrus.AddHook(NewSentryHook(sentryLevels))
	logrus.Debugln("sentry set up successfully")
	return true
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
