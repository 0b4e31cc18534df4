package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"weather-outfit/pkg/logger"
)

const (
	_sentryMaxErrorDepth        int           = 9
	_sentryFlushTimeout         time.Duration = 5 * time.Second
	_sentryServerRequestTimeout time.Duration = 5 * time.Second
)

// SentryHook is an io.Writer that forwards error-level zap entries to Sentry.
// Attach it as one of the logger writers.
type SentryHook struct {
	appZone string
	appName string
	enabled bool
	capture func(*sentry.Event)
	l       *logger.Logger
}

func NewSentryHook(
	appZone, appName string,
	maxErrorDepth int,
	isDebug bool,
	dsn string,
) *SentryHook {
	h := &SentryHook{
		appZone: appZone,
		appName: appName,
		capture: func(e *sentry.Event) { sentry.CaptureEvent(e) },
	}
	if dsn == "" {
		log.Println("Stacktracer init error: no DSN")
		return h
	}
	if maxErrorDepth == 0 {
		maxErrorDepth = _sentryMaxErrorDepth
	}
	sentryTransport := sentry.NewHTTPTransport()
	sentryTransport.Timeout = _sentryServerRequestTimeout
	if err := sentry.Init(
		sentry.ClientOptions{
			AttachStacktrace: true,
			Debug:            isDebug,
			Dsn:              dsn,
			Environment:      appZone,
			MaxErrorDepth:    maxErrorDepth,
			ServerName:       appName,
			Transport:        sentryTransport,
		}); err != nil {

		log.Println("Stacktracer init error: ", err.Error())
		return h
	}
	log.Println("Stacktracer init success")
	h.enabled = true
	return h
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {

	switch zl {

	case zapcore.DebugLevel, zapcore.InvalidLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel:
		return sentry.LevelFatal

	}

	return sentry.LevelDebug
}

type entry struct {
	Level      string `json:"level"`
	AppName    string `json:"app_name"`
	AppZone    string `json:"app_zone"`
	CallerFile string `json:"caller_file"`
	CallerLine int    `json:"caller_line"`
	CallerFunc string `json:"caller_func"`
	Stack      string `json:"stack"`
	Message    string `json:"msg"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
}

func (h *SentryHook) Write(p []byte) (n int, err error) {
	if !h.enabled || (h.appZone != "prod" && h.appZone != "dev") {
		return len(p), nil
	}

	t := entry{}
	if err := json.Unmarshal(p, &t); err != nil {
		h.report(errors.New("[SentryHook] json.Unmarshal data"))
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(t.Level)
	if err != nil {
		h.report(errors.Wrap(err, "[SentryHook] parse zap level: "))
		return len(p), nil
	}
	if len(t.Message) == 0 {
		return len(p), nil
	}

	switch level {
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		h.capture(h.event(level, t))
	}

	return len(p), nil
}

func (h *SentryHook) event(level zapcore.Level, t entry) *sentry.Event {
	timestamp, _ := time.ParseInLocation(logger.TimeLayout, t.Timestamp, time.UTC)

	event := sentry.NewEvent()
	event.Extra["AppName"] = h.appName
	event.Environment = h.appZone
	event.Level = h.mapLevel(level)
	event.Timestamp = timestamp
	event.Message = t.Message
	event.Extra["Error"] = t.Error
	event.Extra["CallerFile"] = t.CallerFile
	event.Extra["CallerLine"] = t.CallerLine
	event.Extra["CallerFunc"] = t.CallerFunc
	event.Extra["Stack"] = t.Stack
	event.Extra["TimeStamp"] = t.Timestamp
	event.Exception = append(event.Exception, sentry.Exception{
		Type:       t.Message,
		Value:      t.Error,
		Stacktrace: sentry.NewStacktrace(),
	})
	return event
}

// report must not go through h.l at error level, it would loop back here.
func (h *SentryHook) report(err error) {
	if h.l != nil {
		h.l.Warning(err.Error())
		return
	}
	log.Println(err.Error())
}

func (h *SentryHook) SetLogger(l *logger.Logger) {
	if l != nil {
		h.l = l
	}
}

// Flush waits for buffered events to be delivered.
func (h *SentryHook) Flush() {
	if h.enabled {
		sentry.Flush(_sentryFlushTimeout)
	}
}
