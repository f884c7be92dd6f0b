package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/log"
)

var ErrUnknownKind = errors.New("unknown error kind")

// Kind classifies a failure. The set is closed.
type Kind string

const (
	KindInitialization Kind = "initialization"
	KindNetwork        Kind = "network"
	KindGameLogic      Kind = "gameLogic"
	KindStorage        Kind = "storage"
	KindAudio          Kind = "audio"
	KindUnknown        Kind = "unknown"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindInitialization, KindNetwork, KindGameLogic, KindStorage, KindAudio, KindUnknown:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, s)
	}
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ErrorSink receives every classified failure.
type ErrorSink interface {
	Record(kind Kind, message string, severity Severity, cause error)
}

// Record is one entry kept by LogSink.
type Record struct {
	Kind     Kind      `json:"kind"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Cause    string    `json:"cause,omitempty"`
	At       time.Time `json:"at"`
}

// LogSinkCapacity bounds the records a LogSink keeps.
const LogSinkCapacity = 50

// LogSink logs every record and keeps the most recent ones.
type LogSink struct {
	lock    sync.Mutex
	logger  *log.Logger
	records []Record
	now     func() time.Time
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.With("errors")
	}
	return &LogSink{
		logger: logger,
		now:    time.Now,
	}
}

func (s *LogSink) Record(kind Kind, message string, severity Severity, cause error) {
	r := Record{
		Kind:     kind,
		Message:  message,
		Severity: severity,
		At:       s.now(),
	}
	if cause != nil {
		r.Cause = cause.Error()
	}

	switch severity {
	case SeverityCritical, SeverityHigh:
		s.logger.Error("[%s/%s] %s: %v", kind, severity, message, cause)
	case SeverityMedium:
		s.logger.Warn("[%s/%s] %s: %v", kind, severity, message, cause)
	default:
		s.logger.Info("[%s/%s] %s: %v", kind, severity, message, cause)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.records = append(s.records, r)
	if len(s.records) > LogSinkCapacity {
		s.records = s.records[len(s.records)-LogSinkCapacity:]
	}
}

// Records returns a copy of the kept records, oldest first.
func (s *LogSink) Records() []Record {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Record(nil), s.records...)
}
