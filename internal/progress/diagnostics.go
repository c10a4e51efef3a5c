package progress

import "github.com/abhisek/vocabz/internal/logger"

// DiagnosticsSink receives failures of background mirror writes. They are
// never returned to the caller of the mutation that triggered them.
type DiagnosticsSink interface {
	MirrorFailed(op, word string, err error)
}

// LogSink reports mirror failures to a logger.
type LogSink struct {
	Log *logger.Logger
}

func (s LogSink) MirrorFailed(op, word string, err error) {
	log := s.Log
	if log == nil {
		log = logger.Default()
	}
	log.WithPrefix("mirror").WithField("op", op).WithField("word", word).Warn("remote write failed: %v", err)
}

// SinkFunc adapts a function to DiagnosticsSink.
type SinkFunc func(op, word string, err error)

func (f SinkFunc) MirrorFailed(op, word string, err error) { f(op, word, err) }
