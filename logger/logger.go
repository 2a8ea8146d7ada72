// Package logger provides the process-wide zerolog.Logger used across
// voicecore: console-pretty in development, JSON in production, never
// blocking a caller on slow output.
package logger

import (
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// asyncWriter performs writes on a background goroutine so a slow sink
// (piped stdout, a remote collector) never stalls the caller. A full
// buffer drops the entry rather than blocking.
type asyncWriter struct {
	ch     chan []byte
	writer io.Writer
}

func newAsyncWriter(w io.Writer, bufSize int) *asyncWriter {
	aw := &asyncWriter{ch: make(chan []byte, bufSize), writer: w}
	go aw.drain()
	return aw
}

func (aw *asyncWriter) drain() {
	for p := range aw.ch {
		aw.writer.Write(p) //nolint:errcheck
	}
}

func (aw *asyncWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	select {
	case aw.ch <- buf:
	default:
		// drop rather than block the orchestrator loop
	}
	return len(p), nil
}

var once sync.Once
var log zerolog.Logger

// Level reads VOICECORE_LOG_LEVEL (a zerolog.Level integer), defaulting to
// Info when unset or unparsable.
func Level() zerolog.Level {
	n, err := strconv.Atoi(os.Getenv("VOICECORE_LOG_LEVEL"))
	if err != nil {
		return zerolog.InfoLevel
	}
	return zerolog.Level(n)
}

// Get returns the process-wide logger, building it on first call.
// VOICECORE_LOG_FORMAT=json selects structured JSON output; anything else
// (including unset) selects the human-readable console writer.
func Get() zerolog.Logger {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var sink io.Writer = os.Stdout
		if os.Getenv("VOICECORE_LOG_FORMAT") != "json" {
			sink = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		}

		log = zerolog.New(newAsyncWriter(sink, 1024)).
			Level(Level()).
			With().
			Timestamp().
			Logger()
	})
	return log
}
