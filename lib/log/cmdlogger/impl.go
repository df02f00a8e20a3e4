package cmdlogger

import (
	"flag"
	"io"
	"log"
	"time"

	"github.com/arrayguard/parityscan/lib/format"
	"github.com/arrayguard/parityscan/lib/log/debuglogger"
)

func init() {
	flag.BoolVar(&stdOptions.Datestamps, "logDatestamps", false,
		"If true, prefix logs with datestamps")
	flag.IntVar(&stdOptions.DebugLevel, "logDebugLevel", -1, "Debug log level")
	flag.BoolVar(&stdOptions.Subseconds, "logSubseconds", false,
		"If true, datestamps will have subsecond resolution")
}

// datestampWriter prepends a formatted timestamp to every write, so the
// underlying *log.Logger can be built with no flags of its own.
type datestampWriter struct {
	w      io.Writer
	layout string
}

func (dw datestampWriter) Write(p []byte) (int, error) {
	prefixed := append([]byte(time.Now().Format(dw.layout)+": "), p...)
	if _, err := dw.w.Write(prefixed); err != nil {
		return 0, err
	}
	return len(p), nil
}

func newLogger(options Options) *debuglogger.Logger {
	if options.DebugLevel < -1 {
		options.DebugLevel = -1
	}
	if options.DebugLevel > 32767 {
		// Largest level the int16 in SetLevel holds; it already enables
		// every uint8 Debug level.
		options.DebugLevel = 32767
	}
	writer := options.Writer
	if options.Datestamps {
		layout := format.TimeFormatSeconds
		if options.Subseconds {
			layout = format.TimeFormatSubseconds
		}
		writer = datestampWriter{w: options.Writer, layout: layout}
	}
	logger := debuglogger.New(log.New(writer, "", 0))
	logger.SetLevel(int16(options.DebugLevel))
	return logger
}
