package utils

import (
	"io"
	"sync"
)

// flushable is implemented by buffered writers that can force pending
// output to their destination.
type flushable interface {
	Flush() error
}

// FlushingWriter serializes writes to the wrapped writer and flushes it
// after every write so progress output appears immediately.
type FlushingWriter struct {
	destination io.Writer
	writeGuard  sync.Mutex
}

// NewFlushingWriter wraps writer. A writer that is already a FlushingWriter
// is returned unchanged; a nil writer yields a nil io.Writer.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if wrapped, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return wrapped
	}
	return &FlushingWriter{destination: writer}
}

// Write forwards data to the wrapped writer and flushes when supported.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.destination == nil {
		return 0, nil
	}

	flushingWriter.writeGuard.Lock()
	defer flushingWriter.writeGuard.Unlock()

	writtenByteCount, writeError := flushingWriter.destination.Write(data)
	if writeError != nil {
		return writtenByteCount, writeError
	}

	if flushableDestination, canFlush := flushingWriter.destination.(flushable); canFlush {
		writeError = flushableDestination.Flush()
	}

	return writtenByteCount, writeError
}
