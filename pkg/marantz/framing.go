package marantz

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

// Framing constants.
const (
	// LineTerminator ends every command and reply.
	LineTerminator = '\r'

	// MaxLineLength is the longest line accepted from the receiver.
	MaxLineLength = 135
)

// Framing errors.
var (
	// ErrLineTooLong indicates a reply exceeded MaxLineLength.
	ErrLineTooLong = errors.New("line too long")

	// ErrEmptyCommand indicates an attempt to send an empty command.
	ErrEmptyCommand = errors.New("empty command")
)

// LineWriter writes CR-terminated commands.
type LineWriter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewLineWriter creates a LineWriter on w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// WriteLine writes cmd followed by the line terminator.
// Thread-safe: can be called from multiple goroutines.
func (lw *LineWriter) WriteLine(cmd string) error {
	if cmd == "" {
		return ErrEmptyCommand
	}
	if strings.ContainsAny(cmd, "\r\n") {
		return ErrMalformedCommand
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()

	_, err := io.WriteString(lw.w, cmd+string(LineTerminator))
	return err
}

// LineReader reads CR-terminated replies. Stray line feeds, which some
// firmware sends after the carriage return, are dropped.
type LineReader struct {
	r *bufio.Reader
}

// NewLineReader creates a LineReader on r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, 256)}
}

// ReadLine returns the next non-empty line without its terminator.
func (lr *LineReader) ReadLine() (string, error) {
	for {
		var sb strings.Builder
		for {
			b, err := lr.r.ReadByte()
			if err != nil {
				return "", err
			}
			if b == LineTerminator {
				break
			}
			if b == '\n' {
				continue
			}
			if sb.Len() >= MaxLineLength {
				return "", ErrLineTooLong
			}
			sb.WriteByte(b)
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
}
