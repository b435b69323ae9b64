// Package eventlog appends decoded/encoded codes to a daily CSV log, the
// "decode event log" external collaborator named in SPEC_FULL.md.
//
// Grounded on the teacher's log.go: daily file names opened for append,
// a header row written only when the file is new, one CSV row per event.
// Unlike the teacher (which hand-formats "2006-01-02.log" with
// time.Format), this package names daily files with
// github.com/lestrrat-go/strftime, since Non-goals never bind ambient
// concerns — see DESIGN.md.
package eventlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"

	"github.com/flirc/irdecoder/ir"
)

// defaultPattern matches the teacher's "2006-01-02.log" daily name.
const defaultPattern = "%Y-%m-%d.log"

// Log appends one CSV row per decoded/encoded Code to a daily-named file
// under Dir, opening (and writing a header into) a new file whenever the
// day rolls over.
type Log struct {
	Dir     string
	Pattern string

	mu       sync.Mutex
	file     *os.File
	writer   *csv.Writer
	openName string
	strf     *strftime.Strftime
}

var header = []string{"utime", "isotime", "protocol", "name", "fields", "repeat", "frequency"}

// New constructs a Log writing daily files under dir, named per pattern (a
// strftime pattern; "" uses the teacher-equivalent "%Y-%m-%d.log").
func New(dir, pattern string) (*Log, error) {
	if pattern == "" {
		pattern = defaultPattern
	}
	strf, err := strftime.New(pattern)
	if err != nil {
		return nil, err
	}
	return &Log{Dir: dir, Pattern: pattern, strf: strf}, nil
}

// Write appends one row for code, opening (or rolling over to) today's
// file as needed.
func (l *Log) Write(code ir.Code, repeat bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	fname := l.strf.FormatString(now)

	if l.file != nil && fname != l.openName {
		l.closeLocked()
	}

	if l.file == nil {
		if err := l.openLocked(fname); err != nil {
			return err
		}
	}

	protocolName := ""
	if code.Protocol != nil {
		protocolName = code.Protocol.Name
	}

	row := []string{
		strconv.FormatInt(now.UnixMicro(), 10),
		now.Format(time.RFC3339),
		protocolName,
		code.Name,
		code.Hex(),
		strconv.FormatBool(repeat),
		strconv.Itoa(code.Frequency),
	}
	if err := l.writer.Write(row); err != nil {
		return err
	}
	l.writer.Flush()
	return l.writer.Error()
}

func (l *Log) openLocked(fname string) error {
	fullPath := filepath.Join(l.Dir, fname)

	_, statErr := os.Stat(fullPath)
	alreadyThere := statErr == nil

	f, err := os.OpenFile(fullPath, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		log.Error("eventlog: can't open log file for write", "path", fullPath, "err", err)
		return err
	}

	l.file = f
	l.openName = fname
	l.writer = csv.NewWriter(f)

	if !alreadyThere {
		if err := l.writer.Write(header); err != nil {
			return err
		}
		l.writer.Flush()
	}
	return nil
}

func (l *Log) closeLocked() {
	if l.writer != nil {
		l.writer.Flush()
	}
	if l.file != nil {
		l.file.Close()
	}
	l.file = nil
	l.writer = nil
	l.openName = ""
}

// Close flushes and closes the currently open daily file, if any.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeLocked()
	return nil
}

