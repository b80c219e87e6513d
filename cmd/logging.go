package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// newLogger builds the process logger. The TUI owns the terminal, so it logs
// to a file; the other commands log to w.
func newLogger(level string, file string, w io.Writer) (*log.Entry, func(), error) {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	logger.SetLevel(lvl)

	closer := func() {}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open log file")
		}
		logger.SetOutput(f)
		closer = func() { f.Close() }
	} else {
		logger.SetOutput(w)
	}
	return log.NewEntry(logger), closer, nil
}
