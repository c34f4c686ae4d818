package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Debug enables debug level on loggers created after it is set.
var Debug bool

// Output receives log lines. Tests redirect it to silence runs.
var Output io.Writer = os.Stderr

type Log struct {
	*logrus.Entry
}

func New(pkg string) Log {
	log := logrus.New()
	log.Out = Output
	log.Formatter = &logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true}
	if Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return Log{Entry: log.WithField("pkg", pkg)}
}
