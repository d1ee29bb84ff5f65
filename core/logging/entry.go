package logging

import "time"

// Entry is the input handed to a Formatter.
type Entry struct {
	Log     string
	Message string
	Tag     string
	Time    time.Time
	// Args holds listener specific formatter arguments; nil for the
	// log-level pass.
	Args map[string]string
}

// Formatter turns an entry into the line written by listeners.
type Formatter interface {
	Format(e Entry) (string, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(e Entry) (string, error)

func (f FormatterFunc) Format(e Entry) (string, error) { return f(e) }
