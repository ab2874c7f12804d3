package action

// Log is the append-only record of every action result in a run.
// It has a single writer: the pipeline's thread of control.
type Log struct {
	entries   []Result
	observers []func(Result)
}

// NewLog creates a log. Each observer is called, in order, with every
// recorded result.
func NewLog(observers ...func(Result)) *Log {
	return &Log{observers: observers}
}

// Record appends r, notifies observers and returns r.
func (l *Log) Record(r Result) Result {
	l.entries = append(l.entries, r)
	for _, observe := range l.observers {
		observe(r)
	}
	return r
}

// Entries returns a copy of the recorded results in order.
func (l *Log) Entries() []Result {
	out := make([]Result, len(l.entries))
	copy(out, l.entries)
	return out
}

// Count returns the number of recorded results of kind k.
func (l *Log) Count(k Kind) int {
	n := 0
	for _, r := range l.entries {
		if r.Kind == k {
			n++
		}
	}
	return n
}

// Summary aggregates the log by outcome.
type Summary struct {
	Created   int `json:"created" yaml:"created"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	BackedUp  int `json:"backedUp" yaml:"backedUp"`
	Simulated int `json:"simulated" yaml:"simulated"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Total returns the number of results summarized.
func (s Summary) Total() int {
	return s.Created + s.Skipped + s.BackedUp + s.Simulated + s.Failed
}

// Summary returns outcome counts for the log.
func (l *Log) Summary() Summary {
	return Summary{
		Created:   l.Count(Created),
		Skipped:   l.Count(Skipped),
		BackedUp:  l.Count(BackedUp),
		Simulated: l.Count(Simulated),
		Failed:    l.Count(Failed),
	}
}
