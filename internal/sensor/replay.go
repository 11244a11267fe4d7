package sensor

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Record is a recorded sample and its offset from the start of the
// recording.
type Record struct {
	At time.Duration
	Sample
}

// ParseRecords reads rows of t_ms,alpha,beta,gamma. A header row and blank
// lines are skipped. Offsets must not decrease.
func ParseRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []Record
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read orientation record")
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "t_ms") {
			continue
		}

		var vals [4]float64
		for i, field := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d field %d", line, i+1)
			}
			vals[i] = v
		}
		rec := Record{
			At:     time.Duration(vals[0] * float64(time.Millisecond)),
			Sample: Sample{Alpha: vals[1], Beta: vals[2], Gamma: vals[3]},
		}
		if len(out) > 0 && rec.At < out[len(out)-1].At {
			return nil, errors.Errorf("line %d: timestamp goes backwards", line)
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, errors.New("no orientation records")
	}
	return out, nil
}

// Replay plays recorded samples back in real time, looping forever.
type Replay struct {
	records []Record
	ch      chan Sample
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// OpenReplay loads a CSV recording from path and starts playing it.
func OpenReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open orientation recording")
	}
	defer f.Close()

	records, err := ParseRecords(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return NewReplay(records), nil
}

// NewReplay starts playing records.
func NewReplay(records []Record) *Replay {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Replay{
		records: records,
		ch:      make(chan Sample, 8),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go r.run(ctx)
	return r
}

func (r *Replay) Samples() <-chan Sample { return r.ch }

// Close stops playback. Safe to call more than once.
func (r *Replay) Close() error {
	r.once.Do(func() {
		r.cancel()
		<-r.done
	})
	return nil
}

func (r *Replay) run(ctx context.Context) {
	defer close(r.done)

	// A recording with a single timestamp still needs a period to loop on.
	period := r.records[len(r.records)-1].At + 50*time.Millisecond
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	start := time.Now()
	for lap := 0; ; lap++ {
		for _, rec := range r.records {
			due := start.Add(time.Duration(lap)*period + rec.At)
			timer.Reset(time.Until(due))
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			r.publish(rec.Sample)
		}
	}
}

// publish never blocks: when the buffer is full the oldest sample is dropped.
func (r *Replay) publish(s Sample) {
	for {
		select {
		case r.ch <- s:
			return
		default:
		}
		select {
		case <-r.ch:
		default:
		}
	}
}
