package audit

import (
	"context"
	"errors"
)

// FanoutSink appends to every target. All targets are attempted even when an
// earlier one fails; failures are joined so the caller sees each of them.
type FanoutSink struct {
	sinks []Sink
}

// NewFanoutSink combines sinks. Nil entries are dropped.
func NewFanoutSink(sinks ...Sink) *FanoutSink {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &FanoutSink{sinks: kept}
}

func (f *FanoutSink) Append(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Append(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
