package notify

import (
	"context"
	"errors"
	"fmt"
)

// Multi fans an event out to every notifier. All notifiers are called even
// if one fails; the failures are joined.
type Multi []Notifier

// NewMulti drops nil notifiers. With nothing left it returns Nop.
func NewMulti(notifiers ...Notifier) Notifier {
	var m Multi
	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}
	switch len(m) {
	case 0:
		return Nop{}
	case 1:
		return m[0]
	}
	return m
}

func (m Multi) NotifyNewOrder(ctx context.Context, event NewOrderEvent) error {
	var errs []error
	for i, n := range m {
		if err := n.NotifyNewOrder(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (m Multi) NotifyStatusChanged(ctx context.Context, event StatusChangedEvent) error {
	var errs []error
	for i, n := range m {
		if err := n.NotifyStatusChanged(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
