package events

import (
	"context"
	"errors"
)

// MultiPublisher fans every event out to all of its publishers.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event LedgerEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}
