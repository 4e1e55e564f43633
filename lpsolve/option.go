package lpsolve

import "errors"

type Option func(*Model) error

func WithLogger(logger Logger) Option {
	return func(m *Model) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		m.logger = logger

		return nil
	}
}
