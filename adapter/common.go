package adapter

import "context"

type Starter interface {
	Start() error
}

type Closer interface {
	Close() error
}

type WithContext interface {
	WithContext(context.Context)
}

type FatalStarter interface {
	WithFatalCloser(func(error))
}
