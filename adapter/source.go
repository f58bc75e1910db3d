package adapter

import (
	"fmt"
	"sync"

	"github.com/yaotthaha/ipsetd/log"
)

// Source turns messages from some transport into set membership changes.
type Source interface {
	Tag() string
	Type() string
	Starter
	Closer
}

type CreateSourceFunc func(tag string, manager SetManager, logger log.ContextLogger, options any) (Source, error)

var (
	sourceMap     = make(map[string]CreateSourceFunc)
	sourceMapLock sync.RWMutex
)

func RegisterSource(typ string, f CreateSourceFunc) {
	sourceMapLock.Lock()
	defer sourceMapLock.Unlock()
	sourceMap[typ] = f
}

func NewSource(typ string, tag string, manager SetManager, logger log.ContextLogger, options any) (Source, error) {
	sourceMapLock.RLock()
	f, ok := sourceMap[typ]
	sourceMapLock.RUnlock()
	if !ok {
		return nil, fmt.Errorf("invalid source type: %s", typ)
	}
	return f(tag, manager, logger, options)
}

func GetAllSource() []string {
	sourceMapLock.RLock()
	defer sourceMapLock.RUnlock()
	ret := make([]string, 0, len(sourceMap))
	for k := range sourceMap {
		ret = append(ret, k)
	}
	return ret
}
