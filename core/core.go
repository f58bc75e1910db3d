package core

import (
	"context"
	"fmt"
	"time"

	"github.com/yaotthaha/ipsetd/adapter"
	"github.com/yaotthaha/ipsetd/ipset"
	"github.com/yaotthaha/ipsetd/log"
	"github.com/yaotthaha/ipsetd/option"
	"github.com/yaotthaha/ipsetd/source"

	"github.com/fatih/color"
)

type Core struct {
	ctx       context.Context
	logger    log.Logger
	manager   *ipset.Manager
	apiServer *APIServer
	sources   map[string]adapter.Source
	sourceArr []adapter.Source
}

var _ adapter.Core = (*Core)(nil)

func init() {
	source.Register()
}

func New(ctx context.Context, logger log.Logger, options option.Option) (*Core, error) {
	core := &Core{
		ctx:    ctx,
		logger: log.NewTagLogger(logger, "core"),
	}
	if clogger, isSetColorLogger := core.logger.(log.SetColorLogger); isSetColorLogger {
		clogger.SetColor(color.FgYellow)
	}
	// Init Backend
	service, err := NewService(options.BackendOptions)
	if err != nil {
		return nil, fmt.Errorf("init backend fail: %s", err)
	}
	managerLogger := log.NewTagLogger(logger, fmt.Sprintf("ipset/%s", options.BackendOptions.Type))
	if clogger, isSetColorLogger := managerLogger.(log.SetColorLogger); isSetColorLogger {
		clogger.SetColor(color.FgCyan)
	}
	core.manager = ipset.NewManager(service, log.NewContextLogger(managerLogger))
	// Init API Server
	apiServer, err := NewAPIServer(ctx, core.manager, logger, options.APIOptions)
	if err != nil {
		return nil, fmt.Errorf("init api server fail: %s", err)
	}
	core.apiServer = apiServer
	// Init Sources
	core.sources = make(map[string]adapter.Source)
	core.sourceArr = make([]adapter.Source, 0, len(options.SourceOptions))
	for _, s := range options.SourceOptions {
		if s.Tag == "" {
			return nil, fmt.Errorf("init source fail: tag is empty")
		}
		if _, ok := core.sources[s.Tag]; ok {
			return nil, fmt.Errorf("init source fail: tag %s duplicated", s.Tag)
		}
		tagLogger := log.NewTagLogger(logger, fmt.Sprintf("source/%s", s.Tag))
		if clogger, isSetColorLogger := tagLogger.(log.SetColorLogger); isSetColorLogger {
			clogger.SetColor(color.FgBlue)
		}
		src, err := adapter.NewSource(s.Type, s.Tag, core.manager, log.NewContextLogger(tagLogger), s.Options())
		if err != nil {
			return nil, fmt.Errorf("init source %s fail: %s", s.Tag, err)
		}
		if wc, ok := src.(adapter.WithContext); ok {
			wc.WithContext(ctx)
		}
		core.sources[s.Tag] = src
		core.sourceArr = append(core.sourceArr, src)
	}
	if len(core.sourceArr) == 0 && options.APIOptions.Listen == "" {
		core.logger.Warn("no source and no api server configured, nothing will change the sets")
	}
	return core, nil
}

func (c *Core) Manager() adapter.SetManager {
	return c.manager
}

func (c *Core) GetSource(tag string) adapter.Source {
	return c.sources[tag]
}

func (c *Core) ListSource() []adapter.Source {
	return c.sourceArr
}

func (c *Core) Run() error {
	c.logger.Info("core start")
	startTime := time.Now()
	defer c.logger.Info("core close")
	startFatalCtx, startFatalCancel := context.WithCancelCause(c.ctx)
	defer startFatalCancel(nil)
	for i, s := range c.sourceArr {
		if fatalStarter, ok := s.(adapter.FatalStarter); ok {
			fatalStarter.WithFatalCloser(startFatalCancel)
		}
		err := s.Start()
		if err != nil {
			c.closeSources(c.sourceArr[:i])
			return fmt.Errorf("source [%s] start fail: %s", s.Tag(), err)
		}
		c.logger.Info(fmt.Sprintf("source [%s] start", s.Tag()))
	}
	defer c.closeSources(c.sourceArr)
	c.apiServer.WithFatalCloser(startFatalCancel)
	err := c.apiServer.Start()
	if err != nil {
		return fmt.Errorf("api server start fail: %s", err)
	}
	defer func() {
		err := c.apiServer.Close()
		if err != nil {
			c.logger.Error(fmt.Sprintf("api server close fail: %s", err))
		}
	}()
	c.logger.Info(fmt.Sprintf("core is running, cost %s", time.Since(startTime).String()))
	select {
	case <-startFatalCtx.Done():
		if c.ctx.Err() == nil {
			return context.Cause(startFatalCtx)
		}
	case <-c.ctx.Done():
	}
	return nil
}

// closeSources closes in reverse start order.
func (c *Core) closeSources(sources []adapter.Source) {
	for i := range sources {
		s := sources[len(sources)-1-i]
		err := s.Close()
		if err != nil {
			c.logger.Error(fmt.Sprintf("source [%s] close fail: %s", s.Tag(), err))
		}
		c.logger.Info(fmt.Sprintf("source [%s] close", s.Tag()))
	}
}
