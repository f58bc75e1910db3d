package redis

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/yaotthaha/ipsetd/adapter"
	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/lib/tools"
	"github.com/yaotthaha/ipsetd/log"
	"github.com/yaotthaha/ipsetd/option/source"
	"github.com/yaotthaha/ipsetd/source/internal/message"

	"github.com/redis/go-redis/v9"
)

var (
	_ adapter.Source       = (*Redis)(nil)
	_ adapter.WithContext  = (*Redis)(nil)
	_ adapter.FatalStarter = (*Redis)(nil)
)

func init() {
	adapter.RegisterSource(constant.SourceRedis, NewRedis)
}

// Redis subscribes to the add/<set> and del/<set> channels of a redis server.
type Redis struct {
	tag         string
	ctx         context.Context
	logger      log.ContextLogger
	manager     adapter.SetManager
	fatalCloser func(error)

	address  string
	isUnix   bool
	password string
	database int
	channels []string

	redisClient *redis.Client
	pubSub      *redis.PubSub
	loopCtx     context.Context
	loopCancel  context.CancelFunc
	wg          sync.WaitGroup
}

func NewRedis(tag string, manager adapter.SetManager, logger log.ContextLogger, options any) (adapter.Source, error) {
	op, ok := options.(*source.RedisOptions)
	if !ok || op == nil {
		return nil, fmt.Errorf("invalid redis options")
	}
	if op.Address == "" {
		return nil, fmt.Errorf("address must be not empty")
	}
	if len(op.Sets) == 0 {
		return nil, fmt.Errorf("at least one set is required")
	}
	r := &Redis{
		tag:      tag,
		ctx:      context.Background(),
		logger:   logger,
		manager:  manager,
		password: op.Password,
		database: op.Database,
		channels: message.Topics(op.Sets),
	}
	address, err := netip.ParseAddrPort(op.Address)
	switch {
	case err == nil:
		r.address = address.String()
	case strings.HasPrefix(op.Address, "/"):
		r.address = op.Address
		r.isUnix = true
	default:
		r.address = op.Address
	}
	return r, nil
}

func (r *Redis) Tag() string {
	return r.tag
}

func (r *Redis) Type() string {
	return constant.SourceRedis
}

func (r *Redis) WithContext(ctx context.Context) {
	r.ctx = ctx
}

func (r *Redis) WithFatalCloser(f func(error)) {
	r.fatalCloser = f
}

func (r *Redis) Start() error {
	if r.isUnix {
		_, err := os.Stat(r.address)
		if err != nil {
			return fmt.Errorf("unix socket error: %s", err)
		}
	}
	opts := &redis.Options{
		Addr:     r.address,
		Password: r.password,
		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			r.logger.Debug("connect to redis")
			return nil
		},
		DB:           r.database,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		PoolSize:     4,
	}
	if r.isUnix {
		opts.Network = "unix"
	}
	c := redis.NewClient(opts)
	_, err := c.Ping(r.ctx).Result()
	if err != nil {
		c.Close()
		return fmt.Errorf("ping redis fail: %s", err)
	}
	pubSub := c.Subscribe(r.ctx, r.channels...)
	// wait for the subscription confirmation
	_, err = pubSub.Receive(r.ctx)
	if err != nil {
		pubSub.Close()
		c.Close()
		return fmt.Errorf("subscribe fail: %s", err)
	}
	r.redisClient = c
	r.pubSub = pubSub
	r.loopCtx, r.loopCancel = context.WithCancel(r.ctx)
	r.wg.Add(1)
	go r.loop()
	r.logger.Info(fmt.Sprintf("subscribed to %d channels", len(r.channels)))
	return nil
}

func (r *Redis) Close() error {
	if r.pubSub == nil {
		return nil
	}
	r.loopCancel()
	err := r.pubSub.Close()
	r.wg.Wait()
	if err != nil && !tools.IsCloseOrCanceled(err) {
		return fmt.Errorf("close subscription fail: %s", err)
	}
	err = r.redisClient.Close()
	if err != nil && !tools.IsCloseOrCanceled(err) {
		return fmt.Errorf("close redis fail: %s", err)
	}
	return nil
}

func (r *Redis) loop() {
	defer r.wg.Done()
	ch := r.pubSub.Channel()
	for {
		select {
		case <-r.loopCtx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				if r.loopCtx.Err() == nil && r.fatalCloser != nil {
					r.fatalCloser(fmt.Errorf("redis subscription closed"))
				}
				return
			}
			// manager errors are already logged
			_ = message.Handle(r.loopCtx, r.manager, r.logger, msg.Channel, []byte(msg.Payload))
		}
	}
}
