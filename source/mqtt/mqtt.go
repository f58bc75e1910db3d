package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yaotthaha/ipsetd/adapter"
	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/log"
	"github.com/yaotthaha/ipsetd/option/source"
	"github.com/yaotthaha/ipsetd/source/internal/message"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	DefaultClientID       = "ipsetd"
	DefaultConnectTimeout = 10 * time.Second
	DefaultKeepAlive      = 30 * time.Second

	disconnectQuiesce = 250 // ms
)

var (
	_ adapter.Source      = (*MQTT)(nil)
	_ adapter.WithContext = (*MQTT)(nil)
)

func init() {
	adapter.RegisterSource(constant.SourceMQTT, NewMQTT)
}

type MQTT struct {
	tag     string
	ctx     context.Context
	logger  log.ContextLogger
	manager adapter.SetManager

	topics         []string
	qos            byte
	connectTimeout time.Duration
	clientOptions  *paho.ClientOptions
	client         paho.Client
}

func NewMQTT(tag string, manager adapter.SetManager, logger log.ContextLogger, options any) (adapter.Source, error) {
	op, ok := options.(*source.MQTTOptions)
	if !ok || op == nil {
		return nil, fmt.Errorf("invalid mqtt options")
	}
	if op.Broker == "" {
		return nil, fmt.Errorf("broker is required")
	}
	if len(op.Sets) == 0 {
		return nil, fmt.Errorf("at least one set is required")
	}
	if op.QoS > 2 {
		return nil, fmt.Errorf("invalid qos: %d", op.QoS)
	}
	m := &MQTT{
		tag:            tag,
		ctx:            context.Background(),
		logger:         logger,
		manager:        manager,
		topics:         message.Topics(op.Sets),
		qos:            op.QoS,
		connectTimeout: op.ConnectTimeout.Duration(),
	}
	if m.connectTimeout <= 0 {
		m.connectTimeout = DefaultConnectTimeout
	}
	keepAlive := op.KeepAlive.Duration()
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	clientID := op.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	opts := paho.NewClientOptions()
	opts.AddBroker(op.Broker)
	opts.SetClientID(clientID)
	opts.SetUsername(op.Username)
	opts.SetPassword(op.Password)
	opts.SetConnectTimeout(m.connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	if op.CAFile != "" {
		tlsConfig, err := loadCA(op.CAFile)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsConfig)
	}
	// subscriptions are dropped with a clean session, so renew them on
	// every (re)connect
	opts.SetOnConnectHandler(m.subscribe)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		m.logger.Warn(fmt.Sprintf("connection lost: %s", err))
	})
	m.clientOptions = opts
	return m, nil
}

func loadCA(file string) (*tls.Config, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read ca file fail: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(content) {
		return nil, fmt.Errorf("no certificate found in %s", file)
	}
	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

func (m *MQTT) Tag() string {
	return m.tag
}

func (m *MQTT) Type() string {
	return constant.SourceMQTT
}

func (m *MQTT) WithContext(ctx context.Context) {
	m.ctx = ctx
}

func (m *MQTT) Start() error {
	m.client = paho.NewClient(m.clientOptions)
	token := m.client.Connect()
	if !token.WaitTimeout(m.connectTimeout) {
		m.client.Disconnect(0)
		return errors.New("connect to broker timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to broker fail: %w", err)
	}
	return nil
}

func (m *MQTT) Close() error {
	if m.client != nil {
		m.client.Disconnect(disconnectQuiesce)
	}
	return nil
}

func (m *MQTT) subscribe(client paho.Client) {
	filters := make(map[string]byte, len(m.topics))
	for _, topic := range m.topics {
		filters[topic] = m.qos
	}
	token := client.SubscribeMultiple(filters, m.onMessage)
	if !token.WaitTimeout(m.connectTimeout) {
		m.logger.Error("subscribe timeout")
		return
	}
	if err := token.Error(); err != nil {
		m.logger.Error(fmt.Sprintf("subscribe fail: %s", err))
		return
	}
	m.logger.Info(fmt.Sprintf("subscribed to %d topics", len(m.topics)))
}

func (m *MQTT) onMessage(_ paho.Client, msg paho.Message) {
	// manager errors are already logged
	_ = message.Handle(m.ctx, m.manager, m.logger, msg.Topic(), msg.Payload())
}
