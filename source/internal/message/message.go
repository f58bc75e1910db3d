// Package message maps "add/<set>" and "del/<set>" messages to manager calls.
package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaotthaha/ipsetd/adapter"
	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/ipset"
	"github.com/yaotthaha/ipsetd/log"
)

// Topics returns the add and del topic for every set.
func Topics(sets []string) []string {
	topics := make([]string, 0, len(sets)*2)
	for _, set := range sets {
		topics = append(topics, constant.TopicAdd+"/"+set, constant.TopicDel+"/"+set)
	}
	return topics
}

// ParseTopic splits a topic into the command and the set name.
func ParseTopic(topic string) (ipset.Command, string, bool) {
	prefix, set, ok := strings.Cut(topic, "/")
	if !ok || set == "" {
		return 0, "", false
	}
	cmd, err := ipset.ParseCommand(prefix)
	if err != nil {
		return 0, "", false
	}
	return cmd, set, true
}

// Handle applies one message. The payload is the address, surrounding
// whitespace is ignored.
func Handle(ctx context.Context, manager adapter.SetManager, logger log.ContextLogger, topic string, payload []byte) error {
	ctx = log.AddContextTag(ctx)
	cmd, set, ok := ParseTopic(topic)
	if !ok {
		err := fmt.Errorf("unknown topic: %s", topic)
		logger.WarnContext(ctx, err)
		return err
	}
	address := strings.TrimSpace(string(payload))
	logger.DebugContext(ctx, fmt.Sprintf("receive %s %s on %s", cmd, address, topic))
	return manager.Do(ctx, cmd, set, address)
}
