package constant

const (
	SourceMQTT  = "mqtt"
	SourceRedis = "redis"
)

// Topic (MQTT) and channel (Redis) prefixes. A message on "add/<set>" adds
// its payload address to <set>, "del/<set>" removes it.
const (
	TopicAdd = "add"
	TopicDel = "del"
)
