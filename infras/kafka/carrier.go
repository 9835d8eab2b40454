package kafka

import (
	kafkaGo "github.com/segmentio/kafka-go"
)

// headerCarrier lets the otel propagator write trace context into Kafka record headers, so
// consumers of booking events can join the trace of the request that produced them.
type headerCarrier struct {
	headers *[]kafkaGo.Header
}

func (c headerCarrier) Get(key string) string {
	for _, header := range *c.headers {
		if header.Key == key {
			return string(header.Value)
		}
	}

	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, header := range *c.headers {
		if header.Key == key {
			(*c.headers)[i].Value = []byte(value)

			return
		}
	}

	*c.headers = append(*c.headers, kafkaGo.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, header := range *c.headers {
		keys = append(keys, header.Key)
	}

	return keys
}
