package kafka

import "github.com/segmentio/kafka-go"

// headerCarrier lets the otel propagator read and write message headers in
// place.
type headerCarrier struct {
	hs *[]kafka.Header
}

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.hs {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, val string) {
	for i, h := range *c.hs {
		if h.Key == key {
			(*c.hs)[i].Value = []byte(val)
			return
		}
	}
	*c.hs = append(*c.hs, kafka.Header{Key: key, Value: []byte(val)})
}

func (c headerCarrier) Keys() []string {
	out := make([]string, 0, len(*c.hs))
	for _, h := range *c.hs {
		out = append(out, h.Key)
	}
	return out
}
