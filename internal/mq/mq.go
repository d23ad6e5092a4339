package mq

import "context"

// Publisher delivers a message body to a named topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, body []byte) error
	Close()
}
