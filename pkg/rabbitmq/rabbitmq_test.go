package rabbitmq

import (
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestPublishWithoutChannel(t *testing.T) {
	var c *Client
	assert.Error(t, c.Publish("user.registered", []byte(`{}`)))
	assert.Error(t, (&Client{}).Publish("user.registered", []byte(`{}`)))
	assert.Error(t, (&Client{}).ConsumeEvents(LogEvent))
}

func TestLogEvent(t *testing.T) {
	assert.NoError(t, LogEvent(amqp.Delivery{Type: "coupon.redeemed", MessageId: "m-1", Body: []byte(`{"id":"e-1"}`)}))
	assert.Error(t, LogEvent(amqp.Delivery{Type: "coupon.redeemed", MessageId: "m-2", Body: []byte("not json")}))
}
