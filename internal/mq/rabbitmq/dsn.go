package rabbitmq

import (
	"fmt"
	"net/url"

	"gst_billing/internal/conf"
)

// DSN builds the AMQP URL for cfg. Credentials are escaped.
func DSN(cfg *conf.RabbitMQConfig) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/",
	}
	return u.String()
}
