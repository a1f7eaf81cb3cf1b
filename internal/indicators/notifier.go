// internal/indicators/notifier.go
package indicators

import (
	"context"
	"encoding/json"
	"fmt"

	"readiness-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "indicators:changes"

// Notifier fans indicator changes out over Redis pub/sub so dashboards can
// react without polling.
type Notifier struct {
	client  *redis.Client
	channel string
	logger  logger.Logger
}

func NewNotifier(client *redis.Client, channel string, log logger.Logger) *Notifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Notifier{client: client, channel: channel, logger: log}
}

func (n *Notifier) Publish(ctx context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		return fmt.Errorf("publish change %s/%s: %w", change.Country, change.Code, err)
	}
	return nil
}

// Subscribe delivers changes until ctx is cancelled, then closes the channel.
// Malformed messages are logged and dropped.
func (n *Notifier) Subscribe(ctx context.Context) (<-chan Change, error) {
	sub := n.client.Subscribe(ctx, n.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", n.channel, err)
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					n.logger.Warn("dropping malformed indicator change", map[string]interface{}{
						"channel": n.channel,
						"error":   err.Error(),
					})
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
