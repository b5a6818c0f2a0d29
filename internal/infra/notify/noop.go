package notify

import "context"

// Noop заглушка издателя для окружений без брокера (notifications.enabled = false)
type Noop struct{}

// NewNoop создает заглушку издателя
func NewNoop() *Noop {
	return &Noop{}
}

// Publish ничего не делает
func (n *Noop) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	return nil
}

// Close ничего не делает
func (n *Noop) Close() error {
	return nil
}
