package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// UserRegisteredEvent событие о регистрации нового пользователя.
type UserRegisteredEvent struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Publisher публикует события приложения в обменник notifications.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishUserRegistered публикует событие о регистрации пользователя.
func (p *Publisher) PublishUserRegistered(event UserRegisteredEvent) error {
	return p.publish(UserRegisteredQueue.RoutingKey, event)
}

// publish сериализует сообщение в JSON и публикует его с признаком Persistent.
func (p *Publisher) publish(routingKey string, message any) error {
	const op = "rabbitmq.publish"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		NotificationsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
