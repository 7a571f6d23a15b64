package order

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/pubsub"
)

// InitEventSubscriber registers the payment-result handler. Malformed
// payloads are acknowledged after logging; retrying them can never succeed.
func InitEventSubscriber(logger *logrus.Logger, subscriber pubsub.Subscriber, paymentResultTopic string, orderUseCase OrderUseCase) {
	subscriber.Subscribe(paymentResultTopic, func(ctx context.Context, message pubsub.Message) error {
		var e PaymentResultEvent
		if err := json.Unmarshal(message.Value, &e); err != nil {
			logger.WithContext(ctx).WithError(err).Error("payment result payload cannot be unmarshalled, message is skipped")
			return nil
		}

		return orderUseCase.OnPaymentResult(ctx, e)
	})
}
