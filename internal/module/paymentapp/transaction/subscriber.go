package transaction

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/pubsub"
)

// InitEventSubscriber registers the capture-request handler. The customer's
// bearer token is forwarded by the catalogue service in the authorization
// message header.
func InitEventSubscriber(logger *logrus.Logger, subscriber pubsub.Subscriber, paymentRequestTopic string, transactionUseCase TransactionUseCase) {
	subscriber.Subscribe(paymentRequestTopic, func(ctx context.Context, message pubsub.Message) error {
		var e TransactionInfo
		if err := json.Unmarshal(message.Value, &e); err != nil {
			logger.WithContext(ctx).WithError(err).Error("capture request payload cannot be unmarshalled, message is skipped")
			return nil
		}

		return transactionUseCase.ProcessTransaction(ctx, e, message.Headers["authorization"])
	})
}
