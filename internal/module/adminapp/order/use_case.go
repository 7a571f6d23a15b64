package order

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type OrderUseCase interface {
	GetAllOrder(ctx context.Context) (GetManyOrderResponse, error)
	GetCustomerOrder(ctx context.Context, customerUsername string) (GetManyOrderResponse, error)
}

type orderUseCase struct {
	logger          *logrus.Logger
	timeout         time.Duration
	orderRepository OrderRepository
}

type OrderUseCaseProperty struct {
	Logger          *logrus.Logger
	Timeout         time.Duration
	OrderRepository OrderRepository
}

func NewOrderUseCase(props OrderUseCaseProperty) OrderUseCase {
	return &orderUseCase{
		logger:          props.Logger,
		timeout:         props.Timeout,
		orderRepository: props.OrderRepository,
	}
}

// GetAllOrder implements OrderUseCase.
func (u *orderUseCase) GetAllOrder(ctx context.Context) (GetManyOrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	orders, err := u.orderRepository.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	resp := make(GetManyOrderResponse, len(orders))
	for k, v := range orders {
		resp[k].PopulateFromEntity(v)
	}

	return resp, nil
}

// GetCustomerOrder implements OrderUseCase.
func (u *orderUseCase) GetCustomerOrder(ctx context.Context, customerUsername string) (GetManyOrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	orders, err := u.orderRepository.FindManyByCustomer(ctx, customerUsername, nil)
	if err != nil {
		return nil, err
	}

	resp := make(GetManyOrderResponse, len(orders))
	for k, v := range orders {
		resp[k].PopulateFromEntity(v)
	}

	return resp, nil
}
