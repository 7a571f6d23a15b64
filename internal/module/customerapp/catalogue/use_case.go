package catalogue

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type CatalogueUseCase interface {
	GetCatalogue(ctx context.Context) (GetCatalogueResponse, error)
}

type catalogueUseCase struct {
	logger                    *logrus.Logger
	timeout                   time.Duration
	ticketCatalogueRepository TicketCatalogueRepository
}

type CatalogueUseCaseProperty struct {
	Logger                    *logrus.Logger
	Timeout                   time.Duration
	TicketCatalogueRepository TicketCatalogueRepository
}

func NewCatalogueUseCase(props CatalogueUseCaseProperty) CatalogueUseCase {
	return &catalogueUseCase{
		logger:                    props.Logger,
		timeout:                   props.Timeout,
		ticketCatalogueRepository: props.TicketCatalogueRepository,
	}
}

// GetCatalogue implements CatalogueUseCase.
func (u *catalogueUseCase) GetCatalogue(ctx context.Context) (GetCatalogueResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	tickets, err := u.ticketCatalogueRepository.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	resp := make(GetCatalogueResponse, len(tickets))
	for k, v := range tickets {
		resp[k].PopulateFromEntity(v)
	}

	return resp, nil
}
