package catalogue

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type CatalogueUseCase interface {
	AddTicket(ctx context.Context, req AddTicketRequest) (TicketCatalogueResponse, error)
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

// AddTicket implements CatalogueUseCase.
func (u *catalogueUseCase) AddTicket(ctx context.Context, req AddTicketRequest) (TicketCatalogueResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if req.Price < 0 {
		return TicketCatalogueResponse{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "price must not be negative")
	}

	if req.MinAge != nil && req.MaxAge != nil && *req.MinAge > *req.MaxAge {
		return TicketCatalogueResponse{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "minimum age must not exceed maximum age")
	}

	now := time.Now()
	tc := TicketCatalogue{
		Type:      req.Type,
		Price:     req.Price,
		Zones:     req.Zones,
		MinAge:    req.MinAge,
		MaxAge:    req.MaxAge,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ticketID, err := u.ticketCatalogueRepository.Save(ctx, tc, nil)
	if err != nil {
		return TicketCatalogueResponse{}, err
	}

	tc.TicketID = ticketID

	resp := TicketCatalogueResponse{}
	resp.PopulateFromEntity(tc)

	return resp, nil
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
