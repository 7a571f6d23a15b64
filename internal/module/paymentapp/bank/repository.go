package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type BankRepository interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResponse, error)
}

type bankRepository struct {
	baseURL      string
	basicAuthKey string
	logger       *logrus.Logger
	hc           *http.Client
}

func NewBankRepository(baseURL string, basicAuthKey string, logger *logrus.Logger, hc *http.Client) BankRepository {
	return &bankRepository{
		baseURL:      baseURL,
		basicAuthKey: basicAuthKey,
		logger:       logger,
		hc:           hc,
	}
}

// Charge implements BankRepository.
func (r *bankRepository) Charge(ctx context.Context, req ChargeRequest) (ChargeResponse, error) {
	reqBuff, _ := json.Marshal(req)
	body := bytes.NewBuffer(reqBuff)
	url := fmt.Sprintf("%s/v1/charges", r.baseURL)

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return ChargeResponse{}, errors.New(http.StatusBadGateway, status.BAD_GATEWAY, "an error occurred while charging payment through the acquirer")
	}

	hr.Header.Add("Content-Type", "application/json")
	hr.Header.Add("Accept", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Basic %s", r.basicAuthKey))

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return ChargeResponse{}, errors.New(http.StatusBadGateway, status.BAD_GATEWAY, "an error occurred while charging payment through the acquirer")
	}
	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return ChargeResponse{}, errors.New(http.StatusBadGateway, status.BAD_GATEWAY, "an error occurred while charging payment through the acquirer")
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		err := fmt.Errorf("%s", string(respBody))
		r.logger.WithContext(ctx).WithError(err).Error()
		return ChargeResponse{}, errors.New(http.StatusBadGateway, status.BAD_GATEWAY, "an error occurred while charging payment through the acquirer")
	}

	var resp ChargeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return ChargeResponse{}, errors.New(http.StatusBadGateway, status.BAD_GATEWAY, "an error occurred while charging payment through the acquirer")
	}

	return resp, nil
}
