package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

// PayPalPaymentService implements PaymentGateway against the PayPal Orders v2
// REST API using a plain HTTP client.
type PayPalPaymentService struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalPaymentService(clientID, clientSecret string, isProduction bool) *PayPalPaymentService {
	baseURL := "https://api-m.sandbox.paypal.com"
	if isProduction {
		baseURL = "https://api-m.paypal.com"
	}

	return &PayPalPaymentService{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type paypalMoney struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalBreakdown struct {
	ItemTotal paypalMoney `json:"item_total"`
	Shipping  paypalMoney `json:"shipping"`
	TaxTotal  paypalMoney `json:"tax_total"`
}

type paypalAmount struct {
	CurrencyCode string          `json:"currency_code"`
	Value        string          `json:"value"`
	Breakdown    paypalBreakdown `json:"breakdown"`
}

type paypalItem struct {
	Name       string      `json:"name"`
	UnitAmount paypalMoney `json:"unit_amount"`
	Quantity   string      `json:"quantity"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Amount      paypalAmount `json:"amount"`
	Items       []paypalItem `json:"items"`
}

type paypalCreateOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []paypalPurchaseUnit `json:"purchase_units"`
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type paypalCaptureResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s *PayPalPaymentService) CreateOrder(ctx context.Context, req PaymentRequest) (string, error) {
	money := func(v float64) paypalMoney {
		return paypalMoney{CurrencyCode: req.Currency, Value: strconv.FormatFloat(v, 'f', 2, 64)}
	}

	items := make([]paypalItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = paypalItem{
			Name:       item.Name,
			UnitAmount: money(item.Price),
			Quantity:   strconv.Itoa(item.Quantity),
		}
	}

	createReq := paypalCreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{{
			ReferenceID: req.OrderID,
			Amount: paypalAmount{
				CurrencyCode: req.Currency,
				Value:        strconv.FormatFloat(req.TotalPrice, 'f', 2, 64),
				Breakdown: paypalBreakdown{
					ItemTotal: money(req.ItemsPrice),
					Shipping:  money(req.ShippingPrice),
					TaxTotal:  money(req.TaxPrice),
				},
			},
			Items: items,
		}},
	}

	var orderResp paypalOrderResponse
	if err := s.post(ctx, "/v2/checkout/orders", createReq, &orderResp); err != nil {
		return "", errors.Gateway("PayPal order creation failed", err)
	}

	logger.Info("Created PayPal order %s for order %s", orderResp.ID, req.OrderID)
	return orderResp.ID, nil
}

func (s *PayPalPaymentService) CaptureOrder(ctx context.Context, intentID string) (*CaptureResult, error) {
	var captureResp paypalCaptureResponse
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(intentID))
	if err := s.post(ctx, path, struct{}{}, &captureResp); err != nil {
		return nil, errors.Gateway("PayPal payment capture failed", err)
	}

	return &CaptureResult{
		ID:         captureResp.ID,
		Status:     captureResp.Status,
		UpdateTime: captureResp.UpdateTime,
		PayerEmail: captureResp.Payer.EmailAddress,
	}, nil
}

func (s *PayPalPaymentService) post(ctx context.Context, path string, body, out interface{}) error {
	token, err := s.getAccessToken(ctx)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paypal returned %d: %s", resp.StatusCode, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}

// getAccessToken returns a cached client-credentials token, refreshing it
// shortly before expiry.
func (s *PayPalPaymentService) getAccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.tokenExpiry.Add(-time.Minute)) {
		return s.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %v", err)
	}
	httpReq.SetBasicAuth(s.clientID, s.clientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("token request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var tokenResp paypalTokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %v", err)
	}

	s.accessToken = tokenResp.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return s.accessToken, nil
}
