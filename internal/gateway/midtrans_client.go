// FILE: internal/gateway/midtrans_client.go
package gateway

import (
	"context"
	"crypto/sha512"
	"fmt"
	"time"

	"job-board-be/internal/pkg/logger"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/sony/gobreaker/v2"
)

type MidtransClient struct {
	snapClient snap.Client
	serverKey  string
	finishURL  string
	breaker    *gobreaker.CircuitBreaker[*snap.Response]
	logger     logger.ILogger
}

func NewMidtransClient(serverKey string, isProduction bool, finishURL string, log logger.ILogger) *MidtransClient {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}

	var sClient snap.Client
	sClient.New(serverKey, env)

	// The processor is network-flaky: stop hammering it after repeated
	// consecutive failures and let checkout surface a retryable error.
	settings := gobreaker.Settings{
		Name:        "midtrans-snap",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("GATEWAY", "Circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}

	return &MidtransClient{
		snapClient: sClient,
		serverKey:  serverKey,
		finishURL:  finishURL,
		breaker:    gobreaker.NewCircuitBreaker[*snap.Response](settings),
		logger:     log,
	}
}

func (c *MidtransClient) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderId,
			GrossAmt: req.GrossAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: c.finishURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.ItemId,
				Price: req.GrossAmount,
				Qty:   1,
				Name:  req.ItemName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, err := c.breaker.Execute(func() (*snap.Response, error) {
		snapResp, midErr := c.snapClient.CreateTransaction(snapReq)
		if midErr != nil {
			return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
		}
		return snapResp, nil
	})
	if err != nil {
		c.logger.Error("GATEWAY", "Charge initiation failed", map[string]interface{}{
			"orderId": req.OrderId,
			"error":   err.Error(),
		})
		return nil, err
	}

	return &ChargeResult{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// VerifySignature checks the documented midtrans scheme:
// SHA512(order_id + status_code + gross_amount + server_key).
func (c *MidtransClient) VerifySignature(orderId, statusCode, grossAmount, signature string) bool {
	input := orderId + statusCode + grossAmount + c.serverKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
	return signature == expected
}
