// Package cardgateway simulates an external card-authorization gateway.
// It stands in for the real payment network: the orchestrator talks to it
// through the same request/response contract a production gateway client
// would expose, so swapping in a real integration is a constructor change.
package cardgateway

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Request carries the card details and amount for one authorization attempt.
// The card number is never logged in full; only the masked form appears in
// log output.
type Request struct {
	CardNumber     string
	CardHolderName string
	ExpiryMonth    int
	ExpiryYear     int
	CVV            string
	Amount         float64
}

// Authorization is the gateway's answer to an authorization request.
type Authorization struct {
	Approved  bool
	Reference string
	Message   string
}

// DeclineAll, when set on a Gateway, makes every authorization come back
// declined. Useful for exercising failure paths in development environments.
type Gateway struct {
	DeclineAll bool
}

// New creates a simulated gateway that approves every well-formed request.
func New() *Gateway {
	return &Gateway{}
}

// Authorize simulates a card authorization. Malformed requests error out the
// way a gateway client would on a rejected API call; well-formed requests
// are approved with a generated bank reference.
func (g *Gateway) Authorize(req Request) (*Authorization, error) {
	number := strings.ReplaceAll(req.CardNumber, " ", "")
	if number == "" || len(number) < 13 || len(number) > 19 {
		return nil, fmt.Errorf("gateway rejected request: invalid card number length")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("gateway rejected request: invalid amount %.2f", req.Amount)
	}

	reference := newReference()

	if g.DeclineAll {
		log.Printf("Card authorization declined (simulated): card %s, ref %s", maskForLog(number), reference)
		return &Authorization{
			Approved:  false,
			Reference: reference,
			Message:   "card declined by issuer",
		}, nil
	}

	log.Printf("Card authorization approved (simulated): card %s, amount %.2f, ref %s",
		maskForLog(number), req.Amount, reference)

	return &Authorization{
		Approved:  true,
		Reference: reference,
		Message:   "approved",
	}, nil
}

// newReference generates a bank-style transaction reference.
func newReference() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "BANK-" + token[:12]
}

func maskForLog(number string) string {
	if len(number) < 10 {
		return "****"
	}
	return number[:6] + strings.Repeat("*", len(number)-10) + number[len(number)-4:]
}
