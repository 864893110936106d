package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/paymentmethod"
)

// StripeProcessor implements Processor using the Stripe SDK.
type StripeProcessor struct {
	currency string
}

// NewStripeProcessor configures the Stripe SDK with the given API key.
func NewStripeProcessor(apiKey, currency string) *StripeProcessor {
	stripe.Key = apiKey
	return &StripeProcessor{currency: currency}
}

// CreateCustomer creates a Stripe customer and returns its id.
func (p *StripeProcessor) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	cust, err := customer.New(params)
	if err != nil {
		return "", classify(err, ErrUnavailable)
	}
	return cust.ID, nil
}

// AttachPaymentMethod attaches a tokenized payment method to a customer.
func (p *StripeProcessor) AttachPaymentMethod(ctx context.Context, token, customerID string) error {
	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	if _, err := paymentmethod.Attach(token, params); err != nil {
		return classify(err, ErrRejected)
	}
	return nil
}

// SetDefaultPaymentMethod marks the payment method as the customer's default
// for invoice-style charges.
func (p *StripeProcessor) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	if _, err := customer.Update(customerID, params); err != nil {
		return classify(err, ErrRejected)
	}
	return nil
}

// RetrievePaymentMethod returns card display fields for a payment method.
func (p *StripeProcessor) RetrievePaymentMethod(ctx context.Context, paymentMethodID string) (*Card, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx

	pm, err := paymentmethod.Get(paymentMethodID, params)
	if err != nil {
		return nil, classify(err, ErrUnavailable)
	}

	card := &Card{}
	if pm.Card != nil {
		card.Brand = string(pm.Card.Brand)
		card.Last4 = pm.Card.Last4
		card.ExpMonth = pm.Card.ExpMonth
		card.ExpYear = pm.Card.ExpYear
	}
	return card, nil
}

// CreateCheckoutSession creates a hosted one-time-payment session.
func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, cp CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.currency),
					UnitAmount: stripe.Int64(cp.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(cp.Name),
						Description: stripe.String(cp.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(cp.SuccessURL),
		CancelURL:  stripe.String(cp.CancelURL),
	}
	params.Context = ctx

	// Reuse the known customer record when one exists so the processor does
	// not create a duplicate; otherwise let it create one from the email.
	if cp.CustomerID != "" {
		params.Customer = stripe.String(cp.CustomerID)
	} else if cp.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(cp.CustomerEmail)
	}

	for k, v := range cp.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", classify(err, ErrUnavailable)
	}
	return sess.URL, nil
}

// CreateOffSessionCharge creates and confirms a PaymentIntent against the
// stored payment method without customer interaction.
func (p *StripeProcessor) CreateOffSessionCharge(ctx context.Context, cp ChargeParams) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(cp.Amount),
		Currency:      stripe.String(p.currency),
		Customer:      stripe.String(cp.CustomerID),
		PaymentMethod: stripe.String(cp.PaymentMethodID),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
	}
	params.Context = ctx
	params.SetIdempotencyKey(cp.IdempotencyKey)
	for k, v := range cp.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			// Card errors are declines, not outages. The failed intent id is
			// preserved so the ledger can record the attempt.
			if stripeErr.Type == stripe.ErrorTypeCard {
				result := &ChargeResult{Status: ChargeStatusFailed}
				if stripeErr.PaymentIntent != nil {
					result.ChargeID = stripeErr.PaymentIntent.ID
					if stripeErr.PaymentIntent.Status == stripe.PaymentIntentStatusRequiresAction {
						result.Status = ChargeStatusRequiresAction
					}
				}
				return result, fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
			}
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, stripeErr.Msg)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result := &ChargeResult{ChargeID: intent.ID}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		result.Status = ChargeStatusSucceeded
	case stripe.PaymentIntentStatusRequiresAction:
		result.Status = ChargeStatusRequiresAction
	default:
		result.Status = ChargeStatusFailed
	}
	return result, nil
}

// classify turns a Stripe SDK error into one of the package sentinels,
// keeping the processor's short diagnostic message. Card and invalid-request
// errors map to rejected, everything else (including transport failures) to
// unavailable.
func classify(err error, rejected error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard, stripe.ErrorTypeInvalidRequest:
			return fmt.Errorf("%w: %s", rejected, stripeErr.Msg)
		default:
			return fmt.Errorf("%w: %s", ErrUnavailable, stripeErr.Msg)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Ensure StripeProcessor implements Processor.
var _ Processor = (*StripeProcessor)(nil)
