// Package payment binds the checkout flow to Stripe's hosted checkout.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
)

// Session identifies a hosted checkout session and its redirect URL.
type Session struct {
	ID  string
	URL string
}

// Gateway abstracts the hosted-checkout provider so handlers and tests do
// not depend on Stripe directly.
type Gateway interface {
	CreateSession(ctx context.Context, origin string, items []models.CartItem) (Session, error)
	SessionStatus(ctx context.Context, sessionID string) (string, error)
}

// Catalog prices are lei; Stripe wants bani. The flat shipping line is
// already expressed in bani.
const shippingFeeMinor = 1999

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	client *client.API
	log    *zap.Logger
}

// NewStripeGateway creates a gateway using the given secret key.
func NewStripeGateway(secretKey string, log *zap.Logger) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{client: sc, log: log}
}

// minorUnits converts a lei amount to bani without float drift.
func minorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// buildLineItems prices one line per cart item plus the fixed shipping line.
func buildLineItems(items []models.CartItem) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items)+1)
	for _, item := range items {
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("ron"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(item.Title),
					Description: stripe.String("by " + item.Author),
					Images:      stripe.StringSlice([]string{item.ImageURL}),
				},
				UnitAmount: stripe.Int64(minorUnits(item.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	out = append(out, &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String("ron"),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name:        stripe.String("Shipping"),
				Description: stripe.String("Delivery cost"),
			},
			UnitAmount: stripe.Int64(shippingFeeMinor),
		},
		Quantity: stripe.Int64(1),
	})
	return out
}

// CreateSession opens a hosted checkout session with success and cancel
// redirects anchored on the caller's origin.
func (g *StripeGateway) CreateSession(ctx context.Context, origin string, items []models.CartItem) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          buildLineItems(items),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(origin + "/payment-success?session_id={CHECKOUT_SESSION_ID}&clear_cart=true"),
		CancelURL:          stripe.String(origin + "/"),
	}
	params.Context = ctx
	params.AddMetadata("order_type", "book_store")

	sess, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		g.log.Error("stripe session create failed", zap.Error(err))
		return Session{}, apperrors.Wrap(apperrors.Payment, "Failed to create checkout session", err)
	}

	g.log.Info("checkout session created", zap.String("sessionId", sess.ID))
	return Session{ID: sess.ID, URL: sess.URL}, nil
}

// SessionStatus retrieves the payment status of a checkout session.
func (g *StripeGateway) SessionStatus(ctx context.Context, sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.client.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		g.log.Error("stripe session retrieve failed",
			zap.String("sessionId", sessionID), zap.Error(err))
		return "", apperrors.Wrap(apperrors.Payment, "Failed to verify payment status", err)
	}
	return string(sess.PaymentStatus), nil
}
