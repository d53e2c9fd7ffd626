package controller

import (
	"context"
	"strings"

	"github.com/urfave/cli/v2"

	"ghuman-groceries/models"
	"ghuman-groceries/repository"
	"ghuman-groceries/service"
)

// PaymentRequester records UPI payment requests
type PaymentRequester interface {
	Request(ctx context.Context, req service.PaymentRequest) (*service.PaymentRequestResult, error)
}

// PaymentController handles the payments commands
type PaymentController struct {
	repository repository.PaymentRepositoryInterface
	requests   PaymentRequester
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(repo repository.PaymentRepositoryInterface, requests PaymentRequester) *PaymentController {
	return &PaymentController{
		repository: repo,
		requests:   requests,
	}
}

// List handles `payments list`
func (pc *PaymentController) List(c *cli.Context) error {
	payments, err := pc.repository.List(c.Context)
	if err != nil {
		return fail("ListPayments", err)
	}
	return writeJSON(c, payments)
}

// Request handles `payments request --amount 250 [--description ...] [--upi-id ...] [--name ...]`
// Example response:
// {
//   "payment": {"id": "c7...", "amount": 250, "status": "pending", ...},
//   "upiUrl": "upi://pay?pa=ghumangroceries%40pnb&pn=GURINDER+SINGH&am=250&cu=INR"
// }
func (pc *PaymentController) Request(c *cli.Context) error {
	res, err := pc.requests.Request(c.Context, service.PaymentRequest{
		Amount:        c.Float64("amount"),
		Description:   c.String("description"),
		UPIID:         c.String("upi-id"),
		RecipientName: c.String("name"),
	})
	if err != nil {
		return fail("PaymentRequest", err)
	}
	return writeJSON(c, res)
}

// Status handles `payments status --id ... --status completed|failed|pending`
func (pc *PaymentController) Status(c *cli.Context) error {
	id, err := requireString(c, "id")
	if err != nil {
		return err
	}
	status := models.PaymentStatus(strings.ToLower(c.String("status")))
	switch status {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
	default:
		return cli.Exit("--status must be pending, completed or failed", 2)
	}

	payment, err := pc.repository.Update(c.Context, id, models.PaymentUpdate{Status: &status})
	if err != nil {
		return fail("PaymentStatus", err)
	}
	return writeJSON(c, payment)
}
