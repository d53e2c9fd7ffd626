package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/localstorage"
	"ghuman-groceries/models"
)

// PaymentRequest is what the operator asks a customer to pay
type PaymentRequest struct {
	Amount        float64 `json:"amount"`
	Description   string  `json:"description,omitempty"`
	UPIID         string  `json:"upiId,omitempty"`
	RecipientName string  `json:"recipientName,omitempty"`
}

// PaymentRequestResult pairs the recorded payment with its UPI link
type PaymentRequestResult struct {
	Payment *models.Payment `json:"payment"`
	UPIURL  string          `json:"upiUrl"`
}

// PaymentRecorder is the part of the payment repository the service needs
type PaymentRecorder interface {
	Create(ctx context.Context, p models.NewPayment) (*models.Payment, error)
}

// PaymentRequestService builds UPI payment links and records each request
type PaymentRequestService struct {
	payments PaymentRecorder
	prefs    *localstorage.Preferences
}

// NewPaymentRequestService creates a new PaymentRequestService
func NewPaymentRequestService(payments PaymentRecorder, prefs *localstorage.Preferences) *PaymentRequestService {
	return &PaymentRequestService{payments: payments, prefs: prefs}
}

// UPIURL builds a upi://pay link. Parameters keep the pa, pn, am, cu order
// payment apps expect.
func UPIURL(upiID, name string, amount float64) string {
	params := []string{
		"pa=" + url.QueryEscape(upiID),
		"pn=" + url.QueryEscape(name),
		"am=" + url.QueryEscape(strconv.FormatFloat(amount, 'f', -1, 64)),
		"cu=INR",
	}
	return "upi://pay?" + strings.Join(params, "&")
}

// Request validates the amount, fills in the shop defaults, records a
// pending payment and returns it with its UPI link.
func (s *PaymentRequestService) Request(ctx context.Context, req PaymentRequest) (*PaymentRequestResult, error) {
	if req.Amount <= 0 {
		return nil, errors.Wrapf(models.ErrInvalidAmount, "got %v", req.Amount)
	}

	upiID := req.UPIID
	if upiID == "" {
		id, err := s.prefs.UPIID()
		if err != nil {
			return nil, err
		}
		upiID = id
	}
	name := req.RecipientName
	if name == "" {
		n, err := s.prefs.RecipientName()
		if err != nil {
			return nil, err
		}
		name = n
	}
	description := req.Description
	if description == "" {
		description = "UPI Payment Request - " + name
	}

	link := UPIURL(upiID, name, req.Amount)
	payment, err := s.payments.Create(ctx, models.NewPayment{
		Amount:        req.Amount,
		Description:   description,
		UPIID:         upiID,
		RecipientName: name,
		Status:        models.PaymentPending,
	})
	if err != nil {
		log.Errorf("❌ PaymentRequest: failed to record payment: %v", err)
		return nil, err
	}

	log.WithField("id", payment.ID).Infof("💸 PaymentRequest: %s", link)
	return &PaymentRequestResult{Payment: payment, UPIURL: link}, nil
}
