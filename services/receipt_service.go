// services/receipt_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"salonpro-bookings/config"
	"salonpro-bookings/models"
	"salonpro-bookings/store"
	"salonpro-bookings/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageSender delivers one text message and returns the provider id.
type MessageSender interface {
	Send(to, from, body string) (string, error)
}

type twilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender(accountSid, authToken string) MessageSender {
	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (t *twilioSender) Send(to, from, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// ReceiptDirectory is what the receipt service reads and writes.
type ReceiptDirectory interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error)
	LogNotification(ctx context.Context, entry *models.NotificationLog) error
}

// ReceiptService texts the client a receipt after each recorded sale.
// Delivery problems are logged and never affect the sale.
type ReceiptService struct {
	dir          ReceiptDirectory
	sender       MessageSender
	smsFrom      string
	whatsAppFrom string
	logger       *logrus.Logger
	wg           sync.WaitGroup
}

func NewReceiptService(dir ReceiptDirectory, sender MessageSender, smsFrom, whatsAppFrom string, logger *logrus.Logger) *ReceiptService {
	return &ReceiptService{
		dir:          dir,
		sender:       sender,
		smsFrom:      smsFrom,
		whatsAppFrom: whatsAppFrom,
		logger:       logger,
	}
}

// SaleRecorded sends the receipt in the background so the booking lock is
// not held while the provider is called.
func (s *ReceiptService) SaleRecorded(_ context.Context, _ *models.Booking, txn *models.Transaction) {
	receipt := *txn
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.SendReceipt(ctx, &receipt); err != nil {
			config.LogError(s.logger, "services", "SaleRecorded", "Failed to send receipt", receipt.ID, err)
		}
	}()
}

// Wait blocks until background sends have finished.
func (s *ReceiptService) Wait() {
	s.wg.Wait()
}

// SendReceipt sends and logs the receipt for txn. A client without a usable
// phone, or one who opted out, is skipped without error.
func (s *ReceiptService) SendReceipt(ctx context.Context, txn *models.Transaction) error {
	if txn.ClientID == uuid.Nil {
		return nil
	}
	customer, err := s.dir.GetCustomer(ctx, txn.ClientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !customer.ReceiptOptIn || !utils.ValidatePhone(customer.Phone) {
		return nil
	}

	salonName := "our salon"
	whatsApp, sms := true, true
	salon, err := s.dir.GetSalon(ctx, txn.LocationID)
	switch {
	case err == nil:
		if !salon.ReceiptsEnabled {
			return nil
		}
		salonName = salon.Name
		whatsApp, sms = salon.WhatsAppNotifications, salon.SMSNotifications
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	message := ReceiptMessage(customer.Name, salonName, txn)

	// Use WhatsApp if phone is in E.164 format and starts with '+'
	phone := utils.CleanPhone(customer.Phone)
	channel, to, from := "sms", phone, s.smsFrom
	if whatsApp && strings.HasPrefix(phone, "+") && s.whatsAppFrom != "" {
		channel = "whatsapp"
		to = "whatsapp:" + phone
		from = "whatsapp:" + s.whatsAppFrom
	} else if !sms || s.smsFrom == "" {
		return nil
	}

	status, errorMsg := "sent", ""
	sid, sendErr := s.sender.Send(to, from, message)
	if sendErr != nil {
		status = "failed"
		errorMsg = sendErr.Error()
	} else {
		s.logger.WithFields(logrus.Fields{"transactionId": txn.ID, "channel": channel, "sid": sid}).Info("receipt sent")
	}

	entry := &models.NotificationLog{
		SalonID:       txn.LocationID,
		CustomerID:    customer.ID,
		TransactionID: txn.ID,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       channel,
		SentAt:        time.Now(),
	}
	if err := s.dir.LogNotification(ctx, entry); err != nil {
		config.LogError(s.logger, "services", "SendReceipt", "Failed to log receipt", txn.ID, err)
	}
	return sendErr
}

// ReceiptMessage renders the text sent to the client.
func ReceiptMessage(customerName, salonName string, txn *models.Transaction) string {
	msg := fmt.Sprintf("Hi %s, thank you for visiting %s. %s, total %s paid by %s.",
		customerName, salonName, txn.Description, txn.Amount.StringFixed(2), txn.PaymentMethod)
	if txn.DiscountAmount != nil && txn.DiscountAmount.IsPositive() {
		msg += fmt.Sprintf(" You saved %s.", txn.DiscountAmount.StringFixed(2))
	}
	return msg
}
