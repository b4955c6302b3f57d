package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"salonpro-bookings/models"
	"salonpro-bookings/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	to, from, body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(to, from, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to: to, from: from, body: body})
	return "SM123", nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type receiptFixture struct {
	store    *store.MemoryStore
	sender   *fakeSender
	service  *ReceiptService
	customer models.Customer
	salon    models.Salon
}

func newReceiptFixture(t *testing.T) *receiptFixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	f := &receiptFixture{
		store:  store.NewMemoryStore(),
		sender: &fakeSender{},
		customer: models.Customer{
			ID: uuid.New(), Name: "Maya", Phone: "+44 7700 900123", ReceiptOptIn: true,
		},
		salon: models.Salon{
			ID: uuid.New(), Name: "Studio Nine", ReceiptsEnabled: true, SMSNotifications: true,
		},
	}
	f.store.PutCustomer(f.customer)
	f.store.PutSalon(f.salon)
	f.service = NewReceiptService(f.store, f.sender, "+15550001111", "+15550002222", logger)
	return f
}

func (f *receiptFixture) transaction() *models.Transaction {
	discount := decimal.NewFromInt(10)
	return &models.Transaction{
		ID:             uuid.New(),
		ClientID:       f.customer.ID,
		LocationID:     f.salon.ID,
		Amount:         decimal.NewFromInt(140),
		DiscountAmount: &discount,
		PaymentMethod:  "card",
		Description:    "1 service(s) + 1 product(s) (10% off)",
	}
}

func TestReceiptMessage(t *testing.T) {
	discount := decimal.RequireFromString("12.5")
	txn := &models.Transaction{
		Amount:         decimal.RequireFromString("87.5"),
		DiscountAmount: &discount,
		PaymentMethod:  "cash",
		Description:    "1 service(s)",
	}

	msg := ReceiptMessage("Sam", "Studio Nine", txn)

	assert.Equal(t, "Hi Sam, thank you for visiting Studio Nine. 1 service(s), total 87.50 paid by cash. You saved 12.50.", msg)
}

func TestSendReceipt_SMS(t *testing.T) {
	f := newReceiptFixture(t)
	txn := f.transaction()

	require.NoError(t, f.service.SendReceipt(context.Background(), txn))

	sent := f.sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "+447700900123", sent[0].to)
	assert.Equal(t, "+15550001111", sent[0].from)
	assert.Contains(t, sent[0].body, "Studio Nine")

	logs := f.store.Notifications()
	require.Len(t, logs, 1)
	assert.Equal(t, "sent", logs[0].Status)
	assert.Equal(t, "sms", logs[0].Channel)
	assert.Equal(t, txn.ID, logs[0].TransactionID)
}

func TestSendReceipt_WhatsAppWhenSalonPrefersIt(t *testing.T) {
	f := newReceiptFixture(t)
	f.salon.WhatsAppNotifications = true
	f.store.PutSalon(f.salon)

	require.NoError(t, f.service.SendReceipt(context.Background(), f.transaction()))

	sent := f.sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "whatsapp:+447700900123", sent[0].to)
	assert.Equal(t, "whatsapp:+15550002222", sent[0].from)
}

func TestSendReceipt_Skips(t *testing.T) {
	t.Run("opted out", func(t *testing.T) {
		f := newReceiptFixture(t)
		f.customer.ReceiptOptIn = false
		f.store.PutCustomer(f.customer)
		require.NoError(t, f.service.SendReceipt(context.Background(), f.transaction()))
		assert.Empty(t, f.sender.messages())
	})
	t.Run("receipts disabled", func(t *testing.T) {
		f := newReceiptFixture(t)
		f.salon.ReceiptsEnabled = false
		f.store.PutSalon(f.salon)
		require.NoError(t, f.service.SendReceipt(context.Background(), f.transaction()))
		assert.Empty(t, f.sender.messages())
	})
	t.Run("walk-in without client", func(t *testing.T) {
		f := newReceiptFixture(t)
		txn := f.transaction()
		txn.ClientID = uuid.Nil
		require.NoError(t, f.service.SendReceipt(context.Background(), txn))
		assert.Empty(t, f.sender.messages())
	})
	t.Run("invalid phone", func(t *testing.T) {
		f := newReceiptFixture(t)
		f.customer.Phone = "n/a"
		f.store.PutCustomer(f.customer)
		require.NoError(t, f.service.SendReceipt(context.Background(), f.transaction()))
		assert.Empty(t, f.sender.messages())
	})
}

func TestSendReceipt_FailureIsLogged(t *testing.T) {
	f := newReceiptFixture(t)
	f.sender.err = errors.New("provider down")

	err := f.service.SendReceipt(context.Background(), f.transaction())

	assert.EqualError(t, err, "provider down")
	logs := f.store.Notifications()
	require.Len(t, logs, 1)
	assert.Equal(t, "failed", logs[0].Status)
	assert.Equal(t, "provider down", logs[0].ErrorMessage)
}

func TestSaleRecorded_SendsInBackground(t *testing.T) {
	f := newReceiptFixture(t)
	txn := f.transaction()

	f.service.SaleRecorded(context.Background(), &models.Booking{}, txn)
	f.service.Wait()

	assert.Len(t, f.sender.messages(), 1)
}
