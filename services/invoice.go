package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"flynext-server/models"
	"flynext-server/storage"
	"flynext-server/utils"
)

// IssueInvoice records the invoice artifact for a settled booking and hands
// it to the delivery webhook. Delivery failures are logged, not propagated;
// the row is the system of record either way.
func IssueInvoice(booking models.Booking) (*models.Invoice, error) {
	invoice := models.Invoice{
		BookingID:     booking.ID,
		InvoiceNumber: "INV-" + utils.GenerateBookingReference(),
		Amount:        booking.TotalPrice,
		Currency:      booking.Currency,
		Status:        "issued",
	}
	if err := storage.DB.Create(&invoice).Error; err != nil {
		return nil, err
	}

	if err := sendInvoiceEmail(booking, invoice); err != nil {
		log.Printf("Failed to deliver invoice %s for booking %d: %v", invoice.InvoiceNumber, booking.ID, err)
		return &invoice, nil
	}

	storage.DB.Model(&invoice).Update("status", "sent")
	return &invoice, nil
}

// sendInvoiceEmail posts the invoice to the email delivery webhook. Fire and
// forget: when EMAIL_WEBHOOK_URL is unset (development) it is a no-op.
func sendInvoiceEmail(booking models.Booking, invoice models.Invoice) error {
	webhookURL := os.Getenv("EMAIL_WEBHOOK_URL")
	if webhookURL == "" {
		log.Println("EMAIL_WEBHOOK_URL not set, skipping invoice delivery")
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"invoiceNumber":    invoice.InvoiceNumber,
		"bookingReference": booking.BookingReference,
		"amount":           invoice.Amount,
		"currency":         invoice.Currency,
		"summary":          BuildInvoiceSummary(booking),
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("invoice webhook returned %d", resp.StatusCode)
	}
	return nil
}
