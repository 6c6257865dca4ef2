package services

import (
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotificationService sends best-effort payment receipts over SMS or
// WhatsApp. Delivery failures are logged and never propagated; a lost
// receipt must not affect a settled payment.
type NotificationService struct {
	client *twilio.RestClient
}

func NewNotificationService() *NotificationService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// SendReceipt delivers the receipt message to the customer's phone,
// preferring WhatsApp for E.164 numbers. SMS has no subject line, so the
// subject becomes the first line of the message. Returns whether delivery
// was accepted by Twilio.
func (s *NotificationService) SendReceipt(phone, subject, body string) bool {
	if phone == "" {
		log.Println("No phone number provided for receipt notification")
		return false
	}
	if subject != "" {
		body = subject + "\n" + body
	}

	channel := "sms"
	to := phone
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send receipt to %s: %v", phone, err)
		return false
	}
	if resp.Sid != nil {
		log.Printf("Receipt sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Receipt sent to %s, but no SID returned", phone)
	}
	return true
}
