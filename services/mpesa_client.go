package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// MpesaGateway is the thin contract the payment service depends on: a token
// fetch and an STK push. The Daraja client below implements it; tests
// substitute a fake.
type MpesaGateway interface {
	FetchAccessToken() (string, error)
	PushPayment(phoneNumber string, amount float64, accountReference, description string) (*STKPushResponse, error)
}

// STKPushResponse is Daraja's synchronous answer to a push request.
// ResponseCode "0" means accepted for processing, not settled; settlement
// arrives later on the callback URL.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// STKCallbackEnvelope is the nested body Daraja POSTs to the callback URL.
type STKCallbackEnvelope struct {
	Body struct {
		StkCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// STKCallback carries the settlement result. ResultCode 0 is success;
// anything else is a failure described by ResultDesc (1032 is
// user-cancelled).
type STKCallback struct {
	MerchantRequestID string           `json:"MerchantRequestID"`
	CheckoutRequestID string           `json:"CheckoutRequestID"`
	ResultCode        int              `json:"ResultCode"`
	ResultDesc        string           `json:"ResultDesc"`
	CallbackMetadata  CallbackMetadata `json:"CallbackMetadata"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

// CallbackItem values arrive as strings or JSON numbers depending on the
// field, so Value stays untyped and Get stringifies.
type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// Get returns the named metadata value as a string, or "" when absent.
func (m CallbackMetadata) Get(name string) string {
	for _, item := range m.Item {
		if item.Name != name {
			continue
		}
		switch v := item.Value.(type) {
		case string:
			return v
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', 2, 64)
		default:
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

// ReceiptNumber extracts the settlement receipt reference on a successful
// callback.
func (m CallbackMetadata) ReceiptNumber() string {
	return m.Get("MpesaReceiptNumber")
}

// MpesaClient talks to the Daraja sandbox/production API.
type MpesaClient struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortcode      string
	passkey        string
	callbackURL    string
}

func NewMpesaClient() *MpesaClient {
	return &MpesaClient{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		baseURL:        strings.TrimRight(os.Getenv("DARAJA_BASE_URL"), "/"),
		consumerKey:    strings.TrimSpace(os.Getenv("DARAJA_CONSUMER_KEY")),
		consumerSecret: strings.TrimSpace(os.Getenv("DARAJA_CONSUMER_SECRET")),
		shortcode:      os.Getenv("DARAJA_BUSINESS_SHORTCODE"),
		passkey:        os.Getenv("DARAJA_PASSKEY"),
		callbackURL:    os.Getenv("DARAJA_CALLBACK_URL"),
	}
}

// FetchAccessToken requests an OAuth token with the consumer credentials.
func (c *MpesaClient) FetchAccessToken() (string, error) {
	req, err := http.NewRequest(http.MethodGet,
		c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request failed: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %s", ErrGateway, resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: malformed token response: %v", ErrGateway, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrGateway)
	}
	return body.AccessToken, nil
}

// PushPayment fires an STK push to the customer's phone. AccountReference
// is clipped to Daraja's 12-character alphanumeric limit and the
// description to 20 characters.
func (c *MpesaClient) PushPayment(phoneNumber string, amount float64, accountReference, description string) (*STKPushResponse, error) {
	token, err := c.FetchAccessToken()
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.shortcode + c.passkey + timestamp))

	if len(description) > 20 {
		description = description[:20]
	}

	payload := map[string]interface{}{
		"BusinessShortCode": c.shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int(amount),
		"PartyA":            phoneNumber,
		"PartyB":            c.shortcode,
		"PhoneNumber":       phoneNumber,
		"CallBackURL":       c.callbackURL,
		"AccountReference":  sanitizeAccountReference(accountReference),
		"TransactionDesc":   description,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost,
		c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	log.Printf("Initiating STK push: %s, amount: %.2f, ref: %s",
		phoneNumber, amount, sanitizeAccountReference(accountReference))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: STK push failed: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	var pushResp STKPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&pushResp); err != nil {
		return nil, fmt.Errorf("%w: malformed STK push response: %v", ErrGateway, err)
	}

	log.Printf("Daraja response: %s - %s", resp.Status, pushResp.CustomerMessage)
	return &pushResp, nil
}

// sanitizeAccountReference enforces Daraja's max-12-character alphanumeric
// AccountReference rule.
func sanitizeAccountReference(ref string) string {
	ref = strings.ReplaceAll(ref, " ", "")
	ref = strings.ReplaceAll(ref, "-", "")
	if len(ref) > 12 {
		ref = ref[:12]
	}
	return ref
}
