package notification

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/pedishift/scheduler/internal/models"
)

var (
	ErrTwilioNotConfigured = errors.New("Twilio not configured")
	ErrInvalidPhoneNumber  = errors.New("invalid phone number")
	ErrSMSSendFailed       = errors.New("failed to send SMS")
	ErrSMSRateLimited      = errors.New("SMS rate limited")
	ErrTwilioCredentials   = errors.New("invalid Twilio credentials")
)

// SMSConfig holds the configuration for SMS sending via Twilio
type SMSConfig struct {
	AccountSID      string
	AuthToken       string
	FromPhoneNumber string
}

// SMSService handles sending SMS messages via Twilio
type SMSService struct {
	config *SMSConfig
	client *twilio.RestClient
}

// NewSMSService creates a new SMSService
func NewSMSService(config *SMSConfig) *SMSService {
	if config == nil {
		config = &SMSConfig{}
	}

	svc := &SMSService{
		config: config,
	}

	if svc.IsConfigured() {
		svc.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: config.AccountSID,
			Password: config.AuthToken,
		})
	}

	return svc
}

// NewSMSServiceFromEnv creates a new SMSService from environment variables
func NewSMSServiceFromEnv() *SMSService {
	config := &SMSConfig{
		AccountSID:      os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:       os.Getenv("TWILIO_AUTH_TOKEN"),
		FromPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
	return NewSMSService(config)
}

// IsConfigured returns true if Twilio is properly configured
func (s *SMSService) IsConfigured() bool {
	return s.config != nil &&
		s.config.AccountSID != "" &&
		s.config.AuthToken != "" &&
		s.config.FromPhoneNumber != ""
}

// SendSMS sends an SMS message to the specified phone number
func (s *SMSService) SendSMS(ctx context.Context, to, message string) error {
	if !s.IsConfigured() {
		return ErrTwilioNotConfigured
	}

	if to == "" || !models.ValidatePhoneNumber(to) {
		return ErrInvalidPhoneNumber
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.config.FromPhoneNumber)
	params.SetBody(message)

	_, err := s.client.Api.CreateMessage(params)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "21610") || strings.Contains(errStr, "21614") {
			return fmt.Errorf("%w: %v", ErrInvalidPhoneNumber, err)
		}
		if strings.Contains(errStr, "20003") || strings.Contains(errStr, "20001") {
			return fmt.Errorf("%w: %v", ErrTwilioCredentials, err)
		}
		if strings.Contains(errStr, "14107") || strings.Contains(errStr, "rate") {
			return fmt.Errorf("%w: %v", ErrSMSRateLimited, err)
		}
		return fmt.Errorf("%w: %v", ErrSMSSendFailed, err)
	}

	return nil
}

// AssignmentNotice is the data needed to tell a worker about a newly
// published shift assignment.
type AssignmentNotice struct {
	WorkerName  string
	WorkerPhone string
	SectionName string
	Date        string
	ScenarioTag string
}

// BuildAssignmentMessage builds the SMS body for a published assignment.
// Kept under 160 characters to avoid multi-segment fragmentation.
func BuildAssignmentMessage(n AssignmentNotice) string {
	msg := fmt.Sprintf("[pedishift] %s: guardia %s el %s (%s)", n.WorkerName, n.SectionName, n.Date, n.ScenarioTag)
	if len(msg) > 160 {
		msg = msg[:157] + "..."
	}
	return msg
}

// AssignmentNotifier sends one SMS per worker with new assignments when a
// scenario transitions to published. A no-op when Twilio isn't configured,
// so tests and local runs don't need live credentials.
type AssignmentNotifier struct {
	sms *SMSService
}

// NewAssignmentNotifier builds a notifier around an SMSService.
func NewAssignmentNotifier(sms *SMSService) *AssignmentNotifier {
	return &AssignmentNotifier{sms: sms}
}

// NotifyPublished sends the assignment notices, continuing past individual
// send failures and returning the combined error, if any.
func (n *AssignmentNotifier) NotifyPublished(ctx context.Context, notices []AssignmentNotice) error {
	if n.sms == nil || !n.sms.IsConfigured() {
		return nil
	}

	var errs []error
	for _, notice := range notices {
		if notice.WorkerPhone == "" {
			continue
		}
		if err := n.sms.SendSMS(ctx, notice.WorkerPhone, BuildAssignmentMessage(notice)); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", notice.WorkerName, err))
		}
	}
	return errors.Join(errs...)
}
