package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/doctor-booking-agent/internal/config"
	"github.com/wolfman30/doctor-booking-agent/internal/notify"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// BuildEmailSender picks the confirmation email transport. Misconfigured
// providers degrade to the logging stub so bookings still complete.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger)
	}

	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid selected but SENDGRID_API_KEY is empty; using stub email sender")
			return notify.NewStubEmailSender(logger)
		}
		logger.Info("confirmation emails via sendgrid", "from", cfg.SendGridFromEmail)
		return sender
	case "ses":
		if cfg.SESFromEmail == "" {
			logger.Warn("ses selected but SES_FROM_EMAIL is empty; using stub email sender")
			return notify.NewStubEmailSender(logger)
		}
		logger.Info("confirmation emails via ses", "from", cfg.SESFromEmail)
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}
