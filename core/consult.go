package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/internal/lead"
	"github.com/huangsam/birkin/internal/outwriter"
	"github.com/huangsam/birkin/schema"
)

// ErrConsultFailed is returned when a consultation ends in an error outcome.
var ErrConsultFailed = errors.New("consultation request was not sent")

// Consult uploads the optional image, submits the lead and notifies the advisor.
// There are no automatic retries. Notifier failures never change the outcome.
func Consult(ctx context.Context, req schema.ConsultRequest, uploader contract.ImageUploader, submitter contract.LeadSubmitter, notifier contract.Notifier) schema.ConsultOutcome {
	imageURL := ""
	if req.ImagePath != "" {
		url, err := uploader.Upload(ctx, req.ImagePath)
		if err != nil {
			contract.Logger.Warn().Err(err).Str("image", req.ImagePath).Msg("Image upload failed")
			return schema.ConsultOutcome{Status: schema.ConsultError, Message: schema.ConsultRejectedMessage}
		}
		imageURL = url
	}

	if err := submitter.Submit(ctx, req, imageURL); err != nil {
		contract.Logger.Warn().Err(err).Msg("Consultation submit failed")
		if errors.Is(err, lead.ErrRejected) {
			return schema.ConsultOutcome{Status: schema.ConsultError, Message: schema.ConsultRejectedMessage, ImageURL: imageURL}
		}
		return schema.ConsultOutcome{Status: schema.ConsultError, Message: schema.ConsultNetworkMessage, ImageURL: imageURL}
	}

	if notifier != nil {
		if err := notifier.Notify(ctx, req, imageURL); err != nil {
			contract.LogWarn("Failed to notify advisor", err)
		}
	}
	return schema.ConsultOutcome{Status: schema.ConsultSuccess, Message: schema.ConsultSuccessMessage, ImageURL: imageURL}
}

// ExecuteConsult validates the consult flags, sends the lead and prints the outcome.
// An error outcome is reported as ErrConsultFailed after printing.
func ExecuteConsult(ctx context.Context, cfg *contract.Config) error {
	req := cfg.Consult
	if err := lead.ValidateRequest(req); err != nil {
		return fmt.Errorf("invalid consultation request: %w", err)
	}

	var notifier contract.Notifier = lead.NoopNotifier{}
	if cfg.MailgunDomain != "" {
		notifier = lead.NewMailgunNotifier(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.SenderEmail, cfg.AdvisorEmail)
	}

	outcome := Consult(ctx, req,
		lead.NewUploader(cfg.UploadEndpoint, cfg.UploadPreset),
		lead.NewFormClient(cfg.FormEndpoint, cfg.LeadsPerMinute),
		notifier,
	)
	if err := outwriter.WriteConsultOutcome(outcome, cfg); err != nil {
		return err
	}
	if outcome.Status != schema.ConsultSuccess {
		return ErrConsultFailed
	}
	return nil
}
