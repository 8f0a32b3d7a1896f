package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/grupoterra/cotizador-api/internal/config"
	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// SendOtpCode delivers the discount authorization passcode to the supervisor.
func (s *EmailService) SendOtpCode(ctx context.Context, supervisor *models.User, advisorName, projectName string, discount float64, code string, minutes int) error {
	data := struct {
		Name        string
		AdvisorName string
		ProjectName string
		Discount    string
		Code        string
		Minutes     int
	}{
		Name:        supervisor.FullName,
		AdvisorName: advisorName,
		ProjectName: projectName,
		Discount:    fmt.Sprintf("L%.2f", discount),
		Code:        code,
		Minutes:     minutes,
	}

	body, err := s.renderTemplate("otp_code.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{supervisor.Email},
		Subject: "Código de autorización de descuento",
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", supervisor.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Código de autorización de descuento", supervisor.Email))
	return nil
}

// SendQuotationSubmitted mails the quotation summary to the lead.
func (s *EmailService) SendQuotationSubmitted(ctx context.Context, quotation *models.Quotation) error {
	if quotation.Lead.Email == nil {
		return nil
	}

	advisorName := ""
	if quotation.Advisor != nil {
		advisorName = quotation.Advisor.FullName
	}

	data := struct {
		QuotationID    uint
		Name           string
		ProjectName    string
		BlockName      string
		LotName        string
		Area           string
		TotalPrice     string
		Discount       string
		FinalPrice     string
		MonthsFinanced int
		MonthlyPayment string
		AdvisorName    string
	}{
		QuotationID:    quotation.ID,
		Name:           quotation.Lead.FullName,
		ProjectName:    quotation.Project.Name,
		BlockName:      quotation.Block.Name,
		LotName:        quotation.Lot.Name,
		Area:           fmt.Sprintf("%.2f %s", quotation.Area, quotation.Project.MeasurementUnit),
		TotalPrice:     fmt.Sprintf("L%.2f", quotation.TotalPrice),
		Discount:       fmt.Sprintf("L%.2f", quotation.Discount),
		FinalPrice:     fmt.Sprintf("L%.2f", quotation.FinalPrice),
		MonthsFinanced: quotation.MonthsFinanced,
		MonthlyPayment: fmt.Sprintf("L%.2f", quotation.MonthlyPayment),
		AdvisorName:    advisorName,
	}

	body, err := s.renderTemplate("quotation_submitted.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{*quotation.Lead.Email},
		Subject: fmt.Sprintf("Cotización #%d - %s", quotation.ID, quotation.Project.Name),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", *quotation.Lead.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Cotización #%d", *quotation.Lead.Email, quotation.ID))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
