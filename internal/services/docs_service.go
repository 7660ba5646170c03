package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"
	"flightsurety/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// PolicySource is the engine view the certificate needs. *Surety satisfies it.
type PolicySource interface {
	Policy(passenger domain.Principal, flight models.FlightKey) (models.Policy, bool)
	GetStatus(flight models.FlightKey) models.StatusCode
	Params() Params
}

// DocsService renders per-policy PDF certificates.
type DocsService struct {
	Source    PolicySource
	RequestID string
	Loader    func(domain.Principal, models.FlightKey) (policyDocData, error)
	Now       func() time.Time
}

type policyDocData struct {
	Passenger domain.Principal
	Flight    models.FlightKey
	Insured   decimal.Decimal
	Payout    decimal.Decimal
	Status    models.StatusCode
	Credited  bool
}

func (s DocsService) GeneratePolicyCertificate(passenger domain.Principal, flight models.FlightKey) ([]byte, string, error) {
	data, err := s.loadPolicyDocData(passenger, flight)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_certificate", fmt.Sprintf("passenger=%s flight=%s", passenger, flight))
	return buildCertificatePDF(data, s.now())
}

func (s DocsService) loadPolicyDocData(passenger domain.Principal, flight models.FlightKey) (policyDocData, error) {
	if s.Loader != nil {
		return s.Loader(passenger, flight)
	}
	if s.Source == nil {
		return policyDocData{}, domain.InternalError{Msg: "policy source is not configured"}
	}
	p, ok := s.Source.Policy(passenger, flight)
	if !ok {
		return policyDocData{}, domain.NotFoundError{Resource: "policy"}
	}
	return policyDocData{
		Passenger: p.Passenger,
		Flight:    p.Flight,
		Insured:   p.Insured,
		Payout:    p.Insured.Mul(s.Source.Params().PayoutMultiplier),
		Status:    s.Source.GetStatus(flight),
		Credited:  p.Credited,
	}, nil
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func buildCertificatePDF(d policyDocData, issued time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Policy Certificate", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FLIGHT DELAY INSURANCE CERTIFICATE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger      : %s", safe(d.Passenger.String(), "-")),
		fmt.Sprintf("Airline        : %s", safe(d.Flight.Airline.String(), "-")),
		fmt.Sprintf("Flight         : %s", safe(d.Flight.Code, "-")),
		fmt.Sprintf("Departure      : %s", departureTime(d.Flight.Timestamp)),
		fmt.Sprintf("Insured amount : %s", utils.FormatAmount(d.Insured)),
		fmt.Sprintf("Payout if late : %s", utils.FormatAmount(d.Payout)),
		fmt.Sprintf("Flight status  : %s", d.Status),
		fmt.Sprintf("Credited       : %s", yesNo(d.Credited)),
		fmt.Sprintf("Issued         : %s", issued.UTC().Format("2006-01-02 15:04 MST")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Payout is credited only when the flight is resolved as late due to the airline. Credited amounts are withdrawn by the passenger.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("POLICY_%s_%s.pdf", safeFilenamePart(d.Flight.Code), safeFilenamePart(d.Passenger.String()))
	return buf.Bytes(), filename, nil
}

func departureTime(ts int64) string {
	if ts <= 0 {
		return "-"
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04 MST")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
