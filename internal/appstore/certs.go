package appstore

import (
	"context"
	"fmt"
	"net/http"
)

// CertificateType names a signing certificate type on the REST API.
type CertificateType string

const (
	CertificateTypeDevelopment  CertificateType = "DEVELOPMENT"
	CertificateTypeDistribution CertificateType = "DISTRIBUTION"
	// Notarization uses a Developer ID Application certificate.
	CertificateTypeDeveloperID CertificateType = "DEVELOPER_ID_APPLICATION"
)

// ParseCertificateType maps the CLI spelling to the API value.
func ParseCertificateType(s string) (CertificateType, error) {
	switch s {
	case "development":
		return CertificateTypeDevelopment, nil
	case "distribution":
		return CertificateTypeDistribution, nil
	case "notarization":
		return CertificateTypeDeveloperID, nil
	default:
		return "", fmt.Errorf("unsupported certificate type %q (want development, distribution or notarization)", s)
	}
}

// Certificate is a signing certificate.
type Certificate struct {
	ID         string                `json:"id"`
	Attributes CertificateAttributes `json:"attributes"`
}

type CertificateAttributes struct {
	Name            string `json:"name"`
	CertificateType string `json:"certificateType"`
	// CertificateContent is the base64 encoded DER certificate.
	CertificateContent string `json:"certificateContent"`
	SerialNumber       string `json:"serialNumber"`
	ExpirationDate     string `json:"expirationDate"`
}

type certificateCreateRequest struct {
	Data certificateCreateData `json:"data"`
}

type certificateCreateData struct {
	Attributes certificateCreateAttributes `json:"attributes"`
	Type       string                      `json:"type"`
}

type certificateCreateAttributes struct {
	CertificateType string `json:"certificateType"`
	CSRContent      string `json:"csrContent"`
}

type certificateResponse struct {
	Data Certificate `json:"data"`
}

type certificatesResponse struct {
	Data []Certificate `json:"data"`
}

// CreateCertificate submits a PEM certificate signing request and returns
// the issued certificate.
func (c *Client) CreateCertificate(ctx context.Context, csrPEM string, certType CertificateType) (*Certificate, error) {
	body := certificateCreateRequest{
		Data: certificateCreateData{
			Attributes: certificateCreateAttributes{
				CertificateType: string(certType),
				CSRContent:      csrPEM,
			},
			Type: "certificates",
		},
	}

	var resp certificateResponse
	if err := c.doJSON(ctx, http.MethodPost, c.restURL+"/certificates", body, &resp); err != nil {
		return nil, fmt.Errorf("creating certificate: %w", err)
	}
	return &resp.Data, nil
}

// ListCertificates returns all signing certificates.
func (c *Client) ListCertificates(ctx context.Context) ([]Certificate, error) {
	var resp certificatesResponse
	if err := c.doJSON(ctx, http.MethodGet, c.restURL+"/certificates", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing certificates: %w", err)
	}
	return resp.Data, nil
}

// GetCertificate returns one certificate by id.
func (c *Client) GetCertificate(ctx context.Context, id string) (*Certificate, error) {
	var resp certificateResponse
	if err := c.doJSON(ctx, http.MethodGet, c.restURL+"/certificates/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("getting certificate %s: %w", id, err)
	}
	return &resp.Data, nil
}

// RevokeCertificate revokes a certificate by id.
func (c *Client) RevokeCertificate(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.restURL+"/certificates/"+id, nil, nil); err != nil {
		return fmt.Errorf("revoking certificate %s: %w", id, err)
	}
	return nil
}
