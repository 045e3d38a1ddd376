package utils

import (
	"fmt"

	"learnhub/config"

	"github.com/go-resty/resty/v2"
)

// CertificateClient calls the external certificate renderer service, which
// generates the PDF and returns a hosted URL.
type CertificateClient struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

// NewCertificateClient builds a client from AppConfig.
func NewCertificateClient() *CertificateClient {
	return &CertificateClient{
		client:  resty.New(),
		baseURL: config.AppConfig.CertificateApiURL,
		apiKey:  config.AppConfig.CertificateApiKey,
	}
}

type certificateResponse struct {
	URL string `json:"url"`
}

// Generate asks the renderer for a certificate file and returns its URL.
func (c *CertificateClient) Generate(userID, programID uint, serial string) (string, error) {
	var result certificateResponse
	resp, err := c.client.R().
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(map[string]interface{}{
			"user_id":    userID,
			"program_id": programID,
			"serial":     serial,
		}).
		SetResult(&result).
		Post(c.baseURL + "certificates")
	if err != nil {
		return "", fmt.Errorf("certificate renderer request failed: %w", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return "", fmt.Errorf("certificate renderer returned %d: %s", resp.StatusCode(), resp.String())
	}
	if result.URL == "" {
		return "", fmt.Errorf("certificate renderer returned no url")
	}
	return result.URL, nil
}
