package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/parentalrights/complaint-portal-api/models"
)

// APIClient implements Uploader and Creator against the portal's public
// endpoints, preserving the two-stage upload -> document-create flow the web
// client performs.
type APIClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewAPIClient creates a client for the portal API at baseURL. token is the
// identity provider's bearer session token.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: http.DefaultClient,
	}
}

func quoteEscape(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

// Upload posts the attachment to /api/upload as the multipart field "file"
// and returns the durable URL the endpoint reports
func (c *APIClient) Upload(ctx context.Context, file *Attachment) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscape(file.Name)))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	hdr.Set("Content-Type", mediaType)

	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", err
	}
	if _, err = part.Write(file.Data); err != nil {
		return "", err
	}
	if err = mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", responseError("upload", resp)
	}

	var uploaded models.UploadResponse
	if err = json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", err
	}
	if !uploaded.Success || uploaded.URL == "" {
		return "", fmt.Errorf("upload endpoint returned no url")
	}
	return uploaded.URL, nil
}

// Create posts the complaint document to the document-create endpoint and
// returns the generated identifier
func (c *APIClient) Create(ctx context.Context, complaint models.Complaint) (string, error) {
	b, err := json.Marshal(complaint)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/submit-to-sanity", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", responseError("document-create", resp)
	}

	var created models.ComplaintCreatedResponse
	if err = json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	if !created.Success || created.ID == "" {
		return "", fmt.Errorf("document-create endpoint returned no id")
	}
	return created.ID, nil
}

func (c *APIClient) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func responseError(stage string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s endpoint returned %d: %s", stage, resp.StatusCode, strings.TrimSpace(string(b)))
}
