package imagehost

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const cloudinaryBaseURL = "https://api.cloudinary.com/v1_1/"

// Cloudinary performs signed uploads against the Cloudinary REST API.
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string

	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) *Cloudinary {
	return &Cloudinary{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		baseURL:   cloudinaryBaseURL,
		client:    &http.Client{Timeout: 60 * time.Second},
		now:       time.Now,
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Cloudinary) Upload(ctx context.Context, path, publicID string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if c.folder != "" {
		publicID = c.folder + "/" + publicID
	}
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"api_key", c.apiKey},
		{"public_id", publicID},
		{"timestamp", timestamp},
		{"signature", c.sign(publicID, timestamp)},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return "", err
		}
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := c.baseURL + c.cloudName + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	var out cloudinaryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("cloudinary upload: status %d: unreadable response", res.StatusCode)
	}
	if res.StatusCode != http.StatusOK {
		if out.Error.Message != "" {
			return "", fmt.Errorf("cloudinary upload: status %d: %s", res.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("cloudinary upload: status %d", res.StatusCode)
	}

	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", fmt.Errorf("cloudinary upload: response without url")
}

// sign builds the SHA-1 signature over the signed parameters, sorted by name.
func (c *Cloudinary) sign(publicID, timestamp string) string {
	s := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, c.apiSecret)
	return fmt.Sprintf("%x", sha1.Sum([]byte(s)))
}
