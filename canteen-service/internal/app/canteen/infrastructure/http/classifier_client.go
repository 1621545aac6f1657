package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/entity"
)

// ErrClassifierFailed - сервис распознавания ответил ошибкой
var ErrClassifierFailed = errors.New("classifier failed")

// ClassifierClient отправляет фото блюда во внешний сервис распознавания
type ClassifierClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewClassifierClient(baseURL string, timeout time.Duration) *ClassifierClient {
	return &ClassifierClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type predictResponse struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error"`
}

// Predict - POST {baseURL}/predict, multipart поле image
func (c *ClassifierClient) Predict(ctx context.Context, image []byte, filename string) (*entity.Prediction, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || result.Error != "" {
		return nil, fmt.Errorf("%w: status %d: %s", ErrClassifierFailed, resp.StatusCode, result.Error)
	}

	if result.Name == "" {
		return nil, fmt.Errorf("%w: empty prediction", ErrClassifierFailed)
	}

	return &entity.Prediction{Name: result.Name, Confidence: result.Confidence}, nil
}
