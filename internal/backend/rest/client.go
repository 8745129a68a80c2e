package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clipdeck/clipdeck/internal/backend"
	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/pkg/errors"
)

const defaultRequestTimeout = 15

type restClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBackendClient(cfg *config.Config) backend.Client {
	timeout := cfg.Backend.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &restClient{
		baseURL: strings.TrimRight(cfg.Backend.APIURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

func (c *restClient) CreateJob(ctx context.Context, fileID string) (*models.JobSnapshot, error) {
	snap := &models.JobSnapshot{}
	url := fmt.Sprintf("%s/process/%s", c.baseURL, fileID)
	if err := c.doJSON(ctx, http.MethodPost, url, nil, snap); err != nil {
		return nil, errors.Wrap(err, "restClient.CreateJob")
	}
	return snap, nil
}

func (c *restClient) CreateManualJob(ctx context.Context, fileID string, clips []models.Clip) (*models.JobSnapshot, error) {
	body := map[string]interface{}{"clips": clips}
	snap := &models.JobSnapshot{}
	url := fmt.Sprintf("%s/process/manual/%s", c.baseURL, fileID)
	if err := c.doJSON(ctx, http.MethodPost, url, body, snap); err != nil {
		return nil, errors.Wrap(err, "restClient.CreateManualJob")
	}
	return snap, nil
}

func (c *restClient) GetJobSnapshot(ctx context.Context, jobID string) (*models.JobSnapshot, error) {
	snap := &models.JobSnapshot{}
	url := fmt.Sprintf("%s/jobs/%s", c.baseURL, jobID)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, snap); err != nil {
		return nil, errors.Wrap(err, "restClient.GetJobSnapshot")
	}
	return snap, nil
}

func (c *restClient) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(data))
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response body")
	}
	return nil
}
