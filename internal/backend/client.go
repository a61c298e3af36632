package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"sourcegate/internal/config"
	"sourcegate/internal/domain"
	"sourcegate/internal/logger"
)

const (
	defaultTimeout = 30 * time.Second
	uploadTimeout  = 10 * time.Minute

	maxErrorBody = 4 * 1024 // сколько байт тела ошибки читаем для диагностики
)

// Client реализует Store поверх HTTP API бэкенда мониторинга.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg config.BackendConfig, log *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// Ping проверяет доступность бэкенда
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}

func (c *Client) ListSourceVersions(ctx context.Context, projectID string) ([]domain.SourceVersion, error) {
	var versions []domain.SourceVersion
	path := fmt.Sprintf("/api/projects/%s/source-versions", url.PathEscape(projectID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// UploadSourceArchives отправляет пару архивов (исходники + sourcemap) как
// multipart-форму. Валидация содержимого архивов выполняется на бэкенде,
// клиентская предварительная проверка живет в association-сервисе.
func (c *Client) UploadSourceArchives(
	ctx context.Context,
	projectID, version string,
	sourceArchive, sourcemapArchive []byte,
	setActive bool,
) (*domain.UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("source", "source.zip")
	if err != nil {
		return nil, fmt.Errorf("failed to create source part: %w", err)
	}
	if _, err := part.Write(sourceArchive); err != nil {
		return nil, fmt.Errorf("failed to write source archive: %w", err)
	}

	part, err = writer.CreateFormFile("sourcemap", "sourcemap.zip")
	if err != nil {
		return nil, fmt.Errorf("failed to create sourcemap part: %w", err)
	}
	if _, err := part.Write(sourcemapArchive); err != nil {
		return nil, fmt.Errorf("failed to write sourcemap archive: %w", err)
	}

	if err := writer.WriteField("version", version); err != nil {
		return nil, fmt.Errorf("failed to write version field: %w", err)
	}
	if err := writer.WriteField("set_active", strconv.FormatBool(setActive)); err != nil {
		return nil, fmt.Errorf("failed to write set_active field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	path := fmt.Sprintf("/api/projects/%s/source-versions", url.PathEscape(projectID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-Id", uuid.NewString())

	// Для загрузки архивов используем отдельный клиент с увеличенным таймаутом
	uploadClient := &http.Client{Timeout: uploadTimeout}
	resp, err := uploadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var result domain.UploadResult
	if err := c.decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SetActiveAssociation(ctx context.Context, projectID, associationID string) (*domain.OperationStatus, error) {
	path := fmt.Sprintf(
		"/api/projects/%s/source-versions/%s/activate",
		url.PathEscape(projectID),
		url.PathEscape(associationID),
	)
	var status domain.OperationStatus
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) DeleteAssociation(ctx context.Context, projectID, associationID string) (*domain.OperationStatus, error) {
	path := fmt.Sprintf(
		"/api/projects/%s/source-versions/%s",
		url.PathEscape(projectID),
		url.PathEscape(associationID),
	)
	var status domain.OperationStatus
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) ListFiles(ctx context.Context, projectID, version string) ([]domain.FileEntry, error) {
	query := url.Values{}
	query.Set("version", version)

	var files []domain.FileEntry
	path := fmt.Sprintf("/api/projects/%s/source-files", url.PathEscape(projectID))
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) ResolveLocation(
	ctx context.Context,
	projectID, version, fileName string,
	line int,
	column *int,
) (*domain.ResolvedLocation, error) {
	request := struct {
		Version  string `json:"version"`
		FileName string `json:"file_name"`
		Line     int    `json:"line"`
		Column   *int   `json:"column,omitempty"`
	}{Version: version, FileName: fileName, Line: line, Column: column}

	// Бэкенд отвечает JSON null, если позиция не разрешилась
	var location *domain.ResolvedLocation
	path := fmt.Sprintf("/api/projects/%s/resolve", url.PathEscape(projectID))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, request, &location); err != nil {
		return nil, err
	}
	return location, nil
}

func (c *Client) GetFileContent(
	ctx context.Context,
	projectID, version, filePath string,
	line, contextLines int,
) (*domain.SourceCodeContext, error) {
	query := url.Values{}
	query.Set("version", version)
	query.Set("file_path", filePath)
	query.Set("line", strconv.Itoa(line))
	query.Set("context_lines", strconv.Itoa(contextLines))

	var window *domain.SourceCodeContext
	path := fmt.Sprintf("/api/projects/%s/source-content", url.PathEscape(projectID))
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &window); err != nil {
		return nil, err
	}
	return window, nil
}

func (c *Client) PrepareContext(
	ctx context.Context,
	projectID, version string,
	errorInfo domain.ErrorPosition,
	contextSize int,
) (*domain.DiagnosisContext, error) {
	request := struct {
		Version     string               `json:"version"`
		Error       domain.ErrorPosition `json:"error"`
		ContextSize int                  `json:"context_size"`
	}{Version: version, Error: errorInfo, ContextSize: contextSize}

	var diagCtx domain.DiagnosisContext
	path := fmt.Sprintf("/api/projects/%s/diagnosis-context", url.PathEscape(projectID))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, request, &diagCtx); err != nil {
		return nil, err
	}
	return &diagCtx, nil
}

// doJSON выполняет запрос с JSON-телом и декодирует JSON-ответ в out.
// out может быть nil, если тело ответа не нужно.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, out)
}

func (c *Client) decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		// 4xx означает ошибку входных данных или состояния, а не инфраструктуры
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			var apiErr struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(snippet, &apiErr); err == nil && apiErr.Error != "" {
				return domain.NewValidationError(apiErr.Error)
			}
			return domain.NewValidationError(fmt.Sprintf("backend rejected request: status %d", resp.StatusCode))
		}

		c.log.Error("backend returned error status",
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
