package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mrportal/domain/tabular"
	"mrportal/internal"
	"mrportal/internal/errors"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Client reads spreadsheet ranges through the Sheets REST API. Requests go
// through an oauth2 client that mints and caches service-account tokens.
type Client struct {
	config     Config
	creds      *Credentials
	httpClient *http.Client
	logger     *internal.Logger
}

// NewClient creates a client for the given service account.
func NewClient(cfg Config, creds *Credentials) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if creds == nil || len(creds.content) == 0 {
		return nil, errors.ConfigInvalid("service account credentials are required")
	}

	jwtConfig, err := google.JWTConfigFromJSON(creds.content, cfg.Scope)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	jwtConfig.Expires = cfg.TokenLifetime

	// Token requests use their own timeout-bound client.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
	httpClient := oauth2.NewClient(tokenCtx, jwtConfig.TokenSource(tokenCtx))
	httpClient.Timeout = cfg.Timeout

	return &Client{
		config:     cfg,
		creds:      creds,
		httpClient: httpClient,
		logger:     internal.DefaultLogger.With("Sheets"),
	}, nil
}

// ServiceAccountEmail is the address spreadsheets must be shared with.
func (c *Client) ServiceAccountEmail() string {
	return c.creds.ClientEmail
}

// FetchSheet reads every value of a sheet. An empty sheetName selects the
// first sheet of the spreadsheet. The first row becomes the headers.
func (c *Client) FetchSheet(ctx context.Context, spreadsheetID, sheetName string) (*tabular.Dataset, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.InvalidInput("spreadsheet id is required")
	}

	if sheetName == "" {
		title, err := c.firstSheetTitle(ctx, spreadsheetID)
		if err != nil {
			return nil, err
		}
		sheetName = title
	}

	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		c.config.BaseURL, url.PathEscape(spreadsheetID), url.PathEscape(sheetName))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	ds := parseValues(body)
	ds.SheetName = sheetName
	c.logger.Debug("fetched %d rows from %s/%s", len(ds.Rows), spreadsheetID, sheetName)
	return ds, nil
}

func (c *Client) firstSheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s?fields=%s",
		c.config.BaseURL, url.PathEscape(spreadsheetID), url.QueryEscape("sheets.properties.title"))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	title := gjson.GetBytes(body, "sheets.0.properties.title").String()
	if title == "" {
		return "", errors.NotFound(fmt.Sprintf("sheets of spreadsheet %s", spreadsheetID))
	}
	return title, nil
}

// parseValues turns a ValueRange response into a dataset. Rows come back
// ragged: trailing empty cells are omitted by the API.
func parseValues(body []byte) *tabular.Dataset {
	ds := &tabular.Dataset{Headers: []string{}, Rows: [][]string{}}
	values := gjson.GetBytes(body, "values").Array()
	for i, row := range values {
		cells := row.Array()
		record := make([]string, len(cells))
		blank := true
		for j, cell := range cells {
			record[j] = strings.TrimSpace(cell.String())
			if record[j] != "" {
				blank = false
			}
		}
		if i == 0 {
			ds.Headers = record
			continue
		}
		if blank {
			continue
		}
		ds.Rows = append(ds.Rows, record)
	}
	return ds
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError("google sheets", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError("google sheets", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusForbidden:
		return nil, errors.Forbidden(fmt.Sprintf("Acesso negado. Compartilhe a planilha com: %s", c.creds.ClientEmail))
	case http.StatusNotFound:
		return nil, errors.NotFound("spreadsheet")
	default:
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, errors.ExternalServiceError("google sheets", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
}
