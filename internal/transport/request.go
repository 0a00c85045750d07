package transport

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/taxsync/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is kept in an APIError.
const maxErrorBody = 512

// DecodeXML decodes an XML response into target and closes the body.
// A non-200 status is an APIError attributed to service.
func DecodeXML(resp *http.Response, service string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint(resp),
			Message:    summarize(body, resp.Status),
		}
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	if err := dec.Decode(target); err != nil {
		return errors.NewParseError("xml", endpoint(resp), err.Error(), err)
	}
	return nil
}

// endpoint returns the request URL without its query string.
func endpoint(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	u := *resp.Request.URL
	u.RawQuery = ""
	return u.String()
}

// summarize trims an error body to a single bounded line.
func summarize(body []byte, fallback string) string {
	msg := strings.Join(strings.Fields(string(body)), " ")
	if msg == "" {
		return fallback
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return msg
}
