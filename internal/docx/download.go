package docx

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/curadda/digestbot/pkg/errors"
)

// ExportURL rewrites a Google Docs share link into its .docx export
// form; any other URL is returned unchanged.
func ExportURL(url string) string {
	return strings.Replace(url, "/edit?usp=sharing", "/export?format=docx", 1)
}

func Download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ExportURL(url), nil)
	if err != nil {
		return nil, errors.WrapFail(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.WrapFail(err, "download template")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Failf("download template: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	return data, errors.WrapFail(err, "read template body")
}
