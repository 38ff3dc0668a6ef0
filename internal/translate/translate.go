package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

const defaultEndpoint = "https://translate.googleapis.com/translate_a/single"

type Config struct {
	Endpoint string `yaml:"endpoint"`
	Source   string `yaml:"source"`
	Target   string `yaml:"target"`
}

type Translator interface {
	// Translate returns the text translated to the target language,
	// or the input unchanged when translation is not possible.
	Translate(ctx context.Context, text string) string
}

func New(cfg Config, client *http.Client, log logger.Logger) Translator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Source == "" {
		cfg.Source = "auto"
	}
	if cfg.Target == "" {
		cfg.Target = "gu"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &google{
		cfg:    cfg,
		client: client,
		log:    log.With("translator"),
	}
}

type google struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

func (g *google) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	translated, err := g.request(ctx, text)
	if err != nil {
		g.log.Warn(errors.WrapFail(err, "translate text"))
		return text
	}

	return translated
}

func (g *google) request(ctx context.Context, text string) (string, error) {
	query := url.Values{
		"client": {"gtx"},
		"sl":     {g.cfg.Source},
		"tl":     {g.cfg.Target},
		"dt":     {"t"},
		"q":      {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", errors.WrapFail(err, "build request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.WrapFail(err, "do request")
	}
	defer func() {
		err := resp.Body.Close()
		if err != nil {
			g.log.Warn(errors.WrapFail(err, "close response body"))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Failf("translate: unexpected status %d", resp.StatusCode)
	}

	return decode(resp.Body)
}

// decode extracts translated segments from the gtx response,
// shaped as [[["segment","source",...],...],...].
func decode(body io.Reader) (string, error) {
	var payload []json.RawMessage

	err := json.NewDecoder(body).Decode(&payload)
	if err != nil {
		return "", errors.WrapFail(err, "decode response")
	}

	if len(payload) == 0 {
		return "", errors.Error("empty response")
	}

	var rows []json.RawMessage
	err = json.Unmarshal(payload[0], &rows)
	if err != nil {
		return "", errors.WrapFail(err, "decode segments")
	}

	var sb strings.Builder
	for _, row := range rows {
		var cells []json.RawMessage
		err = json.Unmarshal(row, &cells)
		if err != nil {
			return "", errors.WrapFail(err, "decode segment row")
		}
		if len(cells) == 0 {
			return "", errors.Error("empty segment row")
		}

		var segment string
		err = json.Unmarshal(cells[0], &segment)
		if err != nil {
			return "", errors.WrapFail(err, "decode segment text")
		}

		sb.WriteString(segment)
	}

	if sb.Len() == 0 {
		return "", errors.Error("no translated segments")
	}

	return sb.String(), nil
}
