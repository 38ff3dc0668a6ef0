package report

import (
	"context"
	"net/http"
	"os"

	"github.com/curadda/digestbot/internal/docx"
	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

func NewBuilder(client *http.Client, log logger.Logger) *Builder {
	if client == nil {
		client = http.DefaultClient
	}
	return &Builder{
		client: client,
		log:    log.With("report_builder"),
	}
}

type Builder struct {
	client *http.Client
	log    logger.Logger
}

// Build downloads the template, splices the blocks into it and writes
// the result to a temporary .docx file, returning its path.
func (b *Builder) Build(ctx context.Context, templateURL string, blocks []docx.Block) (string, error) {
	raw, err := docx.Download(ctx, b.client, templateURL)
	if err != nil {
		return "", errors.WrapFail(err, "download template")
	}

	tpl, err := docx.Open(raw)
	if err != nil {
		return "", errors.WrapFail(err, "open template")
	}

	err = tpl.Splice(blocks)
	if err != nil {
		return "", errors.WrapFail(err, "splice content")
	}

	data, err := tpl.Save()
	if err != nil {
		return "", errors.WrapFail(err, "serialize document")
	}

	tmp, err := os.CreateTemp("", "digest-*.docx")
	if err != nil {
		return "", errors.WrapFail(err, "create temp file")
	}

	_, err = tmp.Write(data)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", errors.WrapFail(err, "write temp file")
	}

	err = tmp.Close()
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", errors.WrapFail(err, "close temp file")
	}

	return tmp.Name(), nil
}
