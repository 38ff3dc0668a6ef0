package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/curadda/digestbot/pkg/errors"
)

const defaultConverterBin = "libreoffice"

// pdfNameFormat yields names like "05-03-2026 Current Affairs.pdf".
const pdfNameFormat = "02-01-2006"

func PDFName(date time.Time) string {
	return date.Format(pdfNameFormat) + " Current Affairs.pdf"
}

func NewConverter(bin string) *Converter {
	if bin == "" {
		bin = defaultConverterBin
	}
	return &Converter{bin: bin}
}

type Converter struct {
	bin string
}

// PDF converts the .docx at docxPath with headless LibreOffice and
// renames the result to the dated digest name. The PDF lands in the
// same directory as the source file.
func (c *Converter) PDF(ctx context.Context, docxPath string, date time.Time) (string, error) {
	dir := filepath.Dir(docxPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(
		ctx,
		c.bin,
		"--headless", "--convert-to", "pdf", "--outdir", dir, docxPath,
	)
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", errors.WrapFailf(err, "convert to pdf: %s", strings.TrimSpace(stderr.String()))
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	converted := filepath.Join(dir, base+".pdf")

	named := filepath.Join(dir, PDFName(date))
	err = os.Rename(converted, named)
	if err != nil {
		return "", errors.WrapFail(err, "rename pdf")
	}

	return named, nil
}

// Caption renders the Telegram caption for the digest PDF.
func Caption(date time.Time, titles []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🎗️ %s Current Affairs 🎗️\n\n", date.Format("02 January 2006"))
	for _, title := range titles {
		fmt.Fprintf(&sb, "👉 %s\n", title)
	}
	sb.WriteString("\n🎉 Join us :- @CurrentAdda 🎉")

	return sb.String()
}
