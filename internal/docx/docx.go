// Package docx implements the minimal WordprocessingML editing the
// digest needs: loading a .docx template and splicing styled paragraphs
// into the region between two placeholder paragraphs.
//
// A .docx file is a zip archive; all entries are carried through
// verbatim except word/document.xml, which holds the paragraphs.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/curadda/digestbot/pkg/errors"
)

const (
	documentEntry = "word/document.xml"

	// StartPlaceholder and EndPlaceholder delimit the template region
	// replaced by the digest content.
	StartPlaceholder = "START_CONTENT"
	EndPlaceholder   = "END_CONTENT"
)

type Style int

const (
	Normal Style = iota
	Heading1
	Heading2
	Heading4
	ListBullet
)

func (s Style) id() string {
	switch s {
	case Heading1:
		return "Heading1"
	case Heading2:
		return "Heading2"
	case Heading4:
		return "Heading4"
	case ListBullet:
		return "ListBullet"
	default:
		return ""
	}
}

type Block struct {
	Style Style
	Text  string
}

type entry struct {
	name string
	data []byte
}

type Template struct {
	entries  []entry
	document string
}

func Open(data []byte) (*Template, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.WrapFail(err, "open docx archive")
	}

	t := &Template{}

	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.WrapFailf(err, "open archive entry %q", f.Name)
		}

		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, errors.WrapFailf(err, "read archive entry %q", f.Name)
		}

		t.entries = append(t.entries, entry{name: f.Name, data: raw})

		if f.Name == documentEntry {
			t.document = string(raw)
		}
	}

	if t.document == "" {
		return nil, errors.Failf("find %s in archive", documentEntry)
	}

	return t, nil
}

// Splice replaces everything between the START_CONTENT and END_CONTENT
// paragraphs with one paragraph per block, blanking both placeholders.
func (t *Template) Splice(blocks []Block) error {
	paras := paragraphs(t.document)

	start, end := -1, -1
	for i, p := range paras {
		if strings.Contains(p.text, StartPlaceholder) {
			start = i
		} else if strings.Contains(p.text, EndPlaceholder) {
			end = i
			break
		}
	}

	if start < 0 || end < 0 {
		return errors.Fail("find both content placeholders")
	}

	var sb strings.Builder
	sb.WriteString(t.document[:paras[start].from])
	sb.WriteString("<w:p/>")
	for _, b := range blocks {
		sb.WriteString(renderParagraph(b))
	}
	sb.WriteString("<w:p/>")
	sb.WriteString(t.document[paras[end].to:])

	t.document = sb.String()
	return nil
}

func (t *Template) Save() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, e := range t.entries {
		data := e.data
		if e.name == documentEntry {
			data = []byte(t.document)
		}

		f, err := w.Create(e.name)
		if err != nil {
			return nil, errors.WrapFailf(err, "create archive entry %q", e.name)
		}

		_, err = f.Write(data)
		if err != nil {
			return nil, errors.WrapFailf(err, "write archive entry %q", e.name)
		}
	}

	err := w.Close()
	if err != nil {
		return nil, errors.WrapFail(err, "finalize archive")
	}

	return buf.Bytes(), nil
}

type paragraph struct {
	from, to int
	text     string
}

var textRe = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// paragraphs locates every <w:p> element of the document along with its
// concatenated run text. Paragraphs never nest, so a linear scan works.
func paragraphs(doc string) []paragraph {
	var out []paragraph

	for off := 0; ; {
		rel := indexParagraph(doc[off:])
		if rel < 0 {
			return out
		}
		from := off + rel

		to := paragraphEnd(doc, from)
		if to < 0 {
			return out
		}

		body := doc[from:to]

		var text strings.Builder
		for _, m := range textRe.FindAllStringSubmatch(body, -1) {
			text.WriteString(m[1])
		}

		out = append(out, paragraph{from: from, to: to, text: text.String()})
		off = to
	}
}

// indexParagraph finds the next "<w:p>", "<w:p ... >" or "<w:p/>" tag,
// skipping lookalikes such as <w:pPr> and <w:pStyle>.
func indexParagraph(s string) int {
	for off := 0; ; {
		i := strings.Index(s[off:], "<w:p")
		if i < 0 {
			return -1
		}
		i += off

		rest := s[i+len("<w:p"):]
		if rest == "" {
			return -1
		}

		switch rest[0] {
		case '>', ' ', '/':
			return i
		}

		off = i + len("<w:p")
	}
}

// paragraphEnd returns the index just past the paragraph starting at from.
func paragraphEnd(doc string, from int) int {
	gt := strings.IndexByte(doc[from:], '>')
	if gt < 0 {
		return -1
	}

	// self-closing, e.g. an empty <w:p/>
	if doc[from+gt-1] == '/' {
		return from + gt + 1
	}

	end := strings.Index(doc[from:], "</w:p>")
	if end < 0 {
		return -1
	}

	return from + end + len("</w:p>")
}

func renderParagraph(b Block) string {
	var sb strings.Builder

	sb.WriteString("<w:p>")
	if id := b.Style.id(); id != "" {
		sb.WriteString(`<w:pPr><w:pStyle w:val="` + id + `"/></w:pPr>`)
	}
	sb.WriteString(`<w:r><w:t xml:space="preserve">`)
	sb.WriteString(escape(b.Text))
	sb.WriteString("</w:t></w:r></w:p>")

	return sb.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
