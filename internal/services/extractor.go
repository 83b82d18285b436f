package services

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type ExtractorService interface {
	// Extract converts a stored document into raw text. Extraction is
	// all-or-nothing: no partial text is returned on failure.
	Extract(path, contentType string) (string, error)
}

type extractorService struct{}

func NewExtractorService() ExtractorService {
	return &extractorService{}
}

// Extract implements ExtractorService.
func (e *extractorService) Extract(path, contentType string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: file does not exist: %s", ErrExtractionFailed, path)
	}

	switch contentType {
	case ContentTypePDF:
		return e.extractPDF(path)
	case ContentTypeDOCX:
		return extractDOCX(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}
}

func (e *extractorService) extractPDF(path string) (string, error) {
	text, primaryErr := readPDFText(path)
	if primaryErr == nil {
		return text, nil
	}

	// Secondary strategy: rewrite the file with pdfcpu, which repairs
	// malformed xref tables and object streams, then parse again.
	repaired := filepath.Join(os.TempDir(), fmt.Sprintf("repaired_%s.pdf", uuid.New().String()))
	if repairErr := api.OptimizeFile(path, repaired, nil); repairErr == nil {
		defer os.Remove(repaired)
		if text, err := readPDFText(repaired); err == nil {
			return text, nil
		}
	}

	return "", fmt.Errorf(
		"%w: PDF appears to be scanned or image-based, OCR is not supported (parse error: %v)",
		ErrExtractionFailed, primaryErr,
	)
}

func readPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return text, nil
}

// extractDOCX reads word/document.xml from the archive and collects all
// paragraph text in document order, then all table-cell text row-major.
func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open DOCX archive: %v", ErrExtractionFailed, err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%w: DOCX archive has no word/document.xml", ErrExtractionFailed)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("%w: failed to read DOCX body: %v", ErrExtractionFailed, err)
	}
	defer rc.Close()

	paragraphs, cells, err := walkDocumentXML(rc)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse DOCX body: %v", ErrExtractionFailed, err)
	}

	lines := append(paragraphs, cells...)
	raw := strings.Join(lines, "\n")
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: DOCX file appears to be empty or contains no extractable text", ErrExtractionFailed)
	}
	return raw, nil
}

// walkDocumentXML streams the WordprocessingML body. Paragraphs outside
// tables are collected first; table cells are buffered separately so they
// can be appended after the running text, row-major.
func walkDocumentXML(r io.Reader) (paragraphs, cells []string, err error) {
	decoder := xml.NewDecoder(r)

	var para strings.Builder
	var cell strings.Builder
	tableDepth := 0
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "t":
				inText = false
			case "p":
				if tableDepth == 0 {
					if line := strings.TrimSpace(para.String()); line != "" {
						paragraphs = append(paragraphs, line)
					}
					para.Reset()
				} else {
					cell.WriteString("\n")
				}
			case "tc":
				if text := strings.TrimSpace(cell.String()); text != "" {
					cells = append(cells, text)
				}
				cell.Reset()
			}
		case xml.CharData:
			if !inText {
				continue
			}
			if tableDepth > 0 {
				cell.Write(t)
			} else {
				para.Write(t)
			}
		}
	}

	return paragraphs, cells, nil
}
