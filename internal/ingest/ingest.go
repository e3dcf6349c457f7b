// Package ingest turns uploaded files into document inputs.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	mimePlainText = "text/plain"
	mimeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	summaryLength = 120
)

var (
	ErrUnsupportedFormat = errors.New("Formato no soportado.")
	ErrEmptyContent      = errors.New("Archivo vacío o ilegible.")
)

// File is one uploaded file
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileError reports a per-file failure; other files of the batch are unaffected
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("Error en '%s': %s", e.Name, e.Err.Error())
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Result is the feedback of a batch: parsed documents plus one message per rejected file
type Result struct {
	Documents []domain.DocumentInput `json:"-"`
	Added     int                    `json:"added"`
	Errors    []string               `json:"errors"`
}

// Supported reports whether a file name or content type can be ingested
func Supported(name, contentType string) bool {
	return kindOf(name, contentType) != kindUnknown
}

type kind int

const (
	kindUnknown kind = iota
	kindText
	kindDocx
)

func kindOf(name, contentType string) kind {
	lower := strings.ToLower(name)
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.TrimSpace(mediaType)

	switch {
	case mediaType == mimePlainText,
		strings.HasSuffix(lower, ".txt"),
		strings.HasSuffix(lower, ".md"),
		strings.HasSuffix(lower, ".markdown"):
		return kindText
	case mediaType == mimeDocx, strings.HasSuffix(lower, ".docx"):
		return kindDocx
	default:
		return kindUnknown
	}
}

// ParseFile extracts a document from one file
func ParseFile(name, contentType string, data []byte) (domain.DocumentInput, error) {
	var content string

	switch kindOf(name, contentType) {
	case kindText:
		content = string(data)
	case kindDocx:
		text, err := ExtractDocx(data)
		if err != nil {
			return domain.DocumentInput{}, &FileError{Name: name, Err: err}
		}
		content = text
	default:
		return domain.DocumentInput{}, &FileError{Name: name, Err: ErrUnsupportedFormat}
	}

	if strings.TrimSpace(content) == "" {
		return domain.DocumentInput{}, &FileError{Name: name, Err: ErrEmptyContent}
	}

	return domain.DocumentInput{
		Title:   Title(name),
		Summary: Summary(content),
		Content: content,
	}, nil
}

// ParseBatch extracts every file with bounded concurrency. Documents and
// errors keep the order of the input files.
func ParseBatch(ctx context.Context, files []File, concurrency int) Result {
	docs := make([]*domain.DocumentInput, len(files))
	errs := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = &FileError{Name: f.Name, Err: err}
				return nil
			}
			doc, err := ParseFile(f.Name, f.ContentType, f.Data)
			if err != nil {
				errs[i] = err
				return nil
			}
			docs[i] = &doc
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Errors: []string{}}
	for i := range files {
		if errs[i] != nil {
			log.Warn().Err(errs[i]).Str("file", files[i].Name).Msg("File rejected")
			result.Errors = append(result.Errors, errs[i].Error())
			continue
		}
		result.Documents = append(result.Documents, *docs[i])
	}
	result.Added = len(result.Documents)

	return result
}

// Title is the file name without its last extension
func Title(name string) string {
	ext := path.Ext(name)
	if len(ext) > 1 && !strings.Contains(ext, "/") {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// Summary is the first characters of content with whitespace collapsed, followed by an ellipsis
func Summary(content string) string {
	head := content
	if utf8.RuneCountInString(head) > summaryLength {
		head = string([]rune(head)[:summaryLength])
	}
	return strings.Join(strings.Fields(head), " ") + "..."
}
