package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/screenflow/core/internal/models"
)

// TimestampLayout is the exportedAt format: UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// imageSuffix is appended to image export names before the extension.
const imageSuffix = "2"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]`)

// BuildDocument wraps a snapshot in an export document stamped with now.
func BuildDocument(snap models.Snapshot, now time.Time) models.ProjectDocument {
	doc := models.ProjectDocument{
		ProjectName: snap.ProjectName,
		Nodes:       models.CloneNodes(snap.Nodes),
		Edges:       models.CloneEdges(snap.Edges),
		ExportedAt:  now.UTC().Format(TimestampLayout),
		Version:     models.DocumentVersion,
	}
	return doc
}

// Encode writes the document as two-space indented JSON.
func Encode(doc models.ProjectDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FileName turns a project name into a download file name: every character
// other than an ASCII letter or digit becomes "_", the result is lowercased
// and ext is appended.
func FileName(projectName, ext string) string {
	return strings.ToLower(unsafeName.ReplaceAllString(projectName, "_")) + ext
}

// ImageFileName is the file name used for PNG exports.
func ImageFileName(projectName string) string {
	return FileName(projectName, imageSuffix+".png")
}
