// Package gateway hands uploaded files to a media host and returns the
// public URL the file can be fetched from.
package gateway

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ResourceKind tells the media host how to treat the file.
type ResourceKind string

const (
	ResourceAuto  ResourceKind = "auto"
	ResourceVideo ResourceKind = "video"
)

// File is one uploaded file. Size may be -1 when unknown.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Gateway uploads a file into folder and returns its public URL.
type Gateway interface {
	Upload(ctx context.Context, file File, folder string, resource ResourceKind) (string, error)
}

// sniffLimit matches what mimetype inspects by default.
const sniffLimit = 3072

// sniff detects the content type from the first bytes of the body and
// returns a reader that still yields the whole body.
func sniff(file File) (string, io.Reader, error) {
	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(file.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	head = head[:n]

	contentType := mimetype.Detect(head).String()
	if contentType == "application/octet-stream" && file.ContentType != "" {
		contentType = file.ContentType
	}

	return contentType, io.MultiReader(bytes.NewReader(head), file.Body), nil
}

// objectKey builds folder/<uuid><ext>, keeping the original extension when
// there is one and otherwise using the detected type's.
func objectKey(folder, filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if mt := mimetype.Lookup(contentType); mt != nil {
			ext = mt.Extension()
		}
	}
	name := uuid.New().String() + ext
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}
