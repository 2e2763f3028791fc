package ticket

import (
	"fmt"
	"io"
	"strings"
)

// FilenameDelimiter separates storage names in the persisted attachment list.
const FilenameDelimiter = ","

// Upload is an attachment as received from the client, before staging.
// OriginalName is untrusted and only ever used for display.
type Upload struct {
	OriginalName string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// Attachment is an upload that has been written to the attachment store.
type Attachment struct {
	OriginalName string
	StorageName  string
	ContentType  string
	Size         int64
}

func StorageNames(attachments []Attachment) []string {
	names := make([]string, len(attachments))
	for i, a := range attachments {
		names[i] = a.StorageName
	}
	return names
}

func JoinFilenames(names []string) string {
	return strings.Join(names, FilenameDelimiter)
}

// SplitFilenames parses a persisted attachment list. An empty list yields nil.
func SplitFilenames(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, FilenameDelimiter)
}

func validateStorageName(name string) error {
	if name == "" {
		return fmt.Errorf("attachment storage name cannot be empty")
	}
	if strings.ContainsAny(name, FilenameDelimiter+`/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid attachment storage name %q", name)
	}
	return nil
}
