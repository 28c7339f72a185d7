package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// CompletionMarker is the empty file written beside a fully downloaded attachment.
	CompletionMarker = "complete"
	// AttachmentsSuffix is appended to a candidate id to name its attachment folder.
	AttachmentsSuffix = "-attachments"
	// ActivityFeedSuffix is appended to a candidate id to name its activity feed file.
	ActivityFeedSuffix = "-activity_feed.json"
	// PartialSuffix marks an attachment still being streamed.
	PartialSuffix = ".part"
)

// AttachmentKind is the normalized attachment category.
type AttachmentKind string

const (
	KindResume      AttachmentKind = "resume"
	KindCoverLetter AttachmentKind = "cover_letter"
	KindOther       AttachmentKind = "other"
)

// Attachment is the metadata Harvest returns for one candidate attachment.
type Attachment struct {
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

// Kind normalizes the raw API type.
func (a Attachment) Kind() AttachmentKind {
	switch AttachmentKind(strings.ToLower(strings.TrimSpace(a.Type))) {
	case KindResume:
		return KindResume
	case KindCoverLetter:
		return KindCoverLetter
	default:
		return KindOther
	}
}

// Validate checks the fields needed to place and fetch the attachment.
func (a Attachment) Validate() error {
	if strings.TrimSpace(a.URL) == "" {
		return fmt.Errorf("attachment %q has no url", a.Filename)
	}
	if strings.TrimSpace(a.CreatedAt) == "" {
		return fmt.Errorf("attachment %q has no created_at", a.Filename)
	}
	return nil
}

// DirName is the per-attachment folder name: <type>-<created_at>, with ':' replaced by 'c'
// so the name stays portable across filesystems.
func (a Attachment) DirName() string {
	kind := sanitizeName(strings.TrimSpace(a.Type))
	if kind == "" {
		kind = string(KindOther)
	}
	return kind + "-" + strings.ReplaceAll(strings.TrimSpace(a.CreatedAt), ":", "c")
}

// SafeFilename returns the attachment file name reduced to a single path element.
func (a Attachment) SafeFilename() string {
	name := sanitizeName(filepath.Base(strings.ReplaceAll(a.Filename, `\`, "/")))
	switch name {
	case "", ".", "..", CompletionMarker:
		return "attachment"
	}
	if strings.HasPrefix(name, ".") {
		name = "_" + name[1:]
	}
	return name
}

// ParseAttachmentDirName splits a folder name produced by DirName back into type and upload date.
func ParseAttachmentDirName(name string) (kind, createdAt string, ok bool) {
	kind, stamp, found := strings.Cut(name, "-")
	if !found || kind == "" || stamp == "" {
		return "", "", false
	}
	return kind, strings.ReplaceAll(stamp, "c", ":"), true
}

// CandidateAttachmentsDir returns the folder name holding a candidate's attachments.
func CandidateAttachmentsDir(candidateID string) string {
	return candidateID + AttachmentsSuffix
}

// StoredAttachment describes an attachment folder found in the cache. Attachments of one
// candidate that share a type and upload second share a folder and its marker.
type StoredAttachment struct {
	CandidateID string
	Type        string
	CreatedAt   string
	Dir         string
	// Files are the data file paths, sorted; empty when the folder holds none.
	Files    []string
	Complete bool
	// Partials lists leftover in-progress files.
	Partials []string
}

// Incomplete reports whether the folder is not a finished download.
func (s StoredAttachment) Incomplete() bool {
	return !s.Complete || len(s.Files) == 0 || len(s.Partials) > 0
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
}
