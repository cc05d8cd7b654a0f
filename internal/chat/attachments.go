package chat

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manus-labs/manus-backend/internal/chat/llm"
)

// AttachmentType classifies what an attachment contributes to the outgoing
// request: images travel inline, everything else is folded into the message
// body as fenced text.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentCode  AttachmentType = "code"
	AttachmentFile  AttachmentType = "file"
)

// AttachmentStatus tracks client-side intake. Only ready attachments are
// sent upstream.
type AttachmentStatus string

const (
	AttachmentProcessing AttachmentStatus = "processing"
	AttachmentReady      AttachmentStatus = "ready"
	AttachmentError      AttachmentStatus = "error"
)

// Attachment is one file the user attached to a message. Content is base64
// for images and plain text otherwise.
type Attachment struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Type     AttachmentType   `json:"type"`
	MimeType string           `json:"mimeType,omitempty"`
	Content  string           `json:"content"`
	Status   AttachmentStatus `json:"status"`
	Progress int              `json:"progress,omitempty"`
}

// Ready reports whether the attachment should be included in a send.
func (a Attachment) Ready() bool {
	return a.Status == AttachmentReady && a.Content != ""
}

var codeExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".go": true, ".rs": true, ".java": true,
	".c": true, ".cc": true, ".cpp": true, ".h": true, ".cs": true,
	".rb": true, ".php": true, ".swift": true, ".kt": true,
	".html": true, ".css": true, ".scss": true, ".sql": true,
	".sh": true, ".yaml": true, ".yml": true, ".json": true,
	".xml": true, ".toml": true,
}

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".csv": true, ".log": true,
	".env": true, ".ini": true, ".cfg": true,
}

// ClassifyAttachment decides the attachment type from filename and mime
// type. The second return is false for binary formats we cannot fold into a
// text request.
func ClassifyAttachment(name, mimeType string) (AttachmentType, bool) {
	if strings.HasPrefix(mimeType, "image/") {
		return AttachmentImage, true
	}
	ext := strings.ToLower(filepath.Ext(name))
	if codeExtensions[ext] {
		return AttachmentCode, true
	}
	if textExtensions[ext] || strings.HasPrefix(mimeType, "text/") {
		return AttachmentFile, true
	}
	return AttachmentFile, false
}

// composeOutgoing folds ready attachments into the request: text and code
// files become fenced blocks appended to the body, images become inline
// parts.
func composeOutgoing(text string, attachments []Attachment) (string, []llm.InlineImage) {
	body := strings.TrimSpace(text)
	var images []llm.InlineImage

	for _, att := range attachments {
		if !att.Ready() {
			continue
		}
		if att.Type == AttachmentImage {
			images = append(images, llm.InlineImage{
				MimeType: att.MimeType,
				Data:     att.Content,
			})
			continue
		}
		body += fmt.Sprintf("\n\n```%s\n%s\n```", att.Name, att.Content)
	}
	return body, images
}
