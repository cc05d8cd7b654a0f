package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAttachment(t *testing.T) {
	cases := []struct {
		name     string
		file     string
		mime     string
		want     AttachmentType
		accepted bool
	}{
		{"png image", "photo.png", "image/png", AttachmentImage, true},
		{"go source", "main.go", "", AttachmentCode, true},
		{"tsx source", "App.tsx", "text/plain", AttachmentCode, true},
		{"cc source", "parser.cc", "", AttachmentCode, true},
		{"markdown", "README.md", "", AttachmentFile, true},
		{"plain text mime", "notes", "text/plain", AttachmentFile, true},
		{"binary blob", "archive.zip", "application/zip", AttachmentFile, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ, ok := ClassifyAttachment(tc.file, tc.mime)
			assert.Equal(t, tc.want, typ)
			assert.Equal(t, tc.accepted, ok)
		})
	}
}

func TestComposeOutgoing(t *testing.T) {
	t.Run("text files become fenced blocks", func(t *testing.T) {
		body, images := composeOutgoing("review this", []Attachment{
			{Name: "main.go", Type: AttachmentCode, Content: "package main", Status: AttachmentReady},
		})
		assert.Empty(t, images)
		assert.Equal(t, "review this\n\n```main.go\npackage main\n```", body)
	})

	t.Run("images travel separately from the body", func(t *testing.T) {
		body, images := composeOutgoing("what is this", []Attachment{
			{Name: "shot.png", Type: AttachmentImage, MimeType: "image/png", Content: "aWNvbg==", Status: AttachmentReady},
		})
		assert.Equal(t, "what is this", body)
		require.Len(t, images, 1)
		assert.Equal(t, "image/png", images[0].MimeType)
		assert.Equal(t, "aWNvbg==", images[0].Data)
	})

	t.Run("unready attachments are skipped", func(t *testing.T) {
		body, images := composeOutgoing("hello", []Attachment{
			{Name: "a.txt", Type: AttachmentFile, Content: "half", Status: AttachmentProcessing},
			{Name: "b.txt", Type: AttachmentFile, Content: "", Status: AttachmentReady},
		})
		assert.Equal(t, "hello", body)
		assert.Empty(t, images)
	})

	t.Run("attachment-only sends keep a body", func(t *testing.T) {
		body, _ := composeOutgoing("  ", []Attachment{
			{Name: "notes.md", Type: AttachmentFile, Content: "ideas", Status: AttachmentReady},
		})
		assert.Equal(t, "\n\n```notes.md\nideas\n```", body)
	})
}
