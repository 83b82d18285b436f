package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"mime/multipart"
	"os"
	"testing"
)

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)
	if err := storage.EnsureUploadDir(); err != nil {
		t.Fatalf("EnsureUploadDir: %v", err)
	}

	content := []byte("%PDF-1.4 fake body")
	header := makeFileHeader(t, "resume.pdf", content)

	stored, err := storage.SaveFile(header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	onDisk, err := os.ReadFile(stored.Path)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if !bytes.Equal(onDisk, content) {
		t.Error("stored bytes differ from upload")
	}
	if stored.SizeBytes != int64(len(content)) {
		t.Errorf("size = %d, want %d", stored.SizeBytes, len(content))
	}

	sum := sha256.Sum256(content)
	if stored.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("sha256 = %s, want %s", stored.SHA256, hex.EncodeToString(sum[:]))
	}
}

func TestSaveFileRejectsExtension(t *testing.T) {
	storage := NewStorageService(t.TempDir())
	header := makeFileHeader(t, "resume.exe", []byte("nope"))

	if _, err := storage.SaveFile(header); err == nil {
		t.Fatal("expected error for disallowed extension")
	}
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)

	header := makeFileHeader(t, "resume.docx", []byte("content"))
	stored, err := storage.SaveFile(header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := storage.DeleteFile(stored.StoredName); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := os.Stat(stored.Path); !os.IsNotExist(err) {
		t.Error("file still exists after delete")
	}
}
