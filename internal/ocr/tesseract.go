package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TesseractWorker is a Worker backed by one gosseract client.
type TesseractWorker struct {
	tessdataDir string

	lc     lifecycle
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseractWorker returns a worker in the created state. tessdataDir may
// be empty to use Tesseract's default data directory.
func NewTesseractWorker(tessdataDir string) *TesseractWorker {
	return &TesseractWorker{tessdataDir: tessdataDir}
}

// State returns the worker's lifecycle state.
func (w *TesseractWorker) State() State { return w.lc.current() }

// Load creates the underlying Tesseract client.
func (w *TesseractWorker) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.lc.step(StateCreated, StateLoaded, func() error {
		client := gosseract.NewClient()
		if w.tessdataDir != "" {
			if err := client.SetTessdataPrefix(w.tessdataDir); err != nil {
				client.Close()
				return fmt.Errorf("failed to set tessdata path: %w", err)
			}
		}
		w.mu.Lock()
		w.client = client
		w.mu.Unlock()
		return nil
	})
}

// LoadLanguage checks that training data for lang is present. lang may
// join several languages with "+". Without a tessdata directory the check
// is left to Tesseract at recognition time.
func (w *TesseractWorker) LoadLanguage(ctx context.Context, lang string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.lc.loadLanguage(lang, func() error {
		if w.tessdataDir == "" {
			return nil
		}
		for _, l := range strings.Split(lang, "+") {
			path := filepath.Join(w.tessdataDir, l+".traineddata")
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("training data for %q: %w", l, err)
			}
		}
		return nil
	})
}

// Initialize sets the recognition language on the client.
func (w *TesseractWorker) Initialize(ctx context.Context, lang string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.lc.initialize(lang, func() error {
		w.mu.Lock()
		defer w.mu.Unlock()
		if err := w.client.SetLanguage(strings.Split(lang, "+")...); err != nil {
			return fmt.Errorf("failed to set language: %w", err)
		}
		return nil
	})
}

// Recognize returns the text Tesseract finds in an encoded PNG or JPEG.
func (w *TesseractWorker) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := w.lc.ready(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := w.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// Terminate releases the Tesseract client. The worker cannot be reused.
func (w *TesseractWorker) Terminate() error {
	w.lc.terminate()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.client == nil {
		return nil
	}
	err := w.client.Close()
	w.client = nil
	return err
}

// TesseractVersion returns the linked Tesseract version.
func TesseractVersion() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
