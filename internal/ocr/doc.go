// Package ocr provides the recognition engine: workers that wrap Tesseract
// (via gosseract/v2) and a Scheduler that queues recognition jobs across
// them.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// TESSDATA_PREFIX may point at a directory of *.traineddata files.
//
// # Worker Lifecycle
//
// A Worker must be brought up in a fixed order before it accepts jobs:
//
//	Load -> LoadLanguage(lang) -> Initialize(lang)
//
// Setup runs the three steps in order. Calling a step out of order returns
// ErrLifecycle; recognizing on a worker that has not been initialized
// returns ErrNotInitialized.
//
// # Scheduling
//
// Scheduler owns one or more workers. AddJob enqueues a job in FIFO order
// and blocks until a worker has run it or the caller's context is done. Each
// worker runs one job at a time, so concurrency equals the number of
// workers. QueueLen reports jobs still waiting for a worker; jobs already
// running are not counted.
//
// The scheduler never retries. A failed job returns an error wrapping
// ErrRecognitionFailed.
package ocr
