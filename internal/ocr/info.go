package ocr

// Info describes the recognition engine behind a Scheduler.
type Info struct {
	Backend  string `json:"backend"`
	Version  string `json:"version"`
	Language string `json:"language"`
	Workers  int    `json:"workers"`
	Running  int    `json:"running"`
	QueueLen int    `json:"queue_len"`
}

// Info reports the scheduler's current load for a pool of Tesseract workers
// initialized with language.
func (s *Scheduler) Info(language string) Info {
	return Info{
		Backend:  "tesseract",
		Version:  TesseractVersion(),
		Language: language,
		Workers:  s.Workers(),
		Running:  s.Running(),
		QueueLen: s.QueueLen(),
	}
}
