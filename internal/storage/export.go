package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Series Series `json:"series"`
}

// ExportJSON writes the metadata and series of a run as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Series: *series})
}

// ExportCSV copies the trajectory CSV of a run to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := os.Open(s.SeriesPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			if _, lerr := s.Load(runID); lerr != nil {
				return lerr
			}
		}
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
