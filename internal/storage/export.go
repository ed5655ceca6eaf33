package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/orbitprop/internal/orbit"
)

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
}

type ExportSample struct {
	Time     float64    `json:"t"`
	Position [3]float64 `json:"r"`
	Velocity [3]float64 `json:"v"`
}

func newExportData(meta RunMetadata, h *orbit.History) ExportData {
	data := ExportData{Run: meta, Samples: make([]ExportSample, h.Len())}
	for i := range data.Samples {
		sm := h.At(i)
		data.Samples[i] = ExportSample{
			Time:     sm.Time,
			Position: [3]float64{sm.Position.X, sm.Position.Y, sm.Position.Z},
			Velocity: [3]float64{sm.Velocity.X, sm.Velocity.Y, sm.Velocity.Z},
		}
	}
	return data
}

// ExportJSON writes a run and its samples to path.
func ExportJSON(path string, meta RunMetadata, h *orbit.History) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, h)
}

func WriteJSON(w io.Writer, meta RunMetadata, h *orbit.History) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, h))
}
