package report

import (
	"encoding/json"

	"github.com/IvanShishkin/csr/pkg/models"
	"gopkg.in/yaml.v3"
)

// RecordView is the serialized form of a result: raw byte size and an
// ISO-8601 timestamp.
type RecordView struct {
	Path     string `json:"path" yaml:"path"`
	Size     uint64 `json:"size" yaml:"size"`
	Modified string `json:"modified" yaml:"modified"`
}

func toViews(results []*models.ResultRecord) []RecordView {
	views := make([]RecordView, len(results))
	for i, r := range results {
		views[i] = RecordView{
			Path:     r.Path,
			Size:     r.Size,
			Modified: r.Modified.Format(isoTimeLayout),
		}
	}
	return views
}

// generateJSON writes the results as an indented JSON array
func (g *Generator) generateJSON(results []*models.ResultRecord) error {
	data, err := json.MarshalIndent(toViews(results), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = g.out.Write(data)
	return err
}

// generateYAML writes the results as a YAML sequence
func (g *Generator) generateYAML(results []*models.ResultRecord) error {
	enc := yaml.NewEncoder(g.out)
	enc.SetIndent(2)
	if err := enc.Encode(toViews(results)); err != nil {
		return err
	}
	return enc.Close()
}
