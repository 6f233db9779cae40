package report

import (
	"bufio"

	"github.com/IvanShishkin/csr/pkg/models"
)

// generateList prints one path per line
func (g *Generator) generateList(results []*models.ResultRecord) error {
	w := bufio.NewWriter(g.out)
	for _, r := range results {
		w.WriteString(r.Path)
		w.WriteByte('\n')
	}
	return w.Flush()
}
