package display

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aristath/twostocks/internal/modules/optimization"
)

// frontierHeader names the columns of the exported frontier table.
var frontierHeader = []string{"w_1", "w_2", "exp_ret", "var", "std_dev"}

// WriteFrontierCSV writes every frontier point as one CSV row.
func WriteFrontierCSV(w io.Writer, frontier optimization.Frontier) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(frontierHeader); err != nil {
		return fmt.Errorf("writing frontier header: %w", err)
	}

	for p := range frontier.All() {
		row := []string{
			formatFloat(p.W1),
			formatFloat(p.W2),
			formatFloat(p.ExpectedReturn),
			formatFloat(p.Variance),
			formatFloat(p.StdDev),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing frontier row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
