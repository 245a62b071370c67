package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// ExportColumns is the header written by Export.
var ExportColumns = []string{
	ColDate, ColAmount, ColType, ColCategoryID, ColPaymentMethod, ColNote, ColTags,
}

// Export writes txns to w in ExportColumns order.
func Export(w io.Writer, txns []model.Transaction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ExportColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range txns {
		txn := &txns[i]
		record := []string{
			txn.DateString(),
			txn.Amount.String(),
			string(txn.Kind),
			txn.CategoryID,
			txn.PaymentMethod,
			txn.Note,
			strings.Join(txn.Tags, ","),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", txn.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
