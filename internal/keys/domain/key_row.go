package domain

import (
	"fmt"
	"strings"
)

// SheetHeader is the header line of the tabular key export.
const SheetHeader = "Operazione, Chiave, IV"

// KeyRow pairs an operation label with its stored key material. The label is
// unique within a course, so a course's rows form a complete key sheet.
type KeyRow struct {
	Label    string
	Material KeyMaterial
}

// SheetLine renders the row in the space-delimited export format. Key and IV
// are hex encoded, so the reserved-byte constraint on the raw material keeps
// every line splitting back into exactly three fields.
func (r KeyRow) SheetLine() string {
	return fmt.Sprintf("%s %s %s", r.Label, r.Material.KeyHex(), r.Material.IVHex())
}

// RenderSheet renders a full key sheet with the header line first.
func RenderSheet(rows []KeyRow) string {
	var b strings.Builder
	b.WriteString(SheetHeader)
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(row.SheetLine())
	}
	return b.String()
}
