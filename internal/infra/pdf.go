package infra

// pdf.go — sales receipt generation using go-pdf/fpdf.
// Produces an A5 receipt with store header, transaction number and date,
// client, item (brand / model / serial), prices, and a credit marker when
// the transaction is a return.
//
// The output file is saved to storagePath/receipt_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders the receipt for a transaction. The transaction
// must have Client and InventoryItem preloaded. Returns the absolute path to
// the generated file.
func GenerateReceiptPDF(t *model.SalesTransaction, storeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", t.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	title := "Sales Receipt"
	if t.Type == model.TransactionCredit {
		title = "Credit Note"
	}
	pdf.CellFormat(contentW, 6, title, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Transaction info ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Transaction %s", shortID(t.ID.String())), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, t.SaleDate.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	if t.Client != nil {
		pdf.CellFormat(contentW, 5, "Client: "+t.Client.FirstName+" "+t.Client.LastName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Item ──────────────────────────────────────────────────────────────────
	col1 := contentW * 0.65
	col2 := contentW * 0.35

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Price", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	itemLabel := ""
	if it := t.InventoryItem; it != nil {
		itemLabel = it.Brand + " " + it.Model
		if len(itemLabel) > 40 {
			itemLabel = itemLabel[:39] + "…"
		}
	}
	price := "$" + t.SellingPrice.StringFixed(2)
	if t.Type == model.TransactionCredit {
		price = "-" + price
	}
	pdf.CellFormat(col1, 6, itemLabel, "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, price, "", 1, "R", false, 0, "")
	if it := t.InventoryItem; it != nil {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, "Serial: "+it.SerialNumber, "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, price, "", 1, "R", false, 0, "")

	if t.Notes != nil && strings.TrimSpace(*t.Notes) != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.MultiCell(contentW, 4, "Note: "+*t.Notes, "", "L", false)
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Thank you for your business", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// shortID keeps receipts readable: the first uuid block is unique enough for
// a printed reference.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return id
}
