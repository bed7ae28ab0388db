package entity

// Tipos de documento borrador que bloquean el inicio de una sesión de conteo.
const (
	DraftTypeSalesInvoice    = "SALES_INVOICE"
	DraftTypePurchaseInvoice = "PURCHASE_INVOICE"
	DraftTypeCreditNote      = "CREDIT_NOTE"
)

// DraftSummary desglose de documentos en borrador por sucursal. Lo produce el
// colaborador de ventas/compras; el coordinador solo lo consulta antes de Start.
type DraftSummary struct {
	BranchID         string
	SalesInvoices    int
	PurchaseInvoices int
	CreditNotes      int
}

// Empty indica que no hay documentos pendientes y el conteo puede iniciar.
func (d DraftSummary) Empty() bool {
	return d.SalesInvoices == 0 && d.PurchaseInvoices == 0 && d.CreditNotes == 0
}
