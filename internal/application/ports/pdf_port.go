package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Maquinaria-api/internal/domain/entity"
)

// KardexReport son los datos que necesita el generador para el reporte de kardex de un item.
type KardexReport struct {
	Item        *entity.Item
	BaseUnitID  string
	BaseSymbol  string
	From        *time.Time
	To          *time.Time
	Entries     []*entity.KardexEntry
	Balance     *entity.KardexBalance
	GeneratedAt time.Time
}

// KardexPDFGenerator es el puerto de salida para exportar el kardex. La implementación
// concreta (maroto) vive en infrastructure/pdf.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, report *KardexReport) ([]byte, error)
}
