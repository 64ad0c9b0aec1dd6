package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (tabla productos).
// La receta (ingredientes) vive en ProductIngredient.
type Product struct {
	ID          int64
	Name        string
	PublicPrice decimal.Decimal // precio_publico
	Type        string          // tipo: helado, malteada, paleta...
	Cup         string          // vaso / contenedor
	VolumeOz    decimal.Decimal // volumen_onzas
	CreatedAt   time.Time
}
