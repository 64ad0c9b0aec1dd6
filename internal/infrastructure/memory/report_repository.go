package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Heladeria-api/internal/domain/entity"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportRepository calcula las vistas de reporte sobre el estado en memoria,
// con la misma definición que las vistas SQL de las migraciones.
type ReportRepository struct {
	s *Store
}

func NewReportRepository(s *Store) *ReportRepository {
	return &ReportRepository{s: s}
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

// ProductCalories solo productos con al menos un ingrediente (INNER JOIN en la vista).
func (r *ReportRepository) ProductCalories(_ context.Context) ([]entity.ProductCalories, error) {
	var out []entity.ProductCalories
	r.s.read(func(d *state) {
		for _, id := range sortedKeys(d.products) {
			recipe := d.recipeIngredients(id)
			if len(recipe) == 0 {
				continue
			}
			total := 0
			for _, ing := range recipe {
				total += d.ingredients[ing.IngredientID].Calories
			}
			out = append(out, entity.ProductCalories{ProductID: id, Name: d.products[id].Name, TotalCalories: total})
		}
	})
	return out, nil
}

// Profitability precio público menos la suma del costo de los ingredientes, descendente.
func (r *ReportRepository) Profitability(_ context.Context) ([]entity.ProductProfitability, error) {
	var out []entity.ProductProfitability
	r.s.read(func(d *state) {
		for _, id := range sortedKeys(d.products) {
			p := d.products[id]
			cost := decimal.Zero
			for _, ing := range d.recipeIngredients(id) {
				cost = cost.Add(d.ingredients[ing.IngredientID].Cost)
			}
			out = append(out, entity.ProductProfitability{
				ProductID:     id,
				Name:          p.Name,
				PublicPrice:   p.PublicPrice,
				Cost:          cost,
				Profitability: p.PublicPrice.Sub(cost),
			})
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Profitability.GreaterThan(out[j].Profitability)
	})
	return out, nil
}
