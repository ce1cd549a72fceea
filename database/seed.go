package database

import (
	"context"
	"fmt"
	"time"

	"catalog-service/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedCategories is the starter category set.
var SeedCategories = []models.Category{
	{ID: 1, Description: "Lanche", Active: true},
	{ID: 2, Description: "Acompanhamento", Active: true},
	{ID: 3, Description: "Bebida", Active: true},
	{ID: 4, Description: "Sobremesa", Active: true},
}

type seedProduct struct {
	id          int
	name        string
	description string
	price       string
	categoryID  int
}

var seedProducts = []seedProduct{
	{1, "X-Bacon", "adicional de bacon", "31.99", 1},
	{2, "Coca-Cola", "Zero açucar", "7.00", 3},
	{3, "Batata frita", "300g", "15.00", 2},
	{4, "Sorvete", "Morango", "9.00", 4},
	{5, "X-Salada", "saladinha da boa", "24.99", 1},
	{6, "Pepsi", "concorrente", "7.00", 3},
	{7, "Onion rings", "300g", "20.00", 2},
	{8, "Bolo de pote", "Chocolate com morango", "14.00", 4},
	{9, "X-Tudo", "tudo do bom e do melhor", "40.00", 1},
	{10, "Suco de maracuja", "suquinho", "10.00", 3},
	{11, "Batata + Onion rings P", "400g", "27.50", 2},
	{12, "Pudim", "Melhor de todos", "99.00", 4},
	{13, "X-Frango", "fitness", "22.99", 1},
	{14, "X-Calabresa", "pouca gordura graças a Deus", "26.99", 1},
	{15, "X-Picanha", "suculência ao máximo", "36.99", 1},
	{16, "Suco de limão", "suquinho 2", "7.00", 3},
	{17, "H2O", "água de torneira", "5.00", 3},
	{18, "Batata + Onion rings M", "700g", "33.00", 2},
	{19, "Batata + Onion rings G", "1Kg", "41.00", 2},
}

// SeedProducts returns the starter products, all active.
func SeedProducts(now time.Time) []models.Product {
	out := make([]models.Product, 0, len(seedProducts))
	for _, p := range seedProducts {
		out = append(out, models.Product{
			ID:          p.id,
			Name:        p.name,
			Description: p.description,
			Price:       decimal.RequireFromString(p.price),
			CategoryID:  p.categoryID,
			Status:      true,
			CreatedAt:   now,
		})
	}
	return out
}

// Seed inserts the starter categories and products. Existing rows are left
// alone, and the id sequences are moved past the seeded ids.
func Seed(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	categories := append([]models.Category(nil), SeedCategories...)
	products := SeedProducts(time.Now())

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		if err := tx.Omit("Category").Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		for _, table := range []string{"categories", "products"} {
			stmt := fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1))",
				table,
			)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Seed data applied",
		zap.Int("categories", len(categories)),
		zap.Int("products", len(products)),
	)
	return nil
}
