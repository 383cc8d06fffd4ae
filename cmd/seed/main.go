package main

import (
	"context"
	"errors"
	"os"

	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/db"
	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/repository"
	"github.com/braz-finance/backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedCategory struct {
	name  string
	slug  string
	ctype domain.CategoryType
	icon  string
	color string
}

var defaultCategories = []seedCategory{
	{"Salário", "salary", domain.CategoryTypeIncome, "💼", "#4CAF50"},
	{"Freelas/Autônomo", "freelance", domain.CategoryTypeIncome, "💻", "#2196F3"},
	{"Investimentos", "investment_returns", domain.CategoryTypeIncome, "📈", "#FF9800"},
	{"13º Salário", "thirteenth_salary", domain.CategoryTypeIncome, "🎁", "#9C27B0"},
	{"Outras Receitas", "other_income", domain.CategoryTypeIncome, "💰", "#00BCD4"},

	{"Aluguel", "rent", domain.CategoryTypeExpense, "🏠", "#F44336"},
	{"Condomínio", "condo_fee", domain.CategoryTypeExpense, "🏢", "#E91E63"},
	{"Combustível", "fuel", domain.CategoryTypeExpense, "⛽", "#9E9E9E"},
	{"Uber/Táxi", "uber_taxi", domain.CategoryTypeExpense, "🚗", "#607D8B"},
	{"Transporte Público", "public_transport", domain.CategoryTypeExpense, "🚌", "#795548"},
	{"Supermercado", "groceries", domain.CategoryTypeExpense, "🛒", "#4CAF50"},
	{"Restaurantes", "restaurants", domain.CategoryTypeExpense, "🍽️", "#FF5722"},
	{"Delivery", "delivery", domain.CategoryTypeExpense, "🛵", "#FF9800"},
	{"Plano de Saúde", "health_insurance", domain.CategoryTypeExpense, "🏥", "#2196F3"},
	{"Farmácia", "pharmacy", domain.CategoryTypeExpense, "💊", "#03A9F4"},
	{"Academia", "gym", domain.CategoryTypeExpense, "💪", "#00BCD4"},
	{"Cursos", "courses", domain.CategoryTypeExpense, "📚", "#3F51B5"},
	{"Livros", "books", domain.CategoryTypeExpense, "📖", "#673AB7"},
	{"Streaming", "streaming", domain.CategoryTypeExpense, "📺", "#9C27B0"},
	{"Viagens", "travel", domain.CategoryTypeExpense, "✈️", "#E91E63"},
	{"Hobbies", "hobbies", domain.CategoryTypeExpense, "🎮", "#F44336"},
	{"Energia Elétrica", "electricity", domain.CategoryTypeExpense, "⚡", "#FFEB3B"},
	{"Água", "water", domain.CategoryTypeExpense, "💧", "#2196F3"},
	{"Internet", "internet", domain.CategoryTypeExpense, "🌐", "#00BCD4"},
	{"Telefone", "phone", domain.CategoryTypeExpense, "📱", "#009688"},
	{"Roupas", "clothing", domain.CategoryTypeExpense, "👕", "#E91E63"},
	{"Salão/Barbearia", "beauty_salon", domain.CategoryTypeExpense, "💇", "#9C27B0"},
	{"Investimentos", "investments", domain.CategoryTypeExpense, "📊", "#4CAF50"},
	{"Cartão de Crédito", "credit_card_payment", domain.CategoryTypeExpense, "💳", "#FF5722"},
	{"Outras Despesas", "other_expenses", domain.CategoryTypeExpense, "📝", "#9E9E9E"},
}

func main() {
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env)
	defer appLogger.Sync() //nolint:errcheck

	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Error("mysql connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer dbMySQL.Close()

	repos := repository.NewRepositories(dbMySQL)
	ctx := context.Background()

	var inserted int
	for _, seed := range defaultCategories {
		_, err := repos.Categories.GetBySlug(ctx, seed.slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			appLogger.Error("category lookup failed", zap.String("slug", seed.slug), zap.Error(err))
			os.Exit(1)
		}

		id, err := uuid.NewV7()
		if err != nil {
			appLogger.Error("generate category id failed", zap.Error(err))
			os.Exit(1)
		}

		category := &domain.Category{
			ID:     id,
			Name:   seed.name,
			Slug:   seed.slug,
			Type:   seed.ctype,
			Icon:   seed.icon,
			Color:  seed.color,
			Active: true,
		}
		if err := repos.Categories.Create(ctx, category); err != nil {
			appLogger.Error("create category failed", zap.String("slug", seed.slug), zap.Error(err))
			os.Exit(1)
		}
		inserted++
	}

	appLogger.Info("categories seeded", zap.Int("inserted", inserted))
}
