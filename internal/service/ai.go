package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/repository"
	"github.com/braz-finance/backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	chatContextTransactions = 10
	defaultHistoryLimit     = 20
)

type aiService struct {
	textGenerator          TextGenerator
	transactionRepository  repository.Transactions
	categoryRepository     repository.Categories
	conversationRepository repository.Conversations
}

func newAIService(
	textGenerator TextGenerator,
	transactionRepository repository.Transactions,
	categoryRepository repository.Categories,
	conversationRepository repository.Conversations,
) *aiService {
	return &aiService{
		textGenerator:          textGenerator,
		transactionRepository:  transactionRepository,
		categoryRepository:     categoryRepository,
		conversationRepository: conversationRepository,
	}
}

func (s *aiService) Chat(ctx context.Context, userID uuid.UUID, question string) (string, error) {
	recent, _, err := s.transactionRepository.List(ctx, userID, chatContextTransactions, 0)
	if err != nil {
		return "", fmt.Errorf("list transactions failed: %w", err)
	}

	now := time.Now()
	income, err := s.transactionRepository.TotalByType(ctx, userID, now.Year(), int(now.Month()), domain.CategoryTypeIncome)
	if err != nil {
		return "", fmt.Errorf("total income failed: %w", err)
	}
	expense, err := s.transactionRepository.TotalByType(ctx, userID, now.Year(), int(now.Month()), domain.CategoryTypeExpense)
	if err != nil {
		return "", fmt.Errorf("total expense failed: %w", err)
	}

	var summary strings.Builder
	for _, t := range recent {
		category := t.CategoryName
		if category == "" {
			category = "Uncategorized"
		}
		fmt.Fprintf(&summary, "- %s: %s | R$ %s (%s)\n",
			t.Date.Format("02/01/2006"), t.Description, formatAmount(t.AmountCents), category)
	}
	if summary.Len() == 0 {
		summary.WriteString("No transactions recorded")
	}

	prompt := fmt.Sprintf(`You are a personal finance advisor for the Braz Clean Finance app.

Current user data:
- Balance this month: R$ %s
- Income (current month): R$ %s
- Expenses (current month): R$ %s

Recent transactions:
%s

User question: %s

Answer clearly and practically, in a friendly tone, in Brazilian Portuguese.
Give specific tips based on the user's real data.
If the question is not finance related, politely explain that you specialize in personal finance.`,
		formatAmount(income-expense), formatAmount(income), formatAmount(expense),
		summary.String(), question)

	return s.generate(ctx, userID, question, prompt, domain.ConversationTypeChat)
}

func (s *aiService) MonthlyReport(ctx context.Context, userID uuid.UUID, month, year int) (string, error) {
	transactions, err := s.transactionRepository.ListByMonth(ctx, userID, year, month)
	if err != nil {
		return "", fmt.Errorf("list transactions by month failed: %w", err)
	}

	if len(transactions) == 0 {
		return fmt.Sprintf("No transactions recorded in %02d/%d. Start tracking your finances!", month, year), nil
	}

	income, err := s.transactionRepository.TotalByType(ctx, userID, year, month, domain.CategoryTypeIncome)
	if err != nil {
		return "", fmt.Errorf("total income failed: %w", err)
	}
	expense, err := s.transactionRepository.TotalByType(ctx, userID, year, month, domain.CategoryTypeExpense)
	if err != nil {
		return "", fmt.Errorf("total expense failed: %w", err)
	}

	prompt := fmt.Sprintf(`You are a finance advisor specialized in personal spending analysis.

Period: %02d/%d

Financial summary:
- Total income: R$ %s
- Total expenses: R$ %s
- Balance: R$ %s
- Transaction count: %d

Spending by category:
%s

Transactions:
%s

Provide:
1. A summary of the spending pattern
2. The category with the highest spending
3. Three practical recommendations based on this specific data
4. A financial health score (0-10) with an explanation

Answer in a motivating and constructive tone, in Brazilian Portuguese.`,
		month, year,
		formatAmount(income), formatAmount(expense), formatAmount(income-expense),
		len(transactions),
		categoryBreakdown(transactions), transactionLines(transactions))

	question := fmt.Sprintf("Report %02d/%d", month, year)

	return s.generate(ctx, userID, question, prompt, domain.ConversationTypeReport)
}

func (s *aiService) AnalyzeCategory(ctx context.Context, userID, categoryID uuid.UUID, month, year int) (string, error) {
	category, err := s.categoryRepository.GetOneByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrCategoryNotFound
		}
		return "", fmt.Errorf("get category failed: %w", err)
	}

	transactions, err := s.transactionRepository.ListByCategory(ctx, userID, categoryID)
	if err != nil {
		return "", fmt.Errorf("list transactions by category failed: %w", err)
	}

	filtered := transactions[:0:0]
	for _, t := range transactions {
		if int(t.Date.Month()) == month && t.Date.Year() == year {
			filtered = append(filtered, t)
		}
	}

	if len(filtered) == 0 {
		return fmt.Sprintf("No transactions in %q during %02d/%d.", category.Name, month, year), nil
	}

	var total int64
	for _, t := range filtered {
		total += t.AmountCents
	}
	average := total / int64(len(filtered))

	prompt := fmt.Sprintf(`Analyze a user's spending in the category %q.

Data:
- Period: %02d/%d
- Transaction count: %d
- Total amount: R$ %s
- Average per transaction: R$ %s

Transactions:
%s

Provide:
1. An analysis of the consumption pattern
2. Whether spending can be reduced (be specific)
3. A comparison: is this spending normal for the category?

Answer in Brazilian Portuguese, in a practical and actionable way.`,
		category.Name, month, year, len(filtered),
		formatAmount(abs(total)), formatAmount(abs(average)),
		transactionLines(filtered))

	question := fmt.Sprintf("Analysis: %s %02d/%d", category.Name, month, year)

	return s.generate(ctx, userID, question, prompt, domain.ConversationTypeAnalysis)
}

func (s *aiService) History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Conversation, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	conversations, err := s.conversationRepository.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}

	return conversations, nil
}

func (s *aiService) generate(ctx context.Context, userID uuid.UUID, question, prompt string, conversationType domain.ConversationType) (string, error) {
	response, err := s.textGenerator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate conversation id failed: %w", err)
	}

	conversation := &domain.Conversation{
		ID:       id,
		UserID:   userID,
		Question: question,
		Response: response,
		Type:     conversationType,
	}

	// History is best effort, the answer is already produced.
	if err := s.conversationRepository.Create(ctx, conversation); err != nil {
		logger.Error("save conversation failed", zap.Error(err))
	}

	return response, nil
}

func categoryBreakdown(transactions []domain.Transaction) string {
	totals := make(map[string]int64)
	for _, t := range transactions {
		category := t.CategoryName
		if category == "" {
			category = "Uncategorized"
		}
		totals[category] += t.AmountCents
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return abs(totals[names[i]]) > abs(totals[names[j]])
	})

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: R$ %s\n", name, formatAmount(abs(totals[name])))
	}

	return b.String()
}

func transactionLines(transactions []domain.Transaction) string {
	var b strings.Builder
	for _, t := range transactions {
		fmt.Fprintf(&b, "%s: %s (%s) - R$ %s\n",
			t.Date.Format("02/01/2006"), t.Description, t.CategoryName, formatAmount(t.AmountCents))
	}

	return b.String()
}

func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
