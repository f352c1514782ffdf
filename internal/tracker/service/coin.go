package service

import (
	"context"
	"fmt"
	"strings"

	"memecoin-radar/internal/entity"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/internal/tracker/repository"
	"memecoin-radar/pkg/logger"
)

// CoinService manages the tracked coin registry.
type CoinService interface {
	CreateCoin(ctx context.Context, req *dto.CreateCoinRequest) (*entity.Coin, error)
	GetAllCoins(ctx context.Context) ([]entity.Coin, error)
	GetCoinBySymbol(ctx context.Context, symbol string) (*entity.Coin, error)
}

type coinService struct {
	log      *logger.Logger
	coinRepo repository.CoinRepository
}

// NewCoinService creates a new CoinService.
func NewCoinService(log *logger.Logger, coinRepo repository.CoinRepository) CoinService {
	return &coinService{log: log, coinRepo: coinRepo}
}

func (s *coinService) CreateCoin(ctx context.Context, req *dto.CreateCoinRequest) (*entity.Coin, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	coin := &entity.Coin{
		Symbol:              symbol,
		Name:                strings.TrimSpace(req.Name),
		MarketCap:           req.MarketCap,
		CommunityGrowth:     req.CommunityGrowth,
		LiquidityScore:      req.LiquidityScore,
		Exchanges:           req.Exchanges,
		DevelopmentActivity: req.DevelopmentActivity,
	}
	if err := s.coinRepo.Create(ctx, coin); err != nil {
		s.log.ErrorContext(ctx, "Failed to create coin", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, err
	}
	return coin, nil
}

func (s *coinService) GetAllCoins(ctx context.Context) ([]entity.Coin, error) {
	return s.coinRepo.FindAll(ctx)
}

func (s *coinService) GetCoinBySymbol(ctx context.Context, symbol string) (*entity.Coin, error) {
	return s.coinRepo.FindBySymbol(ctx, symbol)
}
