package main

import (
	"net/http"

	"sectoralpha/api"
	"sectoralpha/internal/app"
	"sectoralpha/internal/logger"
	"sectoralpha/internal/repository"
	"sectoralpha/internal/service"
	"sectoralpha/pkg/yahoo"

	"go.uber.org/zap"
)

type handlers struct {
	PickHandler         app.PickHandler
	BacktestHandler     app.BacktestHandler
	FundamentalsService service.FundamentalsService
	ApiHandler          api.ApiHandler
	Logger              *zap.SugaredLogger
}

func initializeDependencies() *handlers {
	log := logger.New()

	constituentsRepository := repository.NewConstituentsRepository(http.DefaultClient)
	priceService := service.NewPriceService(repository.NewPriceRepository())
	fundamentalsService := service.NewFundamentalsService(
		repository.NewFundamentalsRepository(yahoo.NewClient(http.DefaultClient)),
	)

	pickHandler := app.PickHandler{
		ConstituentsRepository: constituentsRepository,
		PriceService:           priceService,
		FundamentalsService:    fundamentalsService,
	}
	backtestHandler := app.BacktestHandler{
		ConstituentsRepository: constituentsRepository,
		PriceService:           priceService,
		FundamentalsService:    fundamentalsService,
	}

	return &handlers{
		PickHandler:         pickHandler,
		BacktestHandler:     backtestHandler,
		FundamentalsService: fundamentalsService,
		ApiHandler: api.ApiHandler{
			PickHandler:     pickHandler,
			BacktestHandler: backtestHandler,
			Logger:          log,
		},
		Logger: log,
	}
}
