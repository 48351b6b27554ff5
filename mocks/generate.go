package mocks

//go:generate mockgen -destination=./mock_bar_provider.go -package=mocks github.com/MGmoket/stock-assistant/internal/batch BarProvider
