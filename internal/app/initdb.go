package app

import (
	"time"

	"github.com/talkincode/stockbook/internal/domain"
	"go.uber.org/zap"
)

func date(day, month, year int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
}

// checkProducts seeds a few demo products into an empty catalog
func (a *Application) checkProducts() {
	var count int64
	if err := a.gormDB.Model(&domain.ProductRecord{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to count products", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	soldOn, soldFor := date(14, 3, 2024), 85.0
	defaultProducts := []domain.ProductRecord{
		{ProductName: "Vintage Camera", ProductType: "Electronics", DateBought: date(2, 1, 2024), PriceBought: 45, Condition: "Good"},
		{ProductName: "Oak Side Table", ProductType: "Furniture", DateBought: date(18, 1, 2024), PriceBought: 30, Condition: "Fair"},
		{ProductName: "Denim Jacket", ProductType: "Clothing", DateBought: date(5, 2, 2024), PriceBought: 12.5, Condition: "Like New"},
		{ProductName: "First Edition Novel", ProductType: "Books", DateBought: date(20, 2, 2024), PriceBought: 8, Condition: "Good",
			IsSold: true, DateSold: &soldOn, PriceSold: &soldFor},
		{ProductName: "Brass Lamp", ProductType: "Homeware", DateBought: date(1, 3, 2024), PriceBought: 15, Condition: "Good"},
	}

	for _, p := range defaultProducts {
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create default product", zap.String("name", p.ProductName), zap.Error(err))
		} else {
			zap.L().Info("initialized default product", zap.String("name", p.ProductName))
		}
	}
}
