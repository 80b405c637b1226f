package inventoryapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/stockbook/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// productPayload is the multipart form sent by the catalog client.
type productPayload struct {
	ProductName string `form:"product_name" validate:"required,max=100"`
	ProductType string `form:"product_type" validate:"required,max=50"`
	DateBought  string `form:"date_bought" validate:"required"`
	PriceBought string `form:"price_bought" validate:"required"`
	Condition   string `form:"condition" validate:"required,max=20"`
	IsSold      string `form:"is_sold"`
	DateSold    string `form:"date_sold"`
	PriceSold   string `form:"price_sold"`
}

// registerProductRoutes registers the product CRUD, search and export endpoints
func registerProductRoutes(g *echo.Group) {
	g.GET("/products", listProducts)
	g.GET("/products/export.csv", exportProducts)
	g.GET("/search", searchProducts)
	g.POST("/products", createProduct)
	g.PUT("/products/:id", updateProduct)
	g.DELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	var rows []domain.ProductRecord
	if err := GetDB(c).Order("id").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, toProducts(rows))
}

// searchProducts filters by name (case-insensitive contains) or by exact type.
// A blank query lists everything.
func searchProducts(c echo.Context) error {
	mode := domain.ParseSearchMode(c.QueryParam("type"))
	query := strings.TrimSpace(c.QueryParam("query"))

	db := GetDB(c).Model(&domain.ProductRecord{})
	switch {
	case query == "":
	case mode == domain.SearchByType:
		db = db.Where("product_type = ?", query)
	case strings.EqualFold(db.Dialector.Name(), "postgres"):
		db = db.Where("product_name ILIKE ?", "%"+query+"%")
	default:
		db = db.Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	var rows []domain.ProductRecord
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to search products", err.Error())
	}
	return ok(c, toProducts(rows))
}

func createProduct(c echo.Context) error {
	var rec domain.ProductRecord
	if err := bindProduct(c, &rec); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := storeImage(c, &rec); err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store image", err.Error())
	}
	if err := GetDB(c).Create(&rec).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	zap.L().Info("product created", zap.String("namespace", "inventory"), zap.Int64("id", rec.ID))
	return c.JSON(http.StatusCreated, rec.Product())
}

func updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var rec domain.ProductRecord
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	if err := bindProduct(c, &rec); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	// an update without a new file keeps the stored image
	if err := storeImage(c, &rec); err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store image", err.Error())
	}
	if err := GetDB(c).Save(&rec).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, rec.Product())
}

func deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	result := GetDB(c).Where("id = ?", id).Delete(&domain.ProductRecord{})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id, "message": "Product deleted successfully!"})
}

func exportProducts(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	if err := ExportCSV(GetDB(c), c.Response()); err != nil {
		zap.L().Error("export products failed", zap.String("namespace", "inventory"), zap.Error(err))
		return err
	}
	return nil
}

// bindProduct binds and validates the form, then copies it onto rec.
// The sold fields follow the submitted values: empty clears them.
func bindProduct(c echo.Context, rec *domain.ProductRecord) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return err
	}

	dateBought, err := parseDate(payload.DateBought)
	if err != nil {
		return errors.Wrap(err, "date_bought")
	}
	priceBought, err := parsePrice(payload.PriceBought)
	if err != nil {
		return errors.Wrap(err, "price_bought")
	}
	rec.ProductName = strings.TrimSpace(payload.ProductName)
	rec.ProductType = strings.TrimSpace(payload.ProductType)
	rec.DateBought = dateBought
	rec.PriceBought = priceBought
	rec.Condition = strings.TrimSpace(payload.Condition)
	rec.IsSold = payload.IsSold == "on" || cast.ToBool(payload.IsSold)

	rec.DateSold, rec.PriceSold = nil, nil
	if s := strings.TrimSpace(payload.DateSold); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return errors.Wrap(err, "date_sold")
		}
		rec.DateSold = &d
	}
	if s := strings.TrimSpace(payload.PriceSold); s != "" {
		v, err := parsePrice(s)
		if err != nil {
			return errors.Wrap(err, "price_sold")
		}
		rec.PriceSold = &v
	}
	return nil
}

// storeImage saves the "image" file part, if one was chosen.
func storeImage(c echo.Context, rec *domain.ProductRecord) error {
	fh, err := c.FormFile("image")
	if err != nil || fh.Filename == "" || fh.Size == 0 {
		return nil
	}
	url, err := GetImages(c).Save(fh)
	if err != nil {
		return err
	}
	rec.Image = &url
	return nil
}

// parseDate reads dd/mm/yyyy, falling back to any unambiguous format such as ISO dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{domain.DateLayout, "2/1/2006"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q", s)
	}
	return t, nil
}

func parsePrice(s string) (float64, error) {
	v, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Errorf("invalid price %q", s)
	}
	return v, nil
}

func toProducts(rows []domain.ProductRecord) []domain.Product {
	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, r.Product())
	}
	return products
}
