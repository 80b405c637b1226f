package inventoryapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	dbContextKey     = "inventory.db"
	imagesContextKey = "inventory.images"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// GetDB returns the database handle bound to the request.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(dbContextKey).(*gorm.DB).WithContext(c.Request().Context())
}

// GetImages returns the upload store bound to the request.
func GetImages(c echo.Context) *ImageStore {
	return c.Get(imagesContextKey).(*ImageStore)
}

func inject(db *gorm.DB, images *ImageStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(dbContextKey, db)
			c.Set(imagesContextKey, images)
			return next(c)
		}
	}
}

// Register mounts the inventory REST routes and the uploaded image files on e.
func Register(e *echo.Echo, db *gorm.DB, images *ImageStore) {
	g := e.Group("", inject(db, images))
	registerProductRoutes(g)
	e.Static(UploadsURLPrefix, images.Dir())
}
