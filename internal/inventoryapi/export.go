package inventoryapi

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/talkincode/stockbook/internal/domain"
	"gorm.io/gorm"
)

// ExportCSV writes every product, in backend order, as CSV with a header row.
func ExportCSV(db *gorm.DB, w io.Writer) error {
	var rows []domain.ProductRecord
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return errors.Wrap(err, "query products")
	}
	return errors.Wrap(gocsv.Marshal(toProducts(rows), w), "write csv")
}

// WriteSnapshot exports the catalog into dir as products-YYYYMMDD.csv and
// returns the file path.
func WriteSnapshot(db *gorm.DB, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create backup dir")
	}
	name := filepath.Join(dir, "products-"+now.Format("20060102")+".csv")
	if err := writeFile(name, func(w io.Writer) error { return ExportCSV(db, w) }); err != nil {
		return "", errors.WithMessage(err, "write snapshot")
	}
	return name, nil
}

// writeFile creates name and fills it with write. The file is removed when
// writing or closing fails, so a returned nil error means the data is on disk.
func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	err = write(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close file")
	}
	if err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}
