package view

import (
	"strconv"

	"github.com/talkincode/stockbook/internal/domain"
)

const (
	TitleCreate = "Add New Product"
	TitleEdit   = "Edit Product"
)

// Fields are the current values of the modal form inputs.
type Fields struct {
	ProductName string `mapstructure:"product_name"`
	ProductType string `mapstructure:"product_type"`
	DateBought  string `mapstructure:"date_bought"`
	PriceBought string `mapstructure:"price_bought"`
	Condition   string `mapstructure:"condition"`
	IsSold      bool   `mapstructure:"is_sold"`
	DateSold    string `mapstructure:"date_sold"`
	PriceSold   string `mapstructure:"price_sold"`
}

// Modal is the add/edit dialog.
type Modal struct {
	Open              bool
	Title             string
	SoldFieldsVisible bool
	Fields            Fields
}

// Submission describes where a form submit goes: the collection (create) or one item (update).
type Submission struct {
	Create bool
	ID     int64
}

// OpenCreate leaves edit mode, clears the form, hides the sold sub-fields and shows the dialog.
func (s State) OpenCreate() State {
	s.EditMode = false
	s.EditProductID = 0
	s.Modal = Modal{
		Open:  true,
		Title: TitleCreate,
	}
	return s
}

// BeginEdit binds edit mode to id. The dialog opens later, once the record is fetched.
func (s State) BeginEdit(id int64) State {
	s.EditMode = true
	s.EditProductID = id
	return s
}

// FillEdit populates the form from p and opens the dialog in edit mode.
// The sold sub-fields are revealed and filled only when p is sold; otherwise
// they keep whatever the inputs held before.
func (s State) FillEdit(p domain.Product) State {
	s.Modal.Title = TitleEdit
	f := &s.Modal.Fields
	f.ProductName = p.ProductName
	f.ProductType = p.ProductType
	f.DateBought = p.DateBought
	f.PriceBought = formatNumber(p.PriceBought)
	f.Condition = p.Condition
	f.IsSold = p.IsSold
	if p.IsSold {
		f.DateSold = ""
		if p.DateSold != nil {
			f.DateSold = *p.DateSold
		}
		f.PriceSold = ""
		if p.PriceSold != nil && *p.PriceSold != 0 {
			f.PriceSold = formatNumber(*p.PriceSold)
		}
		s.Modal.SoldFieldsVisible = true
	} else {
		s.Modal.SoldFieldsVisible = false
	}
	s.Modal.Open = true
	return s
}

// ToggleSold mirrors the sold checkbox onto sub-field visibility, in either mode.
func (s State) ToggleSold(checked bool) State {
	s.Modal.Fields.IsSold = checked
	s.Modal.SoldFieldsVisible = checked
	return s
}

// SetFields records what the user typed.
func (s State) SetFields(f Fields) State {
	s.Modal.Fields = f
	return s
}

// CloseModal hides the dialog; fields and edit binding survive.
func (s State) CloseModal() State {
	s.Modal.Open = false
	return s
}

// SubmitSucceeded closes the dialog and resets the inputs. Edit mode is left
// as is; opening the create dialog resets it.
func (s State) SubmitSucceeded() State {
	s.Modal.Open = false
	s.Modal.Fields = Fields{}
	return s
}

// Submission reports the target of a submit made in the current state.
func (s State) Submission() Submission {
	if s.EditMode {
		return Submission{ID: s.EditProductID}
	}
	return Submission{Create: true}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
