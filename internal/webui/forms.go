package webui

import (
	"io"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/talkincode/stockbook/internal/catalog"
	"github.com/talkincode/stockbook/internal/view"
)

// maxImageSize bounds an uploaded image read into memory.
const maxImageSize = 16 << 20

// decodeFields maps the modal inputs onto view.Fields. A checkbox is only
// submitted when checked, so the presence of is_sold means true.
func decodeFields(values url.Values) (view.Fields, error) {
	input := make(map[string]interface{}, len(values))
	for k, v := range values {
		if len(v) > 0 {
			input[k] = v[0]
		}
	}
	_, checked := values["is_sold"]
	input["is_sold"] = checked

	var fields view.Fields
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fields,
	})
	if err != nil {
		return fields, err
	}
	if err := dec.Decode(input); err != nil {
		return fields, errors.Wrap(err, "decode form fields")
	}
	return fields, nil
}

func formFields(c echo.Context) (view.Fields, error) {
	values, err := c.FormParams()
	if err != nil {
		return view.Fields{}, errors.Wrap(err, "parse form")
	}
	return decodeFields(values)
}

// formImage reads the chosen image, if any.
func formImage(c echo.Context) (*catalog.Upload, error) {
	fh, err := c.FormFile("image")
	if err != nil || fh.Filename == "" {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxImageSize))
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	return &catalog.Upload{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Content: content}, nil
}
