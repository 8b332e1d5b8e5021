package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type encodedBody struct {
	payload     []byte
	contentType string
	json        bool
}

func isForm(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), echo.MIMEApplicationForm)
}

// encodeBody serializes structured values as JSON unless the caller asked
// for a form body. Raw payloads (bytes, strings, readers, url.Values) are
// sent untouched.
func encodeBody(body any, override string) (encodedBody, error) {
	switch b := body.(type) {
	case nil:
		return encodedBody{contentType: override}, nil
	case url.Values:
		ct := override
		if ct == "" {
			ct = echo.MIMEApplicationForm
		}
		return encodedBody{payload: []byte(b.Encode()), contentType: ct}, nil
	case []byte:
		return encodedBody{payload: b, contentType: override}, nil
	case string:
		return encodedBody{payload: []byte(b), contentType: override}, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return encodedBody{}, fmt.Errorf("read body: %w", err)
		}
		return encodedBody{payload: data, contentType: override}, nil
	}

	if isForm(override) {
		vals, err := formValues(body)
		if err != nil {
			return encodedBody{}, err
		}
		return encodedBody{payload: []byte(vals.Encode()), contentType: override}, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return encodedBody{}, fmt.Errorf("encode json body: %w", err)
	}
	ct := override
	if ct == "" {
		ct = echo.MIMEApplicationJSON
	}
	return encodedBody{payload: data, contentType: ct, json: true}, nil
}

// formValues flattens the top-level fields of body into form pairs.
func formValues(body any) (url.Values, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("flatten body: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("flatten body: %w", err)
	}

	vals := url.Values{}
	for k, v := range fields {
		vals.Add(k, stringify(v))
	}
	return vals, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
