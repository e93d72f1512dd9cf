package output

import (
	"math"
	"time"

	"github.com/tidwall/gjson"
)

// DecodeRequest builds a Request from one JSON object such as
//
//	{"values": ["value:", 123], "end": "", "sep": "|",
//	 "perform_logging": true, "print_interval": 0.02, "color": "#00ff00"}
//
// All keys are optional. Kinds are checked strictly: end, sep and color must
// be strings, perform_logging a boolean and print_interval (seconds) a
// number. Values that are not strings are converted using their JSON text.
// Range checks happen later, in Build.
func DecodeRequest(data []byte) (Request, error) {
	return DecodeRequestOnto(NewRequest(), data)
}

// DecodeRequestOnto is DecodeRequest with base supplying the values of keys
// the object leaves out, e.g. a configured default print_interval.
func DecodeRequestOnto(base Request, data []byte) (Request, error) {
	if !gjson.ValidBytes(data) {
		return Request{}, kindError("request", "not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Request{}, kindError("request", "must be a JSON object")
	}

	req := base
	req.values = append([]string(nil), base.values...)

	if v := doc.Get("values"); v.Exists() {
		if !v.IsArray() {
			return Request{}, kindError("values", "must be an array, got "+v.Type.String())
		}
		req.values = nil
		for _, item := range v.Array() {
			req.values = append(req.values, valueText(item))
		}
	}

	var err error
	if req.end, err = stringParam(doc, "end", req.end); err != nil {
		return Request{}, err
	}
	if req.sep, err = stringParam(doc, "sep", req.sep); err != nil {
		return Request{}, err
	}
	// null is accepted for color and means unstyled.
	if v := doc.Get("color"); v.Type != gjson.Null {
		if req.color, err = stringParam(doc, "color", req.color); err != nil {
			return Request{}, err
		}
	}

	if v := doc.Get("perform_logging"); v.Exists() {
		if v.Type != gjson.True && v.Type != gjson.False {
			return Request{}, kindError("perform_logging", "must be a boolean, got "+v.Type.String())
		}
		req.logging = v.Bool()
	}

	if v := doc.Get("print_interval"); v.Exists() {
		if v.Type != gjson.Number {
			return Request{}, kindError("print_interval", "must be numeric, got "+v.Type.String())
		}
		seconds := v.Float()
		if math.IsInf(seconds, 0) || math.Abs(seconds) > math.MaxInt64/float64(time.Second) {
			return Request{}, rangeError("print_interval", "too large: "+v.Raw, nil)
		}
		req.interval = time.Duration(seconds * float64(time.Second))
		// Sub-nanosecond values keep their sign so they stay paced (or
		// rejected) instead of collapsing to 0.
		if req.interval == 0 && seconds > 0 {
			req.interval = time.Nanosecond
		} else if req.interval == 0 && seconds < 0 {
			req.interval = -time.Nanosecond
		}
	}

	return req, nil
}

func stringParam(doc gjson.Result, key, fallback string) (string, error) {
	v := doc.Get(key)
	if !v.Exists() {
		return fallback, nil
	}
	if v.Type != gjson.String {
		return "", kindError(key, "must be a string, got "+v.Type.String())
	}
	return v.String(), nil
}

func valueText(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}
