package cmd

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// applySets patches json by applying each "path=value" pair in sets, in
// order, via sjson. value is written as raw JSON when it parses as valid
// JSON (numbers, booleans, null, quoted strings, objects, arrays), and as
// a plain string otherwise.
func applySets(json string, sets []string) (string, error) {
	for _, kv := range sets {
		path, value, err := splitSet(kv)
		if err != nil {
			return "", err
		}
		if gjson.Valid(value) {
			json, err = sjson.SetRaw(json, path, value)
		} else {
			json, err = sjson.Set(json, path, value)
		}
		if err != nil {
			return "", err
		}
	}
	return json, nil
}

func splitSet(kv string) (path, value string, err error) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], nil
		}
	}
	return "", "", &setFormatError{kv}
}

type setFormatError struct{ raw string }

func (e *setFormatError) Error() string {
	return "invalid --set value (want path=value): " + e.raw
}
