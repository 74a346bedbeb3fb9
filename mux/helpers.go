package mux

import (
	"fmt"
	"net/http"
	"strings"
)

// splitPath trims leading and trailing slashes and splits the path into
// segments. The root path yields a single empty segment, so "/" only
// matches a "/" pattern.
func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// EffectiveMethod returns the method a request is matched as. A POST request
// carrying a non-empty form field named field is matched as the upper-cased
// field value; any other request is matched as its own method.
func EffectiveMethod(r *http.Request, field string) string {
	if r.Method != http.MethodPost || field == "" {
		return r.Method
	}

	// PostFormValue parses url-encoded and multipart bodies; other content
	// types yield an empty value.
	if v := r.PostFormValue(field); v != "" {
		return strings.ToUpper(v)
	}

	return r.Method
}

// checkPairs returns an error if the list of key/value pairs has odd length.
func checkPairs(pairs ...string) (int, error) {
	if len(pairs)%2 != 0 {
		return 0, fmt.Errorf("mux: number of parameters must be multiple of 2, got %v", pairs)
	}
	return len(pairs) / 2, nil
}

// mapFromPairsToString converts variadic string parameters to a string map.
func mapFromPairsToString(pairs ...string) (map[string]string, error) {
	length, err := checkPairs(pairs...)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, length)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return m, nil
}
