/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebs

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ParseQuery parses a DID query component into a mapping with coerced
// values. Each value is tried as a boolean (case-insensitive true/false),
// then as an integer, and kept as a string otherwise. Keys with a blank
// value are dropped. An empty or "?"-only query yields an empty mapping.
func ParseQuery(raw string) (map[string]interface{}, error) {
	raw = strings.TrimPrefix(raw, "?")

	result := map[string]interface{}{}
	if raw == "" {
		return result, nil
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("parse DID query %q: %w", raw, err)
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		v := vals[0]

		switch {
		case strings.EqualFold(v, "true"):
			result[key] = true
		case strings.EqualFold(v, "false"):
			result[key] = false
		default:
			if n, convErr := strconv.Atoi(v); convErr == nil {
				result[key] = n
			} else {
				result[key] = v
			}
		}
	}

	return result, nil
}

// ResolutionParams are the caller-tunable parameters a DID query component
// can carry.
type ResolutionParams struct {
	Meta      bool `mapstructure:"meta"`
	VersionID int  `mapstructure:"versionId"`
}

// ResolutionParamsFromQuery decodes a parsed query mapping into typed
// resolution parameters. Unknown query keys are ignored.
func ResolutionParamsFromQuery(query map[string]interface{}) (*ResolutionParams, error) {
	params := &ResolutionParams{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           params,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build query decoder: %w", err)
	}

	if err := decoder.Decode(query); err != nil {
		return nil, fmt.Errorf("decode DID query parameters: %w", err)
	}

	return params, nil
}
