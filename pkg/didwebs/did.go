/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didwebs parses and normalizes the did:keri, did:web and did:webs
// URI encodings of a self-certifying identifier.
package didwebs

import (
	"fmt"
	"strconv"
	"strings"
)

// Method is the DID method of a parsed DID.
type Method string

// DID methods understood by this package.
const (
	MethodKeri Method = "keri"
	MethodWeb  Method = "web"
	MethodWebs Method = "webs"
)

const (
	keriScheme = "did:keri:"
	webScheme  = "did:web:"
	websScheme = "did:webs:"

	encodedPortSep = "%3a"

	maxPort = 65535
)

// DID is a parsed did:keri or did:web(s) DID. Domain, Port, Path and Query
// are only populated for the web methods; a keri DID is the identifier alone.
type DID struct {
	Method   Method
	AID      string
	Domain   string
	Port     int // 0 when no port is present
	Path     []string
	RawQuery string // query component without the leading '?'
	Query    map[string]interface{}
}

// String serializes the DID in canonical form: the port, when present, is
// percent-encoded as %3A.
func (d *DID) String() string {
	if d.Method == MethodKeri {
		return keriScheme + d.AID
	}

	var b strings.Builder

	fmt.Fprintf(&b, "did:%s:%s", d.Method, d.Domain)

	if d.Port > 0 {
		fmt.Fprintf(&b, "%%3A%d", d.Port)
	}

	for _, seg := range d.Path {
		b.WriteString(":" + seg)
	}

	b.WriteString(":" + d.AID)

	if d.RawQuery != "" {
		b.WriteString("?" + d.RawQuery)
	}

	return b.String()
}

// Parse parses a DID in canonical encoding. The scheme segment is matched
// case-insensitively; for the web methods the port, if present, must be
// percent-encoded immediately after the domain.
func Parse(did string) (*DID, error) {
	return parse(did, false)
}

// ParseLegacy accepts the historical did:web(s) encoding in which the port
// colon is not percent-encoded. It exists only as a repair path for ReEncode;
// canonical input does not match it.
func ParseLegacy(did string) (*DID, error) {
	return parse(did, true)
}

func parse(did string, legacyPort bool) (*DID, error) {
	switch {
	case hasScheme(did, keriScheme):
		return parseKeri(did)
	case hasScheme(did, websScheme):
		return parseWeb(did, MethodWebs, did[len(websScheme):], legacyPort)
	case hasScheme(did, webScheme):
		return parseWeb(did, MethodWeb, did[len(webScheme):], legacyPort)
	default:
		return nil, fmt.Errorf("%s does not use the did:keri or did:web(s) scheme: %w", did, ErrInvalidDID)
	}
}

func hasScheme(did, scheme string) bool {
	return len(did) > len(scheme) && strings.EqualFold(did[:len(scheme)], scheme)
}

func parseKeri(did string) (*DID, error) {
	aid := did[len(keriScheme):]
	if strings.ContainsAny(aid, ":?") {
		return nil, fmt.Errorf("%s is not a valid did:keri DID: %w", did, ErrInvalidDID)
	}

	if err := ValidateAID(aid); err != nil {
		return nil, err
	}

	return &DID{Method: MethodKeri, AID: aid}, nil
}

func parseWeb(did string, method Method, rest string, legacyPort bool) (*DID, error) {
	rest, rawQuery, hasQuery := cutQuery(rest)

	segs := strings.Split(rest, ":")
	d := &DID{Method: method}

	var err error
	if segs, err = parseAuthority(d, did, segs, legacyPort); err != nil {
		return nil, err
	}

	if len(segs) == 0 {
		return nil, fmt.Errorf("%s is missing an identifier segment: %w", did, ErrInvalidDID)
	}

	for _, seg := range segs[:len(segs)-1] {
		if seg == "" {
			return nil, fmt.Errorf("%s contains an empty path segment: %w", did, ErrInvalidDID)
		}
	}

	d.Path = segs[:len(segs)-1]

	d.AID = segs[len(segs)-1]
	if err := ValidateAID(d.AID); err != nil {
		return nil, err
	}

	if hasQuery {
		d.RawQuery = rawQuery

		if d.Query, err = ParseQuery(rawQuery); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// parseAuthority consumes the domain (and port, in whichever encoding the
// caller allows) from the head of segs and returns the remaining segments.
func parseAuthority(d *DID, did string, segs []string, legacyPort bool) ([]string, error) {
	head := segs[0]
	segs = segs[1:]

	if legacyPort {
		d.Domain = head

		// port is a bare all-digit segment directly after the domain,
		// provided at least an identifier segment follows it
		if len(segs) >= 2 && allDigits(segs[0]) {
			port, err := parsePort(did, segs[0])
			if err != nil {
				return nil, err
			}

			d.Port = port
			segs = segs[1:]
		}
	} else if i := strings.Index(strings.ToLower(head), encodedPortSep); i >= 0 {
		port, err := parsePort(did, head[i+len(encodedPortSep):])
		if err != nil {
			return nil, err
		}

		d.Domain = head[:i]
		d.Port = port
	} else {
		d.Domain = head
	}

	if d.Domain == "" || strings.Contains(d.Domain, "%") {
		return nil, fmt.Errorf("%s does not carry a valid domain: %w", did, ErrInvalidDID)
	}

	return segs, nil
}

func parsePort(did, raw string) (int, error) {
	if !allDigits(raw) {
		return 0, fmt.Errorf("%s carries a non-numeric port %q: %w", did, raw, ErrInvalidDID)
	}

	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > maxPort {
		return 0, fmt.Errorf("%s carries an out-of-range port %q: %w", did, raw, ErrInvalidDID)
	}

	return port, nil
}

func cutQuery(rest string) (string, string, bool) {
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		return rest[:i], rest[i+1:], true
	}

	return rest, "", false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

// ReEncode rewrites a legacy unencoded-port did:webs DID to canonical form,
// preserving path, identifier and query. Canonically encoded input is
// returned unchanged and did:keri input is re-validated and returned as is.
func ReEncode(did string) (string, error) {
	switch {
	case hasScheme(did, keriScheme):
		d, err := Parse(did)
		if err != nil {
			return "", err
		}

		return d.String(), nil
	case hasScheme(did, websScheme):
		// read the input in the legacy grammar, in which bare digits after
		// the domain are the port; a canonically encoded port puts a '%'
		// in the legacy domain and falls through to the canonical parse
		if d, err := ParseLegacy(did); err == nil {
			return d.String(), nil
		}

		d, err := Parse(did)
		if err != nil {
			return "", err
		}

		return d.String(), nil
	default:
		return "", fmt.Errorf("%s is not a did:webs or did:keri DID: %w", did, ErrInvalidDID)
	}
}

// StripQuery removes the query component of a did:web(s) DID and
// re-serializes the remainder in canonical form. A did:keri DID carries no
// query and is returned unchanged.
func StripQuery(did string) (string, error) {
	d, err := Parse(did)
	if err != nil {
		return "", err
	}

	if d.Method == MethodKeri {
		return did, nil
	}

	d.RawQuery = ""
	d.Query = nil

	return d.String(), nil
}
