// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

import (
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// decodeBodyText turns an error body into UTF-8 text. Bodies that declare a
// non-UTF-8 charset are transcoded; undeclared bodies that are not valid
// UTF-8 are treated as Latin-1, which is what older server builds emit.
func decodeBodyText(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}
	label := declaredCharset(contentType)
	switch {
	case label != "" && !isUTF8Label(label):
		if enc, _ := charset.Lookup(label); enc != nil {
			if out, err := enc.NewDecoder().Bytes(body); err == nil {
				return string(out)
			}
		}
	case label == "" && !utf8.Valid(body):
		if out, err := charmap.ISO8859_1.NewDecoder().Bytes(body); err == nil {
			return string(out)
		}
	}
	return string(body)
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}

func isUTF8Label(label string) bool {
	return label == "utf-8" || label == "utf8"
}
