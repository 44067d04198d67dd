// Package encoding reverses HTTP content codings. It parses Content-Encoding
// header values into an ordered stack of coding tokens and undoes them in
// reverse declaration order through a registry of decoders.
//
// gzip and deflate decoders are always compiled in. br and zstd are optional:
// they can be excluded at build time with the debugtoolbar_nobrotli and
// debugtoolbar_nozstd tags, or disabled at runtime through configuration. The
// registry distinguishes tokens it has never heard of from tokens it knows
// but has no decoder for, because callers log the two cases differently.
package encoding

import "strings"

// Stack is the ordered list of content codings declared by an origin,
// left-to-right as they appear in the Content-Encoding header. The origin
// applied them in that order, so decoding walks the stack right-to-left.
type Stack []string

// ParseStack parses a raw Content-Encoding header value into a Stack.
//
// Tokens are compared case-insensitively. "identity" is a semantic no-op per
// RFC 9110 and is dropped, as are empty tokens produced by doubled commas.
// An absent or empty header yields an empty stack, and so may a present
// header consisting only of identity tokens.
func ParseStack(header string) Stack {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	var stack Stack
	for _, token := range strings.Split(header, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" || token == "identity" {
			continue
		}
		stack = append(stack, token)
	}
	return stack
}

// Empty reports whether the stack declares no reversible codings.
func (s Stack) Empty() bool {
	return len(s) == 0
}
