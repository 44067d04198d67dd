package encoding

import (
	"log/slog"
	"unicode/utf8"
)

// Result is the outcome of reversing an encoding stack. When Decoded is
// false, Body is the caller's original bytes untouched: the stack could not
// be safely reversed (or there was nothing to reverse) and the response must
// be passed through unmodified.
type Result struct {
	Body    []byte
	Decoded bool
}

// Decode reverses the full encoding stack over body, walking the stack in
// reverse declaration order.
//
// The cascade is all-or-nothing. Any unknown token, unavailable codec, or
// decode failure aborts the whole cascade and returns the original bytes: a
// partially decoded body paired with a now-wrong Content-Encoding header
// would silently corrupt the response for every client. The fully decoded
// result must also be valid UTF-8; a binary payload behind a text-ish
// content type is likewise left untouched.
//
// An empty stack decodes trivially: the body is already plaintext.
func Decode(reg *Registry, stack Stack, body []byte, logger *slog.Logger) Result {
	if stack.Empty() {
		if !utf8.Valid(body) {
			return Result{Body: body}
		}
		return Result{Body: body, Decoded: true}
	}

	current := body
	for i := len(stack) - 1; i >= 0; i-- {
		token := stack[i]
		fn, status := reg.Lookup(token)
		switch status {
		case StatusUnknown:
			logger.Debug("unknown content coding, passing response through",
				slog.String("coding", token))
			return Result{Body: body}
		case StatusUnavailable:
			logger.Debug("content coding recognized but no decoder available, passing response through",
				slog.String("coding", token))
			return Result{Body: body}
		}

		out, err := fn(current)
		if err != nil {
			logger.Debug("content coding failed to decode, passing response through",
				slog.String("coding", token),
				slog.Any("error", err))
			return Result{Body: body}
		}
		current = out
	}

	if !utf8.Valid(current) {
		logger.Debug("decoded body is not valid UTF-8, passing response through")
		return Result{Body: body}
	}
	return Result{Body: current, Decoded: true}
}
