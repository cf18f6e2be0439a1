package server

import "fmt"

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m"
)

var methodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

// colourMethod pads method to a fixed width and wraps it in its ANSI colour.
func colourMethod(method string) string {
	padded := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	return color + padded + ResetColor
}

// colourOutcome highlights redirects in the request log.
func colourOutcome(state State) string {
	switch state {
	case Admitted:
		return Green + state.String() + ResetColor
	case Redirected:
		return Yellow + state.String() + ResetColor
	default:
		return Gray + state.String() + ResetColor
	}
}
