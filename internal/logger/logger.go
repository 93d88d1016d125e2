package logger

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	tagColor     = color.New(color.FgWhite, color.Bold)
	bannerColor  = color.New(color.FgMagenta, color.Bold)
)

func line(c *color.Color, symbol, tag, msg string) {
	fmt.Printf("%s %s %s\n", c.Sprint(symbol), tagColor.Sprintf("[%s]", tag), msg)
}

// Info logs an informational message under a component tag.
func Info(tag, msg string) {
	line(infoColor, "•", tag, msg)
}

// Success logs a completed milestone.
func Success(tag, msg string) {
	line(successColor, "✓", tag, msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	line(warnColor, "!", tag, msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	line(errorColor, "✗", tag, msg)
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	bannerColor.Println("┌──────────────────────────────────┐")
	bannerColor.Printf("│  price-intel  %-18s │\n", version)
	bannerColor.Println("└──────────────────────────────────┘")
}

// Section prints a section divider for grouped startup output.
func Section(title string) {
	fmt.Println()
	tagColor.Printf("── %s ──\n", title)
}

// Stats prints a key/value line, right under a Section.
func Stats(key string, value interface{}) {
	fmt.Printf("   %s: %v\n", key, value)
}

// Server logs the address the HTTP server is listening on.
func Server(addr string) {
	Success("Server", fmt.Sprintf("Listening on http://%s", addr))
}
