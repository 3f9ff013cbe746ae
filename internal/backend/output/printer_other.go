//go:build !windows

package output

func newPlatformPrinter() Printer {
	return NewCommandPrinter("lpr")
}
