package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Philanthropists/outcome/pkg/result"
)

var (
	okColor     = color.New(color.FgGreen, color.Bold).SprintFunc()
	badColor    = color.New(color.FgRed, color.Bold).SprintFunc()
	reasonColor = color.New(color.FgYellow).SprintFunc()
	valueColor  = color.New(color.FgCyan).SprintFunc()
)

func render[T any](res result.Result[T], describe func(T) string) string {
	return result.Match(res, result.Cases[T, string]{
		Ok: func() string {
			return okColor("OK")
		},
		OkWith: func(v T) string {
			return fmt.Sprintf("%s %s", okColor("OK"), valueColor(describe(v)))
		},
		Bad: func(r result.Reason) string {
			return fmt.Sprintf("%s %s", badColor("BAD"), reasonColor(r.String()))
		},
		BadWith: func(r result.Reason, v T) string {
			return fmt.Sprintf("%s %s %s", badColor("BAD"), reasonColor(r.String()), valueColor(describe(v)))
		},
	})
}

// printOutcome writes res and reports failures through the exit code.
func printOutcome[T any](w io.Writer, res result.Result[T], describe func(T) string) error {
	_, _ = fmt.Fprintln(w, render(res, describe))

	if !res.Success() {
		return errFailedOutcome
	}

	return nil
}

func describeList[T any](items []T, describe func(T) string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, describe(it))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
